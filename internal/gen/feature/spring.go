package feature

import (
	"encoding/json"
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// SpringFeature places a single fluid source in a wall or floor pocket: the
// origin must be boxed in by exactly RockCount valid blocks and exactly
// HoleCount air blocks among its lateral and lower neighbors.
type SpringFeature struct {
	State              *block.State
	ValidBlocks        map[*block.Block]bool
	RockCount          int
	HoleCount          int
	RequiresBlockBelow bool
}

func (f SpringFeature) Generate(ctx *Context, _ rng.Source, origin geom.Pos) bool {
	if !f.ValidBlocks[ctx.Level.StateAt(origin.Up()).Block] {
		return false
	}
	if f.RequiresBlockBelow && !f.ValidBlocks[ctx.Level.StateAt(origin.Down()).Block] {
		return false
	}
	here := ctx.Level.StateAt(origin).Block
	if !here.Air && !f.ValidBlocks[here] {
		return false
	}

	neighbors := [5]geom.Pos{
		origin.Offset(geom.North),
		origin.Offset(geom.South),
		origin.Offset(geom.West),
		origin.Offset(geom.East),
		origin.Down(),
	}
	rocks, holes := 0, 0
	for _, n := range neighbors {
		b := ctx.Level.StateAt(n).Block
		if f.ValidBlocks[b] {
			rocks++
		}
		if b.Air {
			holes++
		}
	}
	if rocks != f.RockCount || holes != f.HoleCount {
		return false
	}
	ctx.Level.SetState(origin, f.State)
	return true
}

// ReplaceBlobsFeature walks down to the nearest target block and replaces a
// manhattan-bounded blob of that block around it.
type ReplaceBlobsFeature struct {
	Target *block.Block
	State  *block.State
	Radius provider.Int
}

func (f ReplaceBlobsFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	start := origin
	if start.Y < ctx.MinY+1 {
		start.Y = ctx.MinY + 1
	}
	if start.Y > ctx.TopY()-1 {
		start.Y = ctx.TopY() - 1
	}
	for ctx.Level.StateAt(start).Block != f.Target {
		if start.Y <= ctx.MinY+1 {
			return false
		}
		start = start.Down()
	}

	rx := f.Radius.Get(r)
	ry := f.Radius.Get(r)
	rz := f.Radius.Get(r)
	maxDist := maxOf(rx, maxOf(ry, rz))

	replaced := false
	geom.IterateOutwards(start, rx, ry, rz, func(pos geom.Pos) bool {
		if pos.ManhattanDistance(start) > maxDist {
			return false
		}
		if ctx.Level.StateAt(pos).Block == f.Target {
			ctx.Level.SetState(pos, f.State)
			replaced = true
		}
		return true
	})
	return replaced
}

func decodeSpring(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		State              json.RawMessage `json:"state"`
		RockCount          int             `json:"rock_count"`
		HoleCount          int             `json:"hole_count"`
		RequiresBlockBelow bool            `json:"requires_block_below"`
		ValidBlocks        json.RawMessage `json:"valid_blocks"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	s, err := predicate.DecodeStateCodec(v.State, reg)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(v.ValidBlocks, &names); err != nil {
		var one string
		if err := json.Unmarshal(v.ValidBlocks, &one); err != nil {
			return nil, err
		}
		names = []string{one}
	}
	valid := make(map[*block.Block]bool, len(names))
	for _, name := range names {
		b, ok := reg.Block(name)
		if !ok {
			return nil, fmt.Errorf("unknown block %q", name)
		}
		valid[b] = true
	}
	return SpringFeature{
		State:              s,
		ValidBlocks:        valid,
		RockCount:          v.RockCount,
		HoleCount:          v.HoleCount,
		RequiresBlockBelow: v.RequiresBlockBelow,
	}, nil
}

func decodeReplaceBlobs(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		Target json.RawMessage `json:"target"`
		State  json.RawMessage `json:"state"`
		Radius json.RawMessage `json:"radius"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	target, err := predicate.DecodeStateCodec(v.Target, reg)
	if err != nil {
		return nil, err
	}
	state, err := predicate.DecodeStateCodec(v.State, reg)
	if err != nil {
		return nil, err
	}
	radius, err := provider.DecodeInt(v.Radius)
	if err != nil {
		return nil, err
	}
	return ReplaceBlobsFeature{Target: target.Block, State: state, Radius: radius}, nil
}

func init() {
	registerDecoder("spring_feature", decodeSpring)
	registerDecoder("netherrack_replace_blobs", decodeReplaceBlobs)
	registerDecoder("replace_blobs", decodeReplaceBlobs)
}
