package feature

import (
	"encoding/json"
	"fmt"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// RandomPatchFeature scatters attempts of an inner placed feature around the
// origin. Each try offsets by the difference of two bounded draws per axis,
// which biases attempts toward the center.
type RandomPatchFeature struct {
	Tries    int
	XZSpread int
	YSpread  int
	Inner    PlacedFeature
}

func (f RandomPatchFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	placed := 0
	for i := 0; i < f.Tries; i++ {
		pos := origin.Add(
			int(r.NextBounded(int32(f.XZSpread+1)))-int(r.NextBounded(int32(f.XZSpread+1))),
			int(r.NextBounded(int32(f.YSpread+1)))-int(r.NextBounded(int32(f.YSpread+1))),
			int(r.NextBounded(int32(f.XZSpread+1)))-int(r.NextBounded(int32(f.XZSpread+1))),
		)
		if f.Inner.Generate(ctx, r, pos) {
			placed++
		}
	}
	return placed > 0
}

// SimpleBlockFeature places one provider-selected state if it can survive.
type SimpleBlockFeature struct {
	ToPlace provider.BlockState
}

func (f SimpleBlockFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	s := f.ToPlace.Get(r, origin)
	if !ctx.Level.StateAt(origin).Block.Replaceable {
		return false
	}
	if !ctx.Placement.CanPlaceAt(s.Block, ctx.Level, origin) {
		return false
	}
	ctx.Level.SetState(origin, s)
	return true
}

// BlockColumnLayer is one run of a column: a height draw and its material.
type BlockColumnLayer struct {
	Height   provider.Int
	Provider provider.BlockState
}

// BlockColumnFeature grows a column of layered materials in one direction,
// shortening it where placement is blocked.
type BlockColumnFeature struct {
	Direction        geom.Direction
	AllowedPlacement predicate.BlockPredicate
	PrioritizeTip    bool
	Layers           []BlockColumnLayer
}

func (f BlockColumnFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	heights := make([]int, len(f.Layers))
	total := 0
	for i, layer := range f.Layers {
		heights[i] = layer.Height.Get(r)
		total += heights[i]
	}
	if total == 0 {
		return false
	}

	w := ctx.PredicateWorld()
	probe := origin
	for step := 0; step < total; step++ {
		if !f.AllowedPlacement.Test(w, probe) {
			f.truncate(heights, total, step)
			break
		}
		probe = probe.Offset(f.Direction)
	}

	pos := origin
	placed := false
	for i, layer := range f.Layers {
		for n := 0; n < heights[i]; n++ {
			ctx.Level.SetState(pos, layer.Provider.Get(r, pos))
			pos = pos.Offset(f.Direction)
			placed = true
		}
	}
	return placed
}

// truncate removes the overshoot from the layer heights. When the tip is
// prioritized the base layers shrink first, otherwise the tip does.
func (f BlockColumnFeature) truncate(heights []int, total, fit int) {
	over := total - fit
	start, end, step := len(heights)-1, -1, -1
	if f.PrioritizeTip {
		start, end, step = 0, len(heights), 1
	}
	for i := start; i != end && over > 0; i += step {
		cut := heights[i]
		if cut > over {
			cut = over
		}
		heights[i] -= cut
		over -= cut
	}
}

func decodeRandomPatch(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		Tries    int             `json:"tries"`
		XZSpread int             `json:"xz_spread"`
		YSpread  int             `json:"y_spread"`
		Feature  json.RawMessage `json:"feature"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	if v.Tries <= 0 {
		v.Tries = 128
	}
	inner, err := DecodePlaced(v.Feature, reg)
	if err != nil {
		return nil, err
	}
	return RandomPatchFeature{
		Tries:    v.Tries,
		XZSpread: v.XZSpread,
		YSpread:  v.YSpread,
		Inner:    inner,
	}, nil
}

func decodeSimpleBlock(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		ToPlace json.RawMessage `json:"to_place"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	p, err := provider.DecodeBlockState(v.ToPlace, reg)
	if err != nil {
		return nil, err
	}
	return SimpleBlockFeature{ToPlace: p}, nil
}

func decodeBlockColumn(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		Direction        string          `json:"direction"`
		AllowedPlacement json.RawMessage `json:"allowed_placement"`
		PrioritizeTip    bool            `json:"prioritize_tip"`
		Layers           []struct {
			Height   json.RawMessage `json:"height"`
			Provider json.RawMessage `json:"provider"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	d, ok := geom.DirectionByName(strings.TrimPrefix(v.Direction, "minecraft:"))
	if !ok {
		return nil, fmt.Errorf("unknown direction %q", v.Direction)
	}
	allowed, err := predicate.DecodeBlockPredicate(v.AllowedPlacement, reg)
	if err != nil {
		return nil, err
	}
	layers := make([]BlockColumnLayer, 0, len(v.Layers))
	for _, l := range v.Layers {
		h, err := provider.DecodeInt(l.Height)
		if err != nil {
			return nil, err
		}
		p, err := provider.DecodeBlockState(l.Provider, reg)
		if err != nil {
			return nil, err
		}
		layers = append(layers, BlockColumnLayer{Height: h, Provider: p})
	}
	return BlockColumnFeature{
		Direction:        d,
		AllowedPlacement: allowed,
		PrioritizeTip:    v.PrioritizeTip,
		Layers:           layers,
	}, nil
}

func init() {
	registerDecoder("random_patch", decodeRandomPatch)
	registerDecoder("flower", decodeRandomPatch)
	registerDecoder("no_bonemeal_flower", decodeRandomPatch)
	registerDecoder("simple_block", decodeSimpleBlock)
	registerDecoder("block_column", decodeBlockColumn)
}
