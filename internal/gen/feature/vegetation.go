package feature

import (
	"encoding/json"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// SeagrassFeature plants seagrass on the ocean floor near the origin. Tall
// seagrass takes two water blocks and both halves.
type SeagrassFeature struct {
	TallProbability float32
}

func (f SeagrassFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	dx := int(r.NextBounded(8)) - int(r.NextBounded(8))
	dz := int(r.NextBounded(8)) - int(r.NextBounded(8))
	col := geom.ColumnPos{X: origin.X + dx, Z: origin.Z + dz}
	floor := ctx.Level.HeightExclusive(chunk.OceanFloor, col)
	pos := geom.Pos{X: col.X, Y: floor, Z: col.Z}

	if ctx.Level.StateAt(pos).Block.Name != "water" {
		return false
	}
	tall := float32(r.NextFloat64()) < f.TallProbability
	if tall {
		b := ctx.Registry.MustBlock("tall_seagrass")
		if !ctx.Placement.CanPlaceAt(b, ctx.Level, pos) {
			return false
		}
		above := pos.Up()
		if ctx.Level.StateAt(above).Block.Name != "water" {
			return false
		}
		ctx.Level.SetState(pos, b.StateVariant("half=lower"))
		ctx.Level.SetState(above, b.StateVariant("half=upper"))
		return true
	}
	b := ctx.Registry.MustBlock("seagrass")
	if !ctx.Placement.CanPlaceAt(b, ctx.Level, pos) {
		return false
	}
	ctx.Level.SetState(pos, b.DefaultState())
	return true
}

// SeaPickleFeature scatters pickle clusters of 1..4 on the ocean floor.
type SeaPickleFeature struct {
	Count provider.Int
}

func (f SeaPickleFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	placed := 0
	attempts := f.Count.Get(r)
	pickle := ctx.Registry.MustBlock("sea_pickle")
	for i := 0; i < attempts; i++ {
		dx := int(r.NextBounded(8)) - int(r.NextBounded(8))
		dz := int(r.NextBounded(8)) - int(r.NextBounded(8))
		col := geom.ColumnPos{X: origin.X + dx, Z: origin.Z + dz}
		floor := ctx.Level.HeightExclusive(chunk.OceanFloor, col)
		pos := geom.Pos{X: col.X, Y: floor, Z: col.Z}

		s := pickle.StateVariant(pickleVariants[r.NextBounded(4)])
		if ctx.Level.StateAt(pos).Block.Name == "water" && ctx.Placement.CanPlaceAt(pickle, ctx.Level, pos) {
			ctx.Level.SetState(pos, s)
			placed++
		}
	}
	return placed > 0
}

var pickleVariants = [4]string{"pickles=1", "pickles=2", "pickles=3", "pickles=4"}

// BambooFeature grows a stalk of 5..16 segments with leaves on the top
// three, optionally converting nearby dirt to podzol.
type BambooFeature struct {
	PodzolProbability float32
}

func (f BambooFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	bamboo := ctx.Registry.MustBlock("bamboo")
	if !ctx.Level.StateAt(origin).Block.Air {
		return false
	}
	if !ctx.Placement.CanPlaceAt(bamboo, ctx.Level, origin) {
		return false
	}

	height := int(r.NextBounded(12)) + 5
	if r.NextFloat32() < f.PodzolProbability {
		radius := int(r.NextBounded(4)) + 1
		podzol := ctx.Registry.MustBlock("podzol").DefaultState()
		for x := origin.X - radius; x <= origin.X+radius; x++ {
			for z := origin.Z - radius; z <= origin.Z+radius; z++ {
				dx, dz := x-origin.X, z-origin.Z
				if dx*dx+dz*dz > radius*radius {
					continue
				}
				top := ctx.Level.HeightExclusive(chunk.WorldSurface, geom.ColumnPos{X: x, Z: z}) - 1
				ground := geom.Pos{X: x, Y: top, Z: z}
				if ctx.Level.StateAt(ground).Block.IsTaggedWith("dirt") {
					ctx.Level.SetState(ground, podzol)
				}
			}
		}
	}

	stalk := bamboo.StateVariant("leaves=none")
	cur := origin
	placed := false
	for i := 0; i < height && ctx.Level.StateAt(cur).Block.Air; i++ {
		ctx.Level.SetState(cur, stalk)
		cur = cur.Up()
		placed = true
	}
	if cur.Y-origin.Y >= 3 {
		ctx.Level.SetState(cur, bamboo.StateVariant("leaves=large"))
		ctx.Level.SetState(cur.Down(), bamboo.StateVariant("leaves=large"))
		ctx.Level.SetState(cur.Add(0, -2, 0), bamboo.StateVariant("leaves=small"))
	}
	return placed
}

// VinesFeature hangs a vine on the origin when a neighboring face supports
// one.
type VinesFeature struct{}

func (VinesFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	if !ctx.Level.StateAt(origin).Block.Air {
		return false
	}
	vine := ctx.Registry.MustBlock("vine")
	for _, d := range geom.All {
		if d == geom.Down {
			continue
		}
		neighbor := ctx.Level.StateAt(origin.Offset(d)).Block
		if !neighbor.Solid || !neighbor.FullCube {
			continue
		}
		if d == geom.Up {
			ctx.Level.SetState(origin, vine.StateVariant("facing=up"))
		} else {
			ctx.Level.SetState(origin, vine.StateVariant("facing="+d.String()))
		}
		return true
	}
	return false
}

// NetherForestVegetationFeature sprays provider-selected fungi and roots over
// a square spread above nylium.
type NetherForestVegetationFeature struct {
	StateProvider provider.BlockState
	SpreadWidth   int
	SpreadHeight  int
}

func (f NetherForestVegetationFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	if !ctx.Level.StateAt(origin.Down()).Block.IsTaggedWith("nylium") {
		return false
	}
	if origin.Y < ctx.MinY+1 || origin.Y+1 >= ctx.TopY() {
		return false
	}
	placed := 0
	for i := 0; i < f.SpreadWidth*f.SpreadWidth; i++ {
		pos := origin.Add(
			int(r.NextBounded(int32(f.SpreadWidth)))-int(r.NextBounded(int32(f.SpreadWidth))),
			int(r.NextBounded(int32(f.SpreadHeight)))-int(r.NextBounded(int32(f.SpreadHeight))),
			int(r.NextBounded(int32(f.SpreadWidth)))-int(r.NextBounded(int32(f.SpreadWidth))),
		)
		s := f.StateProvider.Get(r, pos)
		if ctx.Level.StateAt(pos).Block.Air && pos.Y > ctx.MinY && ctx.Placement.CanPlaceAt(s.Block, ctx.Level, pos) {
			ctx.Level.SetState(pos, s)
			placed++
		}
	}
	return placed > 0
}

func decodeSeagrass(cfg json.RawMessage, _ *block.Registry) (Feature, error) {
	var v struct {
		Probability float32 `json:"probability"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	return SeagrassFeature{TallProbability: v.Probability}, nil
}

func decodeSeaPickle(cfg json.RawMessage, _ *block.Registry) (Feature, error) {
	var v struct {
		Count json.RawMessage `json:"count"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	c, err := provider.DecodeInt(v.Count)
	if err != nil {
		return nil, err
	}
	return SeaPickleFeature{Count: c}, nil
}

func decodeBamboo(cfg json.RawMessage, _ *block.Registry) (Feature, error) {
	var v struct {
		Probability float32 `json:"probability"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	return BambooFeature{PodzolProbability: v.Probability}, nil
}

func decodeNetherForestVegetation(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		StateProvider json.RawMessage `json:"state_provider"`
		SpreadWidth   int             `json:"spread_width"`
		SpreadHeight  int             `json:"spread_height"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	p, err := provider.DecodeBlockState(v.StateProvider, reg)
	if err != nil {
		return nil, err
	}
	if v.SpreadWidth <= 0 {
		v.SpreadWidth = 8
	}
	if v.SpreadHeight <= 0 {
		v.SpreadHeight = 4
	}
	return NetherForestVegetationFeature{
		StateProvider: p,
		SpreadWidth:   v.SpreadWidth,
		SpreadHeight:  v.SpreadHeight,
	}, nil
}

func init() {
	registerDecoder("seagrass", decodeSeagrass)
	registerDecoder("sea_pickle", decodeSeaPickle)
	registerDecoder("bamboo", decodeBamboo)
	registerDecoder("vines", func(json.RawMessage, *block.Registry) (Feature, error) {
		return VinesFeature{}, nil
	})
	registerDecoder("nether_forest_vegetation", decodeNetherForestVegetation)
}
