package gen

import (
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

// SurfaceContext is what material rules see while one column is rewritten.
type SurfaceContext struct {
	Biome *Biome
	Pos   geom.Pos

	// StoneDepthAbove counts solid blocks from the column surface down to
	// here, starting at 1 on the surface block itself.
	StoneDepthAbove int
	// StoneDepthBelow counts solid blocks from here down to the next gap,
	// starting at 1 just above the gap.
	StoneDepthBelow int
	// WaterHeight is one above the highest fluid over this column, or the
	// world bottom when the column is dry.
	WaterHeight int

	SurfaceNoise float64
	Rand         rng.Source
}

// MaterialRule decides the replacement state for one stone block, or nil to
// defer.
type MaterialRule interface {
	Apply(c *SurfaceContext) *block.State
}

// BlockRule unconditionally yields one state.
type BlockRule struct {
	State *block.State
}

func (r BlockRule) Apply(*SurfaceContext) *block.State { return r.State }

// SequenceRule yields the first non-nil child result.
type SequenceRule struct {
	Rules []MaterialRule
}

func (r SequenceRule) Apply(c *SurfaceContext) *block.State {
	for _, child := range r.Rules {
		if s := child.Apply(c); s != nil {
			return s
		}
	}
	return nil
}

// ConditionRule gates a child rule.
type ConditionRule struct {
	Cond MaterialCondition
	Then MaterialRule
}

func (r ConditionRule) Apply(c *SurfaceContext) *block.State {
	if r.Cond.Test(c) {
		return r.Then.Apply(c)
	}
	return nil
}

// BandlandsRule paints terracotta bands by height, jittered by the surface
// noise.
type BandlandsRule struct {
	Bands []*block.State
}

func (r BandlandsRule) Apply(c *SurfaceContext) *block.State {
	if len(r.Bands) == 0 {
		return nil
	}
	jitter := int(c.SurfaceNoise * 4)
	idx := geom.FloorMod(c.Pos.Y+jitter, len(r.Bands))
	return r.Bands[idx]
}

// MaterialCondition is a predicate over the surface context.
type MaterialCondition interface {
	Test(c *SurfaceContext) bool
}

// BiomeCondition matches a biome name set.
type BiomeCondition struct {
	Names map[string]bool
}

func (c BiomeCondition) Test(ctx *SurfaceContext) bool { return c.Names[ctx.Biome.Name] }

// StoneDepthCondition bounds the run depth from the surface (or from the
// gap below, when Ceiling is set).
type StoneDepthCondition struct {
	MaxDepth int
	Ceiling  bool
}

func (c StoneDepthCondition) Test(ctx *SurfaceContext) bool {
	depth := ctx.StoneDepthAbove
	if c.Ceiling {
		depth = ctx.StoneDepthBelow
	}
	return depth <= c.MaxDepth
}

// AboveYCondition requires the block to sit at or above an absolute height.
type AboveYCondition struct {
	Y int
}

func (c AboveYCondition) Test(ctx *SurfaceContext) bool { return ctx.Pos.Y >= c.Y }

// UnderWaterCondition matches blocks whose surface is flooded.
type UnderWaterCondition struct{}

func (UnderWaterCondition) Test(ctx *SurfaceContext) bool {
	return ctx.WaterHeight > ctx.Pos.Y+ctx.StoneDepthAbove-1
}

// NoiseCondition brackets the column surface noise.
type NoiseCondition struct {
	Min, Max float64
}

func (c NoiseCondition) Test(ctx *SurfaceContext) bool {
	return ctx.SurfaceNoise >= c.Min && ctx.SurfaceNoise < c.Max
}

type notCondition struct {
	inner MaterialCondition
}

func (c notCondition) Test(ctx *SurfaceContext) bool { return !c.inner.Test(ctx) }

// Not inverts a condition.
func Not(c MaterialCondition) MaterialCondition { return notCondition{inner: c} }

// SurfaceBuilder rewrites the top stone runs of every column with biome
// materials.
type SurfaceBuilder struct {
	reg      *block.Registry
	noise    *noise.DoublePerlinSampler
	rule     MaterialRule
	splitter rng.Splitter
}

// NewSurfaceBuilder builds the default overworld rule tree.
func NewSurfaceBuilder(seed int64, reg *block.Registry) (*SurfaceBuilder, error) {
	base := rng.NewXoroshiro(seed)
	splitter := base.NextSplitter()
	params, err := noise.ParamsByName("minecraft:surface")
	if err != nil {
		return nil, err
	}
	surfaceNoise, err := noise.NewDoublePerlinSampler(splitter.ByHash("minecraft:surface"), params, false)
	if err != nil {
		return nil, fmt.Errorf("gen: surface noise: %w", err)
	}
	return &SurfaceBuilder{
		reg:      reg,
		noise:    surfaceNoise,
		rule:     defaultSurfaceRule(reg),
		splitter: splitter.ByHash("minecraft:surface_rule").NextSplitter(),
	}, nil
}

// defaultSurfaceRule mirrors the overworld layering: biome toppings on dry
// land, sandy ocean floors, dirt under the topsoil.
func defaultSurfaceRule(reg *block.Registry) MaterialRule {
	state := func(name string) *block.State { return reg.MustBlock(name).DefaultState() }

	sandy := BiomeCondition{Names: map[string]bool{"desert": true}}
	snowy := BiomeCondition{Names: map[string]bool{"snowy_plains": true}}
	swampy := BiomeCondition{Names: map[string]bool{"swamp": true}}
	onSurface := StoneDepthCondition{MaxDepth: 1}
	shallow := StoneDepthCondition{MaxDepth: 4}

	top := SequenceRule{Rules: []MaterialRule{
		ConditionRule{Cond: sandy, Then: BlockRule{State: state("sand")}},
		ConditionRule{Cond: UnderWaterCondition{}, Then: SequenceRule{Rules: []MaterialRule{
			ConditionRule{Cond: swampy, Then: BlockRule{State: state("mud")}},
			ConditionRule{Cond: NoiseCondition{Min: 0.2, Max: 10}, Then: BlockRule{State: state("sand")}},
			BlockRule{State: state("gravel")},
		}}},
		ConditionRule{Cond: snowy, Then: BlockRule{State: state("snow_block")}},
		BlockRule{State: state("grass_block")},
	}}

	under := SequenceRule{Rules: []MaterialRule{
		ConditionRule{Cond: sandy, Then: BlockRule{State: state("sandstone")}},
		ConditionRule{Cond: UnderWaterCondition{}, Then: BlockRule{State: state("gravel")}},
		BlockRule{State: state("dirt")},
	}}

	return SequenceRule{Rules: []MaterialRule{
		ConditionRule{Cond: onSurface, Then: top},
		ConditionRule{Cond: shallow, Then: under},
	}}
}

func (sb *SurfaceBuilder) isSurfaceStone(s *block.State) bool {
	return s.Block.Name == "stone" || s.Block.Name == "deepslate"
}

// Build rewrites every column of the chunk.
func (sb *SurfaceBuilder) Build(pc *chunk.ProtoChunk, climate *ClimateSampler) {
	shape := pc.Shape()
	start := pc.Pos.StartPos()

	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			x := start.X + lx
			z := start.Z + lz
			col := geom.ColumnPos{X: x, Z: z}

			surfaceNoise := sb.noise.Sample(float64(x)/32.0, 0, float64(z)/32.0)
			r := sb.splitter.At(x, 0, z)
			biome := BiomeByID(climate.BiomeAt(x>>2, z>>2))

			waterHeight := shape.MinY
			topFluid := pc.HeightExclusive(chunk.MotionBlocking, col)
			if topFluid > pc.HeightExclusive(chunk.OceanFloor, col) {
				waterHeight = topFluid
			}

			depthAbove := 0
			for y := shape.TopY() - 1; y >= shape.MinY; y-- {
				pos := geom.Pos{X: x, Y: y, Z: z}
				s := pc.StateAt(pos)
				if !s.Block.Solid {
					depthAbove = 0
					continue
				}
				depthAbove++
				if !sb.isSurfaceStone(s) {
					continue
				}
				ctx := &SurfaceContext{
					Biome:           biome,
					Pos:             pos,
					StoneDepthAbove: depthAbove,
					StoneDepthBelow: sb.depthBelow(pc, pos),
					WaterHeight:     waterHeight,
					SurfaceNoise:    surfaceNoise,
					Rand:            r,
				}
				if replacement := sb.rule.Apply(ctx); replacement != nil {
					pc.SetState(pos, replacement)
				}
			}
		}
	}
}

func (sb *SurfaceBuilder) depthBelow(pc *chunk.ProtoChunk, pos geom.Pos) int {
	depth := 1
	for y := pos.Y - 1; y >= pos.Y-8; y-- {
		if !pc.StateAt(geom.Pos{X: pos.X, Y: y, Z: pos.Z}).Block.Solid {
			return depth
		}
		depth++
	}
	return depth
}
