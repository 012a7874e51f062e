package feature

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

// PlacementModifier maps one candidate position to zero or more positions.
type PlacementModifier interface {
	Positions(ctx *Context, r rng.Source, pos geom.Pos) []geom.Pos
}

// PlacedFeature is a configured feature plus its placement chain.
type PlacedFeature struct {
	Feature   Feature
	Modifiers []PlacementModifier
}

// Generate runs the placement chain from the chunk origin and generates the
// wrapped feature at every surviving position.
func (p PlacedFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	positions := []geom.Pos{origin}
	for _, m := range p.Modifiers {
		if len(positions) == 0 {
			return false
		}
		next := make([]geom.Pos, 0, len(positions))
		for _, pos := range positions {
			next = append(next, m.Positions(ctx, r, pos)...)
		}
		positions = next
	}
	placed := false
	for _, pos := range positions {
		if p.Feature.Generate(ctx, r, pos) {
			placed = true
		}
	}
	return placed
}

// CountModifier repeats the position a provider-driven number of times.
type CountModifier struct {
	Count provider.Int
}

func (m CountModifier) Positions(_ *Context, r rng.Source, pos geom.Pos) []geom.Pos {
	n := m.Count.Get(r)
	out := make([]geom.Pos, n)
	for i := range out {
		out[i] = pos
	}
	return out
}

// InSquareModifier scatters the position inside the 16x16 chunk footprint.
type InSquareModifier struct{}

func (InSquareModifier) Positions(_ *Context, r rng.Source, pos geom.Pos) []geom.Pos {
	return []geom.Pos{pos.Add(int(r.NextBounded(16)), 0, int(r.NextBounded(16)))}
}

// RarityFilter keeps the position with probability 1/Chance.
type RarityFilter struct {
	Chance int
}

func (m RarityFilter) Positions(_ *Context, r rng.Source, pos geom.Pos) []geom.Pos {
	if r.NextFloat32() < 1.0/float32(m.Chance) {
		return []geom.Pos{pos}
	}
	return nil
}

// HeightmapModifier snaps the position to a heightmap column top.
type HeightmapModifier struct {
	Kind chunk.HeightmapKind
}

func (m HeightmapModifier) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	y := ctx.Level.HeightExclusive(m.Kind, geom.ColumnPos{X: pos.X, Z: pos.Z})
	if y <= ctx.MinY {
		return nil
	}
	return []geom.Pos{{X: pos.X, Y: y, Z: pos.Z}}
}

// HeightRangeModifier draws Y from a height provider.
type HeightRangeModifier struct {
	Height provider.Height
}

func (m HeightRangeModifier) Positions(ctx *Context, r rng.Source, pos geom.Pos) []geom.Pos {
	y := m.Height.Get(r, provider.HeightContext{MinY: ctx.MinY, Height: ctx.Height})
	return []geom.Pos{{X: pos.X, Y: y, Z: pos.Z}}
}

// BiomeFilter keeps positions whose biome lists this feature.
type BiomeFilter struct{}

func (BiomeFilter) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	if ctx.BiomeCheck != nil && !ctx.BiomeCheck(pos) {
		return nil
	}
	return []geom.Pos{pos}
}

// BlockPredicateFilter keeps positions passing a block predicate.
type BlockPredicateFilter struct {
	Predicate predicate.BlockPredicate
}

func (m BlockPredicateFilter) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	if m.Predicate.Test(ctx.PredicateWorld(), pos) {
		return []geom.Pos{pos}
	}
	return nil
}

// SurfaceWaterDepthFilter keeps columns whose water cover is shallow enough.
type SurfaceWaterDepthFilter struct {
	MaxWaterDepth int
}

func (m SurfaceWaterDepthFilter) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	col := geom.ColumnPos{X: pos.X, Z: pos.Z}
	floor := ctx.Level.HeightExclusive(chunk.OceanFloor, col)
	surface := ctx.Level.HeightExclusive(chunk.WorldSurface, col)
	if surface-floor <= m.MaxWaterDepth {
		return []geom.Pos{pos}
	}
	return nil
}

// SurfaceRelativeThresholdFilter keeps positions within an offset band around
// a heightmap column top.
type SurfaceRelativeThresholdFilter struct {
	Kind      chunk.HeightmapKind
	MinOffset int
	MaxOffset int
}

func (m SurfaceRelativeThresholdFilter) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	top := ctx.Level.HeightExclusive(m.Kind, geom.ColumnPos{X: pos.X, Z: pos.Z})
	if pos.Y >= top+m.MinOffset && pos.Y <= top+m.MaxOffset {
		return []geom.Pos{pos}
	}
	return nil
}

// EnvironmentScanModifier walks vertically until the target predicate holds.
type EnvironmentScanModifier struct {
	Direction     geom.Direction
	Target        predicate.BlockPredicate
	AllowedSearch predicate.BlockPredicate
	MaxSteps      int
}

func (m EnvironmentScanModifier) Positions(ctx *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	w := ctx.PredicateWorld()
	cur := pos
	for step := 0; step <= m.MaxSteps; step++ {
		if m.Target.Test(w, cur) {
			return []geom.Pos{cur}
		}
		if m.AllowedSearch != nil && !m.AllowedSearch.Test(w, cur) {
			return nil
		}
		switch m.Direction {
		case geom.Up:
			cur = cur.Up()
		default:
			cur = cur.Down()
		}
		if ctx.OutOfHeight(cur.Y) {
			return nil
		}
	}
	return nil
}

// RandomOffsetModifier jitters the position by provider-driven amounts. The
// two horizontal axes draw independently from the same spread.
type RandomOffsetModifier struct {
	XZSpread provider.Int
	YSpread  provider.Int
}

func (m RandomOffsetModifier) Positions(_ *Context, r rng.Source, pos geom.Pos) []geom.Pos {
	dx := m.XZSpread.Get(r)
	dy := m.YSpread.Get(r)
	dz := m.XZSpread.Get(r)
	return []geom.Pos{pos.Add(dx, dy, dz)}
}

// countNoise is the fixed low-frequency field the count modifiers sample. It
// matches the world-independent vegetation density noise (seed 2345).
var countNoise = sync.OnceValue(func() *noise.DoublePerlinSampler {
	s, err := noise.NewDoublePerlinSampler(rng.NewLegacy(2345), noise.Parameters{
		FirstOctave: 0,
		Amplitudes:  []float64{1},
	}, false)
	if err != nil {
		panic(err)
	}
	return s
})

// NoiseBasedCountModifier derives a repeat count from the density noise.
type NoiseBasedCountModifier struct {
	NoiseToCountRatio int
	NoiseFactor       float64
	NoiseOffset       float64
}

func (m NoiseBasedCountModifier) Positions(_ *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	v := countNoise().Sample(float64(pos.X)/m.NoiseFactor, 0, float64(pos.Z)/m.NoiseFactor)
	n := int(math.Ceil((v + m.NoiseOffset) * float64(m.NoiseToCountRatio)))
	if n <= 0 {
		return nil
	}
	out := make([]geom.Pos, n)
	for i := range out {
		out[i] = pos
	}
	return out
}

// NoiseThresholdCountModifier picks between two counts on a noise threshold.
type NoiseThresholdCountModifier struct {
	Noise      float64
	BelowNoise int
	AboveNoise int
}

func (m NoiseThresholdCountModifier) Positions(_ *Context, _ rng.Source, pos geom.Pos) []geom.Pos {
	v := countNoise().Sample(float64(pos.X)/200.0, 0, float64(pos.Z)/200.0)
	n := m.BelowNoise
	if v > m.Noise {
		n = m.AboveNoise
	}
	if n <= 0 {
		return nil
	}
	out := make([]geom.Pos, n)
	for i := range out {
		out[i] = pos
	}
	return out
}

type modifierJSON struct {
	Type string `json:"type"`

	Count     json.RawMessage `json:"count"`
	Chance    int             `json:"chance"`
	Heightmap string          `json:"heightmap"`
	Height    json.RawMessage `json:"height"`
	Predicate json.RawMessage `json:"predicate"`

	MaxWaterDepth int `json:"max_water_depth"`
	MinInclusive  int `json:"min_inclusive"`
	MaxInclusive  int `json:"max_inclusive"`

	DirectionOfSearch string          `json:"direction_of_search"`
	TargetCondition   json.RawMessage `json:"target_condition"`
	AllowedSearch     json.RawMessage `json:"allowed_search_condition"`
	MaxSteps          int             `json:"max_steps"`

	XZSpread json.RawMessage `json:"xz_spread"`
	YSpread  json.RawMessage `json:"y_spread"`

	NoiseToCountRatio int     `json:"noise_to_count_ratio"`
	NoiseFactor       float64 `json:"noise_factor"`
	NoiseOffset       float64 `json:"noise_offset"`
	Noise             float64 `json:"noise"`
	BelowNoise        int     `json:"below_noise"`
	AboveNoise        int     `json:"above_noise"`
}

func heightmapKindByName(name string) (chunk.HeightmapKind, error) {
	switch name {
	case "WORLD_SURFACE", "WORLD_SURFACE_WG":
		return chunk.WorldSurface, nil
	case "OCEAN_FLOOR", "OCEAN_FLOOR_WG":
		return chunk.OceanFloor, nil
	case "MOTION_BLOCKING":
		return chunk.MotionBlocking, nil
	case "MOTION_BLOCKING_NO_LEAVES":
		return chunk.MotionBlockingNoLeaves, nil
	}
	return 0, fmt.Errorf("feature: unknown heightmap %q", name)
}

// DecodeModifier decodes a tagged placement modifier.
func DecodeModifier(raw json.RawMessage, reg *block.Registry) (PlacementModifier, error) {
	var v modifierJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("feature: placement modifier: %w", err)
	}
	tag := strings.TrimPrefix(v.Type, "minecraft:")
	switch tag {
	case "count":
		c, err := provider.DecodeInt(v.Count)
		if err != nil {
			return nil, err
		}
		return CountModifier{Count: c}, nil
	case "in_square":
		return InSquareModifier{}, nil
	case "rarity_filter":
		if v.Chance <= 0 {
			return nil, fmt.Errorf("feature: rarity_filter chance %d", v.Chance)
		}
		return RarityFilter{Chance: v.Chance}, nil
	case "heightmap":
		k, err := heightmapKindByName(v.Heightmap)
		if err != nil {
			return nil, err
		}
		return HeightmapModifier{Kind: k}, nil
	case "height_range":
		h, err := provider.DecodeHeight(v.Height)
		if err != nil {
			return nil, err
		}
		return HeightRangeModifier{Height: h}, nil
	case "biome":
		return BiomeFilter{}, nil
	case "block_predicate_filter":
		p, err := predicate.DecodeBlockPredicate(v.Predicate, reg)
		if err != nil {
			return nil, err
		}
		return BlockPredicateFilter{Predicate: p}, nil
	case "surface_water_depth_filter":
		return SurfaceWaterDepthFilter{MaxWaterDepth: v.MaxWaterDepth}, nil
	case "surface_relative_threshold_filter":
		k, err := heightmapKindByName(v.Heightmap)
		if err != nil {
			return nil, err
		}
		min, max := v.MinInclusive, v.MaxInclusive
		if min == 0 && max == 0 {
			min, max = math.MinInt32, math.MaxInt32
		}
		return SurfaceRelativeThresholdFilter{Kind: k, MinOffset: min, MaxOffset: max}, nil
	case "environment_scan":
		d, ok := geom.DirectionByName(v.DirectionOfSearch)
		if !ok || (d != geom.Up && d != geom.Down) {
			return nil, fmt.Errorf("feature: environment_scan direction %q", v.DirectionOfSearch)
		}
		target, err := predicate.DecodeBlockPredicate(v.TargetCondition, reg)
		if err != nil {
			return nil, err
		}
		var allowed predicate.BlockPredicate
		if len(v.AllowedSearch) > 0 {
			allowed, err = predicate.DecodeBlockPredicate(v.AllowedSearch, reg)
			if err != nil {
				return nil, err
			}
		}
		return EnvironmentScanModifier{
			Direction:     d,
			Target:        target,
			AllowedSearch: allowed,
			MaxSteps:      v.MaxSteps,
		}, nil
	case "random_offset":
		xz, err := provider.DecodeInt(v.XZSpread)
		if err != nil {
			return nil, err
		}
		y, err := provider.DecodeInt(v.YSpread)
		if err != nil {
			return nil, err
		}
		return RandomOffsetModifier{XZSpread: xz, YSpread: y}, nil
	case "noise_based_count":
		if v.NoiseFactor == 0 {
			return nil, fmt.Errorf("feature: noise_based_count factor must be nonzero")
		}
		return NoiseBasedCountModifier{
			NoiseToCountRatio: v.NoiseToCountRatio,
			NoiseFactor:       v.NoiseFactor,
			NoiseOffset:       v.NoiseOffset,
		}, nil
	case "noise_threshold_count":
		return NoiseThresholdCountModifier{
			Noise:      v.Noise,
			BelowNoise: v.BelowNoise,
			AboveNoise: v.AboveNoise,
		}, nil
	}
	return nil, fmt.Errorf("feature: unknown placement modifier %q", tag)
}

type placedJSON struct {
	Feature   json.RawMessage   `json:"feature"`
	Placement []json.RawMessage `json:"placement"`
}

// DecodePlaced decodes a placed feature: a configured feature plus its
// placement chain.
func DecodePlaced(raw json.RawMessage, reg *block.Registry) (PlacedFeature, error) {
	var v placedJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return PlacedFeature{}, fmt.Errorf("feature: placed feature: %w", err)
	}
	f, err := DecodeConfigured(v.Feature, reg)
	if err != nil {
		return PlacedFeature{}, err
	}
	mods := make([]PlacementModifier, 0, len(v.Placement))
	for _, m := range v.Placement {
		mod, err := DecodeModifier(m, reg)
		if err != nil {
			return PlacedFeature{}, err
		}
		mods = append(mods, mod)
	}
	return PlacedFeature{Feature: f, Modifiers: mods}, nil
}
