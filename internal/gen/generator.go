package gen

import (
	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/feature"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// DefaultShape is the overworld column: 384 blocks from y -64.
var DefaultShape = chunk.Shape{MinY: -64, Height: 384}

// FeatureSet maps placed feature names to their decoded pipelines. Biome
// feature lists reference these names; unresolved names are skipped so a
// trimmed datapack still generates.
type FeatureSet map[string]*feature.PlacedFeature

// Generator runs the full chunk pipeline: biomes, noise terrain, surface,
// feature population. It is safe for concurrent use once constructed.
type Generator struct {
	seed     int64
	reg      *block.Registry
	shape    chunk.Shape
	climate  *ClimateSampler
	terrain  *TerrainShaper
	surface  *SurfaceBuilder
	features FeatureSet

	// order fixes the per-step feature sequence across all biomes, so the
	// decorator seed index of a feature never depends on which chunk asks.
	order [GenerationSteps][]string
}

// NewGenerator wires the pipeline for one world seed.
func NewGenerator(seed int64, reg *block.Registry, features FeatureSet) (*Generator, error) {
	climate, err := NewClimateSampler(seed)
	if err != nil {
		return nil, err
	}
	terrain, err := NewTerrainShaper(seed, climate, reg)
	if err != nil {
		return nil, err
	}
	surface, err := NewSurfaceBuilder(seed, reg)
	if err != nil {
		return nil, err
	}
	return &Generator{
		seed:     seed,
		reg:      reg,
		shape:    DefaultShape,
		climate:  climate,
		terrain:  terrain,
		surface:  surface,
		features: features,
		order:    featureOrder(),
	}, nil
}

// featureOrder unions the biome feature lists per step, keeping first
// appearance in biome ID order.
func featureOrder() [GenerationSteps][]string {
	var order [GenerationSteps][]string
	for step := 0; step < GenerationSteps; step++ {
		seen := map[string]bool{}
		for i := range builtinBiomes {
			for _, name := range builtinBiomes[i].Features[step] {
				if seen[name] {
					continue
				}
				seen[name] = true
				order[step] = append(order[step], name)
			}
		}
	}
	return order
}

// Seed returns the world seed the generator was built for.
func (g *Generator) Seed() int64 { return g.seed }

// Shape returns the vertical extent of generated chunks.
func (g *Generator) Shape() chunk.Shape { return g.shape }

// Generate produces a sealed chunk at the given position.
func (g *Generator) Generate(pos geom.ChunkPos) *chunk.Data {
	return g.GenerateProto(pos).Seal()
}

// GenerateProto runs the staged pipeline and returns the still-mutable
// proto-chunk, for callers that keep populating across borders.
func (g *Generator) GenerateProto(pos geom.ChunkPos) *chunk.ProtoChunk {
	pc := chunk.NewProtoChunk(pos, g.shape, g.reg)
	g.populateBiomes(pc)
	g.terrain.PopulateNoise(pc)
	g.surface.Build(pc, g.climate)
	g.placeFeatures(pc)
	return pc
}

// populateBiomes fills the 4x4x4 biome cells from the climate sampler. The
// column's biome repeats vertically; depth variants are out of scope here.
func (g *Generator) populateBiomes(pc *chunk.ProtoChunk) {
	cellsXZ := chunk.SizeX / chunk.BiomeCell
	baseX := pc.Pos.X * cellsXZ
	baseZ := pc.Pos.Z * cellsXZ
	for cx := 0; cx < cellsXZ; cx++ {
		for cz := 0; cz < cellsXZ; cz++ {
			id := g.climate.BiomeAt(baseX+cx, baseZ+cz)
			for cy := 0; cy < g.shape.BiomeHeight(); cy++ {
				pc.SetBiome(cx, cy, cz, id)
			}
		}
	}
}

// placeFeatures runs every generation step over the chunk. The population
// seed is derived from the chunk start, then each feature re-seeds by its
// step and index, so a feature's randomness is independent of whatever ran
// before it.
func (g *Generator) placeFeatures(pc *chunk.ProtoChunk) {
	start := pc.Pos.StartPos()
	r := rng.NewXoroshiro(g.seed)
	popSeed := rng.PopulationSeed(r, g.seed, start.X, start.Z)

	ctx := &feature.Context{
		Level:     pc,
		Registry:  g.reg,
		Placement: block.VanillaPlacement{},
		MinY:      g.shape.MinY,
		Height:    g.shape.Height,
	}

	for step := 0; step < GenerationSteps; step++ {
		for index, name := range g.order[step] {
			pf, ok := g.features[name]
			if !ok {
				continue
			}
			ctx.BiomeCheck = g.biomeAdmits(pc, name, step)
			rng.DecoratorSeed(r, popSeed, index, step)
			origin := geom.Pos{X: start.X, Y: g.shape.MinY, Z: start.Z}
			pf.Generate(ctx, r, origin)
		}
	}
	ctx.BiomeCheck = nil
}

// biomeAdmits gates a feature to positions whose biome lists it at the
// given step.
func (g *Generator) biomeAdmits(pc *chunk.ProtoChunk, name string, step int) func(geom.Pos) bool {
	return func(pos geom.Pos) bool {
		biome := BiomeByID(pc.BiomeAt(pos))
		for _, n := range biome.Features[step] {
			if n == name {
				return true
			}
		}
		return false
	}
}
