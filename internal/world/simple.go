package world

import (
	"github.com/aquilax/go-perlin"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
)

// HeightmapGenerator is a cheap heightmap-only terrain source: layered
// Perlin noise picks a surface height per column, with no biomes, caves or
// features. It serves previews and store/streamer tests where running the
// full pipeline would drown the signal.
type HeightmapGenerator struct {
	seed  int64
	shape chunk.Shape
	noise *perlin.Perlin
	reg   *block.Registry

	baseHeight float64
	amplitude  float64
	scale      float64

	stone *block.State
	dirt  *block.State
	grass *block.State
	water *block.State
}

// NewHeightmapGenerator builds a generator over the standard world column.
func NewHeightmapGenerator(seed int64, reg *block.Registry) *HeightmapGenerator {
	return &HeightmapGenerator{
		seed:       seed,
		shape:      chunk.Shape{MinY: -64, Height: 384},
		noise:      perlin.NewPerlin(2, 2, int32(4), seed),
		reg:        reg,
		baseHeight: 68,
		amplitude:  24,
		scale:      1.0 / 128.0,
		stone:      reg.MustBlock("stone").DefaultState(),
		dirt:       reg.MustBlock("dirt").DefaultState(),
		grass:      reg.MustBlock("grass_block").DefaultState(),
		water:      reg.MustBlock("water").DefaultState(),
	}
}

func (g *HeightmapGenerator) Seed() int64        { return g.seed }
func (g *HeightmapGenerator) Shape() chunk.Shape { return g.shape }

// HeightAt computes the surface height of a column.
func (g *HeightmapGenerator) HeightAt(x, z int) int {
	n := g.noise.Noise2D(float64(x)*g.scale, float64(z)*g.scale)
	return int(g.baseHeight + n*g.amplitude)
}

const seaLevel = 63

// Generate fills one column chunk from the heightmap.
func (g *HeightmapGenerator) Generate(pos geom.ChunkPos) *chunk.Data {
	pc := chunk.NewProtoChunk(pos, g.shape, g.reg)
	start := pos.StartPos()
	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			x := start.X + lx
			z := start.Z + lz
			h := g.HeightAt(x, z)
			for y := g.shape.MinY; y <= h; y++ {
				p := geom.Pos{X: x, Y: y, Z: z}
				switch {
				case y == h && h >= seaLevel:
					pc.SetState(p, g.grass)
				case y > h-4:
					pc.SetState(p, g.dirt)
				default:
					pc.SetState(p, g.stone)
				}
			}
			for y := h + 1; y < seaLevel; y++ {
				pc.SetState(geom.Pos{X: x, Y: y, Z: z}, g.water)
			}
		}
	}
	return pc.Seal()
}

// FlatGenerator produces the same fixed layer stack everywhere. Useful as a
// null terrain for wiring tests.
type FlatGenerator struct {
	seed  int64
	shape chunk.Shape
	reg   *block.Registry

	layers []flatLayer
}

type flatLayer struct {
	state *block.State
	count int
}

// NewFlatGenerator builds the classic stone/dirt/grass stack above the
// world floor.
func NewFlatGenerator(seed int64, reg *block.Registry) *FlatGenerator {
	return &FlatGenerator{
		seed:  seed,
		shape: chunk.Shape{MinY: -64, Height: 384},
		reg:   reg,
		layers: []flatLayer{
			{reg.MustBlock("stone").DefaultState(), 60},
			{reg.MustBlock("dirt").DefaultState(), 3},
			{reg.MustBlock("grass_block").DefaultState(), 1},
		},
	}
}

func (g *FlatGenerator) Seed() int64        { return g.seed }
func (g *FlatGenerator) Shape() chunk.Shape { return g.shape }

func (g *FlatGenerator) Generate(pos geom.ChunkPos) *chunk.Data {
	pc := chunk.NewProtoChunk(pos, g.shape, g.reg)
	start := pos.StartPos()
	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			y := g.shape.MinY
			for _, layer := range g.layers {
				for i := 0; i < layer.count; i++ {
					pc.SetState(geom.Pos{X: start.X + lx, Y: y, Z: start.Z + lz}, layer.state)
					y++
				}
			}
		}
	}
	return pc.Seal()
}
