package gen

import (
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

// SeaLevel is the water surface height.
const SeaLevel = 63

// Density cell dimensions. Corners are sampled on a coarse lattice and the
// blocks in between are filled by trilinear interpolation.
const (
	cellWidth  = 4
	cellHeight = 8
	gridXZ     = 16/cellWidth + 1
)

// TerrainShaper evaluates the world density field and carves a proto-chunk
// into stone, water and air.
type TerrainShaper struct {
	climate *ClimateSampler
	detail  *noise.DoublePerlinSampler
	reg     *block.Registry

	stone     *block.State
	deepslate *block.State
	water     *block.State
}

// NewTerrainShaper forks the detail noise off the world seed by name, so the
// field is independent of the climate noises.
func NewTerrainShaper(seed int64, climate *ClimateSampler, reg *block.Registry) (*TerrainShaper, error) {
	splitter := rng.NewXoroshiro(seed).NextSplitter()
	params, err := noise.ParamsByName("minecraft:terrain")
	if err != nil {
		return nil, err
	}
	detail, err := noise.NewDoublePerlinSampler(splitter.ByHash("minecraft:terrain"), params, false)
	if err != nil {
		return nil, fmt.Errorf("gen: terrain noise: %w", err)
	}
	return &TerrainShaper{
		climate:   climate,
		detail:    detail,
		reg:       reg,
		stone:     reg.MustBlock("stone").DefaultState(),
		deepslate: reg.MustBlock("deepslate").StateVariant("axis=y"),
		water:     reg.MustBlock("water").DefaultState(),
	}, nil
}

// density is positive inside terrain. The climate offset moves the target
// surface, erosion flattens it, and the detail noise roughens it.
func (t *TerrainShaper) density(x, y, z int) float64 {
	p := t.climate.SampleClimate(x>>2, z>>2)

	surface := float64(SeaLevel) + 24*p.Continentalness - 12*p.Erosion + 6*p.Weirdness
	gradient := (surface - float64(y)) / 24.0
	if gradient < -1 {
		gradient = -1
	}
	// Seabeds stay filled: deep columns gain density fast.
	if gradient > 2 {
		gradient = 2
	}
	detail := t.detail.Sample(float64(x)/128.0, float64(y)/64.0, float64(z)/128.0)
	return gradient + detail*0.6
}

// PopulateNoise fills the chunk body from the density lattice.
func (t *TerrainShaper) PopulateNoise(pc *chunk.ProtoChunk) {
	shape := pc.Shape()
	start := pc.Pos.StartPos()
	cellsY := shape.Height / cellHeight
	gridY := cellsY + 1

	// Corner lattice, indexed (gx*gridXZ + gz)*gridY + gy.
	field := make([]float64, gridXZ*gridXZ*gridY)
	for gx := 0; gx < gridXZ; gx++ {
		for gz := 0; gz < gridXZ; gz++ {
			for gy := 0; gy < gridY; gy++ {
				x := start.X + gx*cellWidth
				z := start.Z + gz*cellWidth
				y := shape.MinY + gy*cellHeight
				field[(gx*gridXZ+gz)*gridY+gy] = t.density(x, y, z)
			}
		}
	}

	corner := func(gx, gz, gy int) float64 {
		return field[(gx*gridXZ+gz)*gridY+gy]
	}

	for cx := 0; cx < gridXZ-1; cx++ {
		for cz := 0; cz < gridXZ-1; cz++ {
			for cy := 0; cy < cellsY; cy++ {
				c000 := corner(cx, cz, cy)
				c001 := corner(cx, cz+1, cy)
				c100 := corner(cx+1, cz, cy)
				c101 := corner(cx+1, cz+1, cy)
				c010 := corner(cx, cz, cy+1)
				c011 := corner(cx, cz+1, cy+1)
				c110 := corner(cx+1, cz, cy+1)
				c111 := corner(cx+1, cz+1, cy+1)

				for ly := 0; ly < cellHeight; ly++ {
					fy := float64(ly) / cellHeight
					y := shape.MinY + cy*cellHeight + ly
					x00 := c000 + (c010-c000)*fy
					x01 := c001 + (c011-c001)*fy
					x10 := c100 + (c110-c100)*fy
					x11 := c101 + (c111-c101)*fy
					for lx := 0; lx < cellWidth; lx++ {
						fx := float64(lx) / cellWidth
						z0 := x00 + (x10-x00)*fx
						z1 := x01 + (x11-x01)*fx
						for lz := 0; lz < cellWidth; lz++ {
							fz := float64(lz) / cellWidth
							d := z0 + (z1-z0)*fz
							pos := start
							pos.X += cx*cellWidth + lx
							pos.Y = y
							pos.Z += cz*cellWidth + lz
							switch {
							case d > 0 && y < 0:
								pc.SetState(pos, t.deepslate)
							case d > 0:
								pc.SetState(pos, t.stone)
							case y < SeaLevel:
								pc.SetState(pos, t.water)
							}
						}
					}
				}
			}
		}
	}
}
