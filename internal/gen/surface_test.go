package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
)

func surfaceFixture(t *testing.T, seed int64) (*block.Registry, *SurfaceBuilder, *ClimateSampler) {
	t.Helper()
	reg := block.NewRegistry()
	sb, err := NewSurfaceBuilder(seed, reg)
	require.NoError(t, err)
	climate, err := NewClimateSampler(seed)
	require.NoError(t, err)
	return reg, sb, climate
}

func TestSurfaceLeavesAirColumnsUntouched(t *testing.T) {
	reg, sb, climate := surfaceFixture(t, 91)
	pc := chunk.NewProtoChunk(geom.ChunkPos{X: 2, Z: -5}, DefaultShape, reg)

	sb.Build(pc, climate)

	d := pc.Seal()
	for _, id := range d.Blocks {
		require.True(t, reg.State(id).IsAir())
	}
}

func TestSurfaceTopsStoneColumns(t *testing.T) {
	reg, sb, climate := surfaceFixture(t, 91)
	pc := chunk.NewProtoChunk(geom.ChunkPos{}, DefaultShape, reg)

	stone := reg.MustBlock("stone").DefaultState()
	const top = 100
	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			for y := DefaultShape.MinY; y <= top; y++ {
				pc.SetState(geom.Pos{X: lx, Y: y, Z: lz}, stone)
			}
		}
	}

	sb.Build(pc, climate)

	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			surf := pc.StateAt(geom.Pos{X: lx, Y: top, Z: lz}).Block.Name
			require.NotEqual(t, "stone", surf)
			require.NotEqual(t, "deepslate", surf)
			// The shallow band is rewritten; the deep column is not.
			require.NotEqual(t, "stone", pc.StateAt(geom.Pos{X: lx, Y: top - 2, Z: lz}).Block.Name)
			require.Equal(t, "stone", pc.StateAt(geom.Pos{X: lx, Y: top - 30, Z: lz}).Block.Name)
		}
	}
}

func TestSurfaceIsDeterministic(t *testing.T) {
	build := func() *chunk.Data {
		reg, sb, climate := surfaceFixture(t, 4242)
		pc := chunk.NewProtoChunk(geom.ChunkPos{X: -1, Z: 3}, DefaultShape, reg)
		stone := reg.MustBlock("stone").DefaultState()
		for lx := 0; lx < chunk.SizeX; lx++ {
			for lz := 0; lz < chunk.SizeZ; lz++ {
				for y := DefaultShape.MinY; y <= 72; y++ {
					pc.SetState(geom.Pos{X: lx - 16, Y: y, Z: lz + 48}, stone)
				}
			}
		}
		sb.Build(pc, climate)
		return pc.Seal()
	}
	require.Equal(t, build().Hash(), build().Hash())
}
