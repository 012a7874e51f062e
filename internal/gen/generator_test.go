package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/feature"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
)

func testGenerator(t *testing.T, seed int64, features FeatureSet) *Generator {
	t.Helper()
	g, err := NewGenerator(seed, block.NewRegistry(), features)
	require.NoError(t, err)
	return g
}

func TestGeneratorIsDeterministic(t *testing.T) {
	a := testGenerator(t, 8837203, nil)
	b := testGenerator(t, 8837203, nil)

	for _, pos := range []geom.ChunkPos{{X: 0, Z: 0}, {X: -3, Z: 7}, {X: 100, Z: -100}} {
		require.Equal(t, a.Generate(pos).Hash(), b.Generate(pos).Hash(), "chunk %v", pos)
	}
}

func TestGeneratorSeedChangesOutput(t *testing.T) {
	a := testGenerator(t, 1, nil)
	b := testGenerator(t, 2, nil)
	require.NotEqual(t, a.Generate(geom.ChunkPos{}).Hash(), b.Generate(geom.ChunkPos{}).Hash())
}

func TestTerrainColumns(t *testing.T) {
	g := testGenerator(t, 42, nil)
	d := g.Generate(geom.ChunkPos{X: 2, Z: -5})
	reg := block.NewRegistry()

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			// The world floor is always solid.
			bottom := reg.State(d.StateIDAt(x, -64, z))
			require.True(t, bottom.Block.Solid, "column (%d,%d) floor", x, z)

			// Below sea level a column is stone or water, never open air.
			below := reg.State(d.StateIDAt(x, SeaLevel-1, z))
			require.False(t, below.IsAir(), "column (%d,%d) at sea level", x, z)
		}
	}
}

func TestSurfaceCoversStone(t *testing.T) {
	g := testGenerator(t, 99, nil)
	pc := g.GenerateProto(geom.ChunkPos{X: 1, Z: 1})
	start := pc.Pos.StartPos()

	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			col := geom.ColumnPos{X: start.X + lx, Z: start.Z + lz}
			floor := pc.HeightExclusive(chunk.OceanFloor, col)
			require.Greater(t, floor, pc.Shape().MinY)
			top := pc.StateAt(geom.Pos{X: col.X, Y: floor - 1, Z: col.Z})
			require.NotContains(t, []string{"stone", "deepslate"}, top.Block.Name,
				"column %v keeps bare stone on top", col)
		}
	}
}

func TestBiomesAreAssigned(t *testing.T) {
	g := testGenerator(t, 7, nil)
	pc := g.GenerateProto(geom.ChunkPos{X: 4, Z: 4})

	seen := map[chunk.BiomeID]bool{}
	start := pc.Pos.StartPos()
	for lx := 0; lx < chunk.SizeX; lx += 4 {
		for lz := 0; lz < chunk.SizeZ; lz += 4 {
			id := pc.BiomeAt(geom.Pos{X: start.X + lx, Y: 0, Z: start.Z + lz})
			require.Equal(t, BiomeByID(id).ID, id)
			seen[id] = true
		}
	}
	require.NotEmpty(t, seen)
}

func TestFeaturePlacementRuns(t *testing.T) {
	reg := block.NewRegistry()
	iron := reg.MustBlock("iron_ore").DefaultState()
	ore := feature.OreFeature{
		Size: 9,
		Targets: []feature.OreTarget{
			{Target: predicate.TagMatchTest{Tag: "base_stone_overworld"}, State: iron},
		},
	}
	placed := &feature.PlacedFeature{
		Feature: ore,
		Modifiers: []feature.PlacementModifier{
			feature.CountModifier{Count: provider.ConstantInt(20)},
			feature.InSquareModifier{},
			feature.HeightRangeModifier{Height: provider.UniformHeight{
				MinInclusive: provider.YOffset{Anchor: provider.AnchorAboveBottom, Offset: 8},
				MaxInclusive: provider.YOffset{Anchor: provider.AnchorAbsolute, Offset: 48},
			}},
		},
	}

	g, err := NewGenerator(4242, reg, FeatureSet{"ore_iron": placed})
	require.NoError(t, err)
	d := g.Generate(geom.ChunkPos{X: 3, Z: 3})

	count := 0
	ironID := iron.ID
	for _, id := range d.Blocks {
		if id == ironID {
			count++
		}
	}
	require.Greater(t, count, 0, "twenty vein attempts in deep stone must place ore")
}

func TestFeatureOrderIsStable(t *testing.T) {
	a := featureOrder()
	b := featureOrder()
	require.Equal(t, a, b)

	// The ore step lists coal before iron because plains declares that order.
	ores := a[StepUndergroundOres]
	require.Contains(t, ores, "ore_coal")
	require.Contains(t, ores, "ore_iron")
	require.Less(t, indexOf(ores, "ore_coal"), indexOf(ores, "ore_iron"))
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}
