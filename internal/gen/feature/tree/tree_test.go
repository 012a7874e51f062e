package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/feature"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

func testContext(t *testing.T) (*feature.Context, *chunk.ProtoChunk, *block.Registry) {
	t.Helper()
	reg := block.NewRegistry()
	pc := chunk.NewProtoChunk(geom.ChunkPos{}, chunk.Shape{MinY: -64, Height: 384}, reg)
	ctx := &feature.Context{
		Level:     pc,
		Registry:  reg,
		Placement: block.VanillaPlacement{},
		MinY:      -64,
		Height:    384,
	}
	return ctx, pc, reg
}

func plantGround(pc *chunk.ProtoChunk, reg *block.Registry) {
	grass := reg.MustBlock("grass_block").DefaultState()
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			pc.SetState(geom.Pos{X: x, Y: 9, Z: z}, grass)
		}
	}
}

func oakConfig(reg *block.Registry) Config {
	return Config{
		TrunkProvider:   provider.SimpleState{State: reg.MustBlock("oak_log").DefaultState()},
		FoliageProvider: provider.SimpleState{State: reg.MustBlock("oak_leaves").DefaultState()},
		DirtProvider:    provider.SimpleState{State: reg.MustBlock("dirt").DefaultState()},
		Trunk:           StraightTrunk{trunkBase{BaseHeight: 4, HeightRandA: 2, HeightRandB: 0}},
		Foliage: BlobFoliage{
			foliageBase: foliageBase{RadiusProvider: provider.ConstantInt(2), OffsetProvider: provider.ConstantInt(0)},
			Height:      3,
		},
		Size: TwoLayersSize{Limit: 1, LowerSize: 0, UpperSize: 1, MinClipped: -1},
	}
}

func TestStraightOak(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)

	f := TreeFeature{Cfg: oakConfig(reg)}
	origin := geom.Pos{X: 8, Y: 10, Z: 8}
	require.True(t, f.Generate(ctx, rng.NewXoroshiro(12345), origin))

	trunk := 0
	for pc.StateAt(origin.Add(0, trunk, 0)).Block.Name == "oak_log" {
		trunk++
	}
	require.GreaterOrEqual(t, trunk, 4)
	require.LessOrEqual(t, trunk, 6)

	leaves := 0
	for x := 0; x < 16; x++ {
		for y := 10; y < 25; y++ {
			for z := 0; z < 16; z++ {
				if pc.StateAt(geom.Pos{X: x, Y: y, Z: z}).Block.Name == "oak_leaves" {
					leaves++
				}
			}
		}
	}
	require.Greater(t, leaves, 10, "a blob canopy should appear")
}

func TestTreeDoesNotReplaceTerrain(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)
	stone := reg.MustBlock("stone").DefaultState()
	wall := geom.Pos{X: 10, Y: 12, Z: 8}
	pc.SetState(wall, stone)

	f := TreeFeature{Cfg: oakConfig(reg)}
	f.Generate(ctx, rng.NewXoroshiro(7), geom.Pos{X: 8, Y: 10, Z: 8})
	require.Equal(t, "stone", pc.StateAt(wall).Block.Name, "existing terrain must survive tree growth")
}

func TestTreeAbortsWhenBoxedIn(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)
	stone := reg.MustBlock("stone").DefaultState()
	// Solid ceiling right above the sapling.
	for x := 4; x <= 12; x++ {
		for z := 4; z <= 12; z++ {
			pc.SetState(geom.Pos{X: x, Y: 11, Z: z}, stone)
		}
	}
	f := TreeFeature{Cfg: oakConfig(reg)}
	require.False(t, f.Generate(ctx, rng.NewXoroshiro(3), geom.Pos{X: 8, Y: 10, Z: 8}))
}

func TestSetDirtUnderTrunk(t *testing.T) {
	ctx, pc, reg := testContext(t)
	stone := reg.MustBlock("stone").DefaultState()
	base := geom.Pos{X: 8, Y: 9, Z: 8}
	pc.SetState(base, stone)

	f := TreeFeature{Cfg: oakConfig(reg)}
	require.True(t, f.Generate(ctx, rng.NewXoroshiro(9), base.Up()))
	require.Equal(t, "dirt", pc.StateAt(base).Block.Name, "non-soil ground converts to dirt")

	// Natural grass stays.
	ctx2, pc2, reg2 := testContext(t)
	plantGround(pc2, reg2)
	f2 := TreeFeature{Cfg: oakConfig(reg2)}
	require.True(t, f2.Generate(ctx2, rng.NewXoroshiro(9), base.Up()))
	require.Equal(t, "grass_block", pc2.StateAt(base).Block.Name)
}

func TestGiantTrunkIsTwoByTwo(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)

	cfg := oakConfig(reg)
	cfg.TrunkProvider = provider.SimpleState{State: reg.MustBlock("spruce_log").DefaultState()}
	cfg.FoliageProvider = provider.SimpleState{State: reg.MustBlock("spruce_leaves").DefaultState()}
	cfg.Trunk = GiantTrunk{trunkBase{BaseHeight: 13, HeightRandA: 2, HeightRandB: 14}}
	cfg.Foliage = MegaPineFoliage{
		foliageBase: foliageBase{RadiusProvider: provider.ConstantInt(0), OffsetProvider: provider.ConstantInt(0)},
		CrownHeight: provider.UniformInt{MinInclusive: 13, MaxInclusive: 17},
	}
	f := TreeFeature{Cfg: cfg}
	origin := geom.Pos{X: 6, Y: 10, Z: 6}
	require.True(t, f.Generate(ctx, rng.NewXoroshiro(55), origin))

	for _, off := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		p := origin.Add(off[0], 0, off[1])
		require.Equal(t, "spruce_log", pc.StateAt(p).Block.Name, "column %v", off)
	}
}

func TestStubTrunkGrowsNothing(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)

	cfg := oakConfig(reg)
	cfg.Trunk = stubTrunk{trunkBase{BaseHeight: 4}}
	f := TreeFeature{Cfg: cfg}
	require.False(t, f.Generate(ctx, rng.NewXoroshiro(1), geom.Pos{X: 8, Y: 10, Z: 8}))
	require.True(t, pc.StateAt(geom.Pos{X: 8, Y: 10, Z: 8}).IsAir())
}

func TestTrunkVineDecorator(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)

	cfg := oakConfig(reg)
	cfg.Decorators = []Decorator{TrunkVineDecorator{}}
	f := TreeFeature{Cfg: cfg}
	require.True(t, f.Generate(ctx, rng.NewXoroshiro(31), geom.Pos{X: 8, Y: 10, Z: 8}))

	vines := 0
	for x := 0; x < 16; x++ {
		for y := 10; y < 20; y++ {
			for z := 0; z < 16; z++ {
				if pc.StateAt(geom.Pos{X: x, Y: y, Z: z}).Block.Name == "vine" {
					vines++
				}
			}
		}
	}
	require.Greater(t, vines, 0, "trunk vines should hang off the logs")
}

func cherryFoliage() CherryFoliage {
	return CherryFoliage{
		foliageBase:                  foliageBase{RadiusProvider: provider.ConstantInt(4), OffsetProvider: provider.ConstantInt(0)},
		HeightProvider:               provider.ConstantInt(5),
		WideBottomLayerHoleChance:    0.25,
		CornerHoleChance:             0.5,
		HangingLeavesChance:          0.16666667,
		HangingLeavesExtensionChance: 0.33333334,
	}
}

func TestCherryCanopyShape(t *testing.T) {
	ctx, pc, reg := testContext(t)
	plantGround(pc, reg)

	cfg := oakConfig(reg)
	cfg.TrunkProvider = provider.SimpleState{State: reg.MustBlock("cherry_log").DefaultState()}
	cfg.FoliageProvider = provider.SimpleState{State: reg.MustBlock("cherry_leaves").DefaultState()}
	cfg.Trunk = StraightTrunk{trunkBase{BaseHeight: 6}}
	cfg.Foliage = cherryFoliage()

	f := TreeFeature{Cfg: cfg}
	origin := geom.Pos{X: 8, Y: 10, Z: 8}
	require.True(t, f.Generate(ctx, rng.NewXoroshiro(2023), origin))

	count := func(y, ring int) int {
		n := 0
		for dx := -4; dx <= 4; dx++ {
			for dz := -4; dz <= 4; dz++ {
				if maxI(absI(dx), absI(dz)) != ring {
					continue
				}
				if pc.StateAt(origin.Add(dx, y, dz)).Block.Name == "cherry_leaves" {
					n++
				}
			}
		}
		return n
	}

	// The attachment sits one above the six-block trunk. The skirt row a
	// block below it reaches the full three-block ring, well past a blob
	// canopy of the same radius provider.
	top := origin.Y + 6
	require.Greater(t, count(top-1, 3), 0, "wide bottom layer")
	require.Greater(t, count(top+2, 1), 0, "trimmed crown layer")

	// No row is emitted at the attachment height itself.
	require.Zero(t, count(top, 1)+count(top, 2)+count(top, 3))
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestCherryCornerTrimming(t *testing.T) {
	f := cherryFoliage()
	f.CornerHoleChance = 1
	f.WideBottomLayerHoleChance = 1

	r := rng.NewXoroshiro(4)
	// Full corners are always trimmed.
	require.True(t, f.skip(r, 3, 0, 3, 3, false))
	// On the wide bottom layer, rim cells are holes when the chance is 1.
	require.True(t, f.skip(r, 3, -1, 0, 3, false))
	// Interior cells always keep their leaves.
	f.CornerHoleChance = 0
	f.WideBottomLayerHoleChance = 0
	require.False(t, f.skip(r, 1, 0, 1, 3, false))
	require.False(t, f.skip(r, 3, -1, 0, 3, false))
}

func TestDecodeCherryFoliagePlacer(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "minecraft:cherry_foliage_placer",
		"radius": 4,
		"offset": 0,
		"height": 5,
		"wide_bottom_layer_hole_chance": 0.25,
		"corner_hole_chance": 0.5,
		"hanging_leaves_chance": 0.16666667,
		"hanging_leaves_extension_chance": 0.33333334
	}`)
	p, err := DecodeFoliagePlacer(raw)
	require.NoError(t, err)
	cf, ok := p.(CherryFoliage)
	require.True(t, ok)
	require.Equal(t, 5, cf.FoliageHeight(rng.NewLegacy(0), 0))
	require.Equal(t, float32(0.25), cf.WideBottomLayerHoleChance)
	require.Equal(t, float32(0.5), cf.CornerHoleChance)
	require.Equal(t, float32(0.16666667), cf.HangingLeavesChance)
}

func TestDecodeTreeFeature(t *testing.T) {
	reg := block.NewRegistry()
	raw := json.RawMessage(`{
		"type": "minecraft:tree",
		"config": {
			"trunk_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_log"}},
			"foliage_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_leaves"}},
			"dirt_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:dirt"}},
			"trunk_placer": {"type": "minecraft:straight_trunk_placer", "base_height": 4, "height_rand_a": 2, "height_rand_b": 0},
			"foliage_placer": {"type": "minecraft:blob_foliage_placer", "radius": 2, "offset": 0, "height": 3},
			"minimum_size": {"type": "minecraft:two_layers_feature_size", "limit": 1, "lower_size": 0, "upper_size": 1},
			"decorators": [{"type": "minecraft:trunk_vine"}],
			"ignore_vines": true
		}
	}`)
	f, err := feature.DecodeConfigured(raw, reg)
	require.NoError(t, err)
	tf, ok := f.(TreeFeature)
	require.True(t, ok)
	require.Len(t, tf.Cfg.Decorators, 1)
	require.True(t, tf.Cfg.IgnoreVines)
	require.IsType(t, StraightTrunk{}, tf.Cfg.Trunk)
	require.IsType(t, BlobFoliage{}, tf.Cfg.Foliage)
}

func TestDecodeUnknownTrunkPlacer(t *testing.T) {
	_, err := DecodeTrunkPlacer(json.RawMessage(`{"type":"minecraft:spiral_trunk_placer"}`))
	require.Error(t, err)
}

func TestStubTrunkPlacersDecode(t *testing.T) {
	for _, tag := range []string{"forking_trunk_placer", "upwards_branching_trunk_placer", "cherry_trunk_placer"} {
		p, err := DecodeTrunkPlacer(json.RawMessage(`{"type":"minecraft:` + tag + `","base_height":5,"height_rand_a":1,"height_rand_b":1}`))
		require.NoError(t, err, tag)
		require.GreaterOrEqual(t, p.Height(rng.NewLegacy(0)), 5)
	}
}
