package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"chunkforge/internal/block"
	"chunkforge/internal/geom"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

func TestConstantFloatExact(t *testing.T) {
	p := ConstantFloat(5.5)
	r := rng.NewXoroshiro(9)
	for i := 0; i < 10; i++ {
		require.Equal(t, float32(5.5), p.Get(r))
	}
	require.Equal(t, float32(5.5), p.Min())
	require.Equal(t, float32(5.5), p.Max())
}

func TestUniformFloatHalfOpen(t *testing.T) {
	p := UniformFloat{MinInclusive: 1.0, MaxExclusive: 5.0}
	r := rng.NewLegacy(42)
	for i := 0; i < 100; i++ {
		v := p.Get(r)
		require.GreaterOrEqual(t, v, float32(1.0))
		require.Less(t, v, float32(5.0))
	}
}

func TestIntProviderBounds(t *testing.T) {
	pool, err := NewPool([]Weighted[Int]{
		{Data: ConstantInt(2), Weight: 1},
		{Data: UniformInt{MinInclusive: 4, MaxInclusive: 9}, Weight: 3},
	})
	require.NoError(t, err)

	providers := []Int{
		ConstantInt(7),
		UniformInt{MinInclusive: -4, MaxInclusive: 12},
		BiasedToBottomInt{MinInclusive: 0, MaxInclusive: 6},
		ClampedInt{Source: UniformInt{MinInclusive: -10, MaxInclusive: 30}, MinInclusive: 0, MaxInclusive: 16},
		ClampedNormalInt{Mean: 5, Deviation: 3, MinInclusive: 1, MaxInclusive: 9},
		WeightedListInt{Pool: pool},
	}
	for _, p := range providers {
		r := rng.NewXoroshiro(77)
		for i := 0; i < 1000; i++ {
			v := p.Get(r)
			require.GreaterOrEqual(t, v, p.Min(), "%T", p)
			require.LessOrEqual(t, v, p.Max(), "%T", p)
		}
	}
}

func TestFloatProviderBounds(t *testing.T) {
	providers := []Float{
		UniformFloat{MinInclusive: -2, MaxExclusive: 3},
		ClampedNormalFloat{Mean: 0, Deviation: 2, MinValue: -1, MaxValue: 1},
		TrapezoidFloat{MinValue: 0, MaxValue: 10, Plateau: 4},
	}
	for _, p := range providers {
		r := rng.NewXoroshiro(31)
		for i := 0; i < 1000; i++ {
			v := p.Get(r)
			require.GreaterOrEqual(t, v, p.Min(), "%T", p)
			require.LessOrEqual(t, v, p.Max(), "%T", p)
		}
	}
}

func TestBiasedToBottomSkew(t *testing.T) {
	p := BiasedToBottomInt{MinInclusive: 0, MaxInclusive: 10}
	r := rng.NewLegacy(5)
	low, high := 0, 0
	for i := 0; i < 5000; i++ {
		if p.Get(r) <= 5 {
			low++
		} else {
			high++
		}
	}
	require.Greater(t, low, high, "distribution should favor the bottom half")
}

func TestPoolRespectsWeights(t *testing.T) {
	pool, err := NewPool([]Weighted[string]{
		{Data: "common", Weight: 9},
		{Data: "rare", Weight: 1},
	})
	require.NoError(t, err)

	r := rng.NewXoroshiro(12)
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[pool.Get(r)]++
	}
	require.Greater(t, counts["common"], 8000)
	require.Greater(t, counts["rare"], 0)
}

func TestPoolRejectsZeroTotal(t *testing.T) {
	_, err := NewPool([]Weighted[string]{{Data: "x", Weight: 0}})
	require.Error(t, err)
}

func TestHeightProviders(t *testing.T) {
	ctx := HeightContext{MinY: -64, Height: 384}

	c := ConstantHeight{Value: YOffset{Anchor: AnchorAboveBottom, Offset: 10}}
	require.Equal(t, -54, c.Get(rng.NewLegacy(0), ctx))

	top := ConstantHeight{Value: YOffset{Anchor: AnchorBelowTop, Offset: 0}}
	require.Equal(t, 319, top.Get(rng.NewLegacy(0), ctx))

	u := UniformHeight{
		MinInclusive: YOffset{Anchor: AnchorAbsolute, Offset: 0},
		MaxInclusive: YOffset{Anchor: AnchorAbsolute, Offset: 64},
	}
	r := rng.NewXoroshiro(3)
	for i := 0; i < 1000; i++ {
		v := u.Get(r, ctx)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 64)
	}

	tr := TrapezoidHeight{
		MinInclusive: YOffset{Anchor: AnchorAbsolute, Offset: -16},
		MaxInclusive: YOffset{Anchor: AnchorAbsolute, Offset: 112},
		Plateau:      0,
	}
	for i := 0; i < 1000; i++ {
		v := tr.Get(r, ctx)
		require.GreaterOrEqual(t, v, -16)
		require.LessOrEqual(t, v, 112)
	}

	vb := VeryBiasedToBottomHeight{
		MinInclusive: YOffset{Anchor: AnchorAboveBottom, Offset: 0},
		MaxInclusive: YOffset{Anchor: AnchorAbsolute, Offset: 100},
		Inner:        1,
	}
	below := 0
	for i := 0; i < 1000; i++ {
		v := vb.Get(r, ctx)
		require.GreaterOrEqual(t, v, -64)
		require.LessOrEqual(t, v, 100)
		if v < 0 {
			below++
		}
	}
	require.Greater(t, below, 500, "distribution should crowd toward the bottom")
}

func TestWeightedStateProvider(t *testing.T) {
	reg := block.NewRegistry()
	stone := reg.MustBlock("stone").DefaultState()
	dirt := reg.MustBlock("dirt").DefaultState()

	pool, err := NewPool([]Weighted[*block.State]{
		{Data: stone, Weight: 1},
		{Data: dirt, Weight: 1},
	})
	require.NoError(t, err)

	p := WeightedState{Pool: pool}
	r := rng.NewXoroshiro(8)
	seen := map[*block.State]bool{}
	for i := 0; i < 100; i++ {
		seen[p.Get(r, geom.Pos{})] = true
	}
	require.True(t, seen[stone] && seen[dirt])
}

func TestRotatedPillarState(t *testing.T) {
	reg := block.NewRegistry()
	p := RotatedPillarState{Block: reg.MustBlock("oak_log")}
	r := rng.NewXoroshiro(4)
	variants := map[string]bool{}
	for i := 0; i < 200; i++ {
		s := p.Get(r, geom.Pos{})
		require.Equal(t, "oak_log", s.Block.Name)
		variants[s.Variant] = true
	}
	require.Len(t, variants, 3)
}

func TestNoiseStateIsPositional(t *testing.T) {
	reg := block.NewRegistry()
	states := []*block.State{
		reg.MustBlock("dandelion").DefaultState(),
		reg.MustBlock("poppy").DefaultState(),
		reg.MustBlock("blue_orchid").DefaultState(),
	}
	p, err := NewNoiseState(2345, noise.MustParams("minecraft:vegetation"), 0.020833334, states)
	require.NoError(t, err)

	r := rng.NewXoroshiro(0)
	a := p.Get(r, geom.Pos{X: 10, Y: 64, Z: 10})
	b := p.Get(r, geom.Pos{X: 10, Y: 64, Z: 10})
	require.Same(t, a, b, "same position must resolve the same state")

	seen := map[*block.State]bool{}
	for i := 0; i < 500; i++ {
		seen[p.Get(r, geom.Pos{X: i * 37, Y: 64, Z: -i * 13})] = true
	}
	require.GreaterOrEqual(t, len(seen), 2, "noise selection should vary across positions")
}

func TestDecodeIntProvider(t *testing.T) {
	p, err := DecodeInt(json.RawMessage(`3`))
	require.NoError(t, err)
	require.Equal(t, ConstantInt(3), p)

	p, err = DecodeInt(json.RawMessage(`{"type":"minecraft:uniform","min_inclusive":2,"max_inclusive":6}`))
	require.NoError(t, err)
	require.Equal(t, UniformInt{MinInclusive: 2, MaxInclusive: 6}, p)

	_, err = DecodeInt(json.RawMessage(`{"type":"minecraft:uniform","min_inclusive":9,"max_inclusive":1}`))
	require.Error(t, err)

	_, err = DecodeInt(json.RawMessage(`{"type":"minecraft:bogus"}`))
	require.Error(t, err)
}

func TestDecodeBlockStateProvider(t *testing.T) {
	reg := block.NewRegistry()

	p, err := DecodeBlockState(json.RawMessage(`{
		"type": "minecraft:simple_state_provider",
		"state": {"Name": "minecraft:oak_log", "Properties": {"axis": "x"}}
	}`), reg)
	require.NoError(t, err)
	s := p.Get(rng.NewLegacy(0), geom.Pos{})
	require.Equal(t, "oak_log", s.Block.Name)
	require.Equal(t, "axis=x", s.Variant)

	_, err = DecodeBlockState(json.RawMessage(`{
		"type": "minecraft:simple_state_provider",
		"state": {"Name": "minecraft:not_a_block"}
	}`), reg)
	require.Error(t, err)
}

func TestDecodeHeightProvider(t *testing.T) {
	h, err := DecodeHeight(json.RawMessage(`{
		"type": "minecraft:trapezoid",
		"min_inclusive": {"above_bottom": 8},
		"max_inclusive": {"absolute": 24},
		"plateau": 4
	}`))
	require.NoError(t, err)
	ctx := HeightContext{MinY: -64, Height: 384}
	r := rng.NewXoroshiro(1)
	for i := 0; i < 500; i++ {
		v := h.Get(r, ctx)
		require.GreaterOrEqual(t, v, -56)
		require.LessOrEqual(t, v, 24)
	}
}
