package predicate

import (
	"encoding/json"
	"testing"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

func testWorld() (*World, *chunk.ProtoChunk, *block.Registry) {
	reg := block.NewRegistry()
	pc := chunk.NewProtoChunk(geom.ChunkPos{}, chunk.Shape{MinY: -64, Height: 384}, reg)
	w := &World{
		Access:    pc,
		Registry:  reg,
		Placement: block.VanillaPlacement{},
		MinY:      -64,
		TopY:      320,
	}
	return w, pc, reg
}

func TestRuleTests(t *testing.T) {
	reg := block.NewRegistry()
	r := rng.NewXoroshiro(1)
	stone := reg.MustBlock("stone").DefaultState()
	deepslate := reg.MustBlock("deepslate").DefaultState()

	if !(AlwaysTrueTest{}).Test(stone, r) {
		t.Error("always_true should match")
	}
	bm := BlockMatchTest{Block: reg.MustBlock("stone")}
	if !bm.Test(stone, r) || bm.Test(deepslate, r) {
		t.Error("block_match mismatch")
	}
	sm := BlockStateMatchTest{State: stone}
	if !sm.Test(stone, r) || sm.Test(deepslate, r) {
		t.Error("blockstate_match mismatch")
	}
	tm := TagMatchTest{Tag: "minecraft:stone_ore_replaceables"}
	if !tm.Test(stone, r) {
		t.Error("tag_match should match stone")
	}
	if tm.Test(reg.MustBlock("dirt").DefaultState(), r) {
		t.Error("tag_match should reject dirt")
	}
}

func TestRandomBlockMatchProbability(t *testing.T) {
	reg := block.NewRegistry()
	stone := reg.MustBlock("stone").DefaultState()

	never := RandomBlockMatchTest{Block: stone.Block, Probability: 0}
	always := RandomBlockMatchTest{Block: stone.Block, Probability: 1}
	r := rng.NewLegacy(3)
	for i := 0; i < 100; i++ {
		if never.Test(stone, r) {
			t.Fatal("probability 0 should never match")
		}
		if !always.Test(stone, r) {
			t.Fatal("probability 1 should always match")
		}
	}
}

func TestDecodeStateCodecProperties(t *testing.T) {
	reg := block.NewRegistry()

	s, err := DecodeStateCodec(json.RawMessage(`{"Name":"minecraft:sea_pickle","Properties":{"pickles":"3"}}`), reg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Variant != "pickles=3" {
		t.Fatalf("want pickles=3 variant, got %q", s.Variant)
	}

	// Multi-property states resolve through one sorted key join, so repeated
	// decodes always land on the same state whatever the map order.
	raw := json.RawMessage(`{"Name":"minecraft:oak_log","Properties":{"waterlogged":"false","axis":"x"}}`)
	first, err := DecodeStateCodec(raw, reg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		s, err := DecodeStateCodec(raw, reg)
		if err != nil {
			t.Fatal(err)
		}
		if s != first {
			t.Fatalf("decode %d resolved %q, first resolved %q", i, s.Variant, first.Variant)
		}
	}
}

func TestMatchingAndCompositePredicates(t *testing.T) {
	w, pc, reg := testWorld()
	stone := reg.MustBlock("stone").DefaultState()
	pos := geom.Pos{X: 4, Y: 10, Z: 4}
	pc.SetState(pos.Down(), stone)

	below := MatchingBlocksPredicate{Offset: geom.Pos{Y: -1}, Blocks: []*block.Block{stone.Block}}
	if !below.Test(w, pos) {
		t.Error("matching_blocks with offset should see stone below")
	}

	solidBelow := SolidPredicate{Offset: geom.Pos{Y: -1}}
	airHere := ReplaceablePredicate{}
	all := AllOfPredicate{Predicates: []BlockPredicate{below, solidBelow, airHere}}
	if !all.Test(w, pos) {
		t.Error("all_of should pass")
	}

	not := NotPredicate{Predicate: below}
	if not.Test(w, pos) {
		t.Error("not should invert")
	}

	any := AnyOfPredicate{Predicates: []BlockPredicate{not, below}}
	if !any.Test(w, pos) {
		t.Error("any_of should pass when one child passes")
	}
}

func TestInsideWorldBounds(t *testing.T) {
	w, _, _ := testWorld()
	p := InsideWorldBoundsPredicate{Offset: geom.Pos{Y: 10}}
	if !p.Test(w, geom.Pos{Y: 0}) {
		t.Error("in-bounds position rejected")
	}
	if p.Test(w, geom.Pos{Y: 315}) {
		t.Error("out-of-bounds position accepted")
	}
}

func TestWouldSurvive(t *testing.T) {
	w, pc, reg := testWorld()
	grass := reg.MustBlock("grass_block").DefaultState()
	pc.SetState(geom.Pos{X: 1, Y: 9, Z: 1}, grass)

	p := WouldSurvivePredicate{State: reg.MustBlock("short_grass").DefaultState()}
	if !p.Test(w, geom.Pos{X: 1, Y: 10, Z: 1}) {
		t.Error("short_grass should survive on grass block")
	}
	if p.Test(w, geom.Pos{X: 2, Y: 10, Z: 2}) {
		t.Error("short_grass should not survive on air")
	}
}

func TestDecodeRuleTest(t *testing.T) {
	reg := block.NewRegistry()
	rt, err := DecodeRuleTest(json.RawMessage(`{
		"predicate_type": "minecraft:tag_match",
		"tag": "minecraft:stone_ore_replaceables"
	}`), reg)
	if err != nil {
		t.Fatal(err)
	}
	if !rt.Test(reg.MustBlock("granite").DefaultState(), rng.NewLegacy(0)) {
		t.Error("decoded tag_match should match granite")
	}

	if _, err := DecodeRuleTest(json.RawMessage(`{"predicate_type":"minecraft:bogus"}`), reg); err == nil {
		t.Error("unknown rule test must error")
	}
}

func TestDecodeBlockPredicate(t *testing.T) {
	w, pc, reg := testWorld()
	water := reg.MustBlock("water").DefaultState()
	pc.SetState(geom.Pos{X: 0, Y: 5, Z: 0}, water)

	p, err := DecodeBlockPredicate(json.RawMessage(`{
		"type": "minecraft:matching_blocks",
		"blocks": "minecraft:water"
	}`), reg)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Test(w, geom.Pos{X: 0, Y: 5, Z: 0}) {
		t.Error("decoded matching_blocks should match water")
	}

	composite, err := DecodeBlockPredicate(json.RawMessage(`{
		"type": "minecraft:all_of",
		"predicates": [
			{"type": "minecraft:replaceable"},
			{"type": "minecraft:not", "predicate": {"type": "minecraft:matching_blocks", "blocks": ["minecraft:lava"]}}
		]
	}`), reg)
	if err != nil {
		t.Fatal(err)
	}
	if !composite.Test(w, geom.Pos{X: 0, Y: 6, Z: 0}) {
		t.Error("composite predicate should pass on air")
	}
}
