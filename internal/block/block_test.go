package block

import (
	"testing"

	"chunkforge/internal/geom"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	stone, ok := r.Block("stone")
	if !ok {
		t.Fatal("stone not registered")
	}
	if !stone.IsTaggedWith("minecraft:stone_ore_replaceables") {
		t.Error("stone should be ore-replaceable")
	}
	if stone.IsTaggedWith("dirt") {
		t.Error("stone should not be dirt-tagged")
	}

	// Namespaced lookup resolves the same block.
	namespaced, ok := r.Block("minecraft:stone")
	if !ok || namespaced != stone {
		t.Error("namespaced lookup should resolve identical block")
	}
}

func TestStateIDsAreStable(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	if a.StateCount() != b.StateCount() {
		t.Fatalf("state counts differ: %d vs %d", a.StateCount(), b.StateCount())
	}
	for i := 0; i < a.StateCount(); i++ {
		sa := a.State(StateID(i))
		sb := b.State(StateID(i))
		if sa.Block.Name != sb.Block.Name || sa.Variant != sb.Variant {
			t.Fatalf("state %d differs: %s/%s vs %s/%s", i, sa.Block.Name, sa.Variant, sb.Block.Name, sb.Variant)
		}
	}
}

func TestStateVariant(t *testing.T) {
	r := NewRegistry()
	log := r.MustBlock("oak_log")

	x := log.StateVariant("axis=x")
	if x.Variant != "axis=x" {
		t.Errorf("expected axis=x variant, got %q", x.Variant)
	}
	if x.Block != log {
		t.Error("variant state should belong to its block")
	}

	// Unknown variant falls back to the default state.
	if log.StateVariant("axis=w") != log.DefaultState() {
		t.Error("unknown variant should fall back to default state")
	}
}

func TestOutOfRangeStateIsAir(t *testing.T) {
	r := NewRegistry()
	if s := r.State(StateID(60000)); !s.IsAir() {
		t.Errorf("out-of-range state id should resolve to air, got %s", s.Block.Name)
	}
}

type singleBlockWorld struct {
	r     *Registry
	below *State
}

func (w singleBlockWorld) StateAt(pos geom.Pos) *State {
	if pos.Y == -1 {
		return w.below
	}
	return w.r.Air
}

func TestVanillaPlacement(t *testing.T) {
	r := NewRegistry()
	var checker VanillaPlacement

	cases := []struct {
		block string
		below string
		want  bool
	}{
		{"short_grass", "grass_block", true},
		{"short_grass", "stone", false},
		{"dead_bush", "sand", true},
		{"bamboo", "gravel", true},
		{"cactus", "sand", true},
		{"cactus", "dirt", false},
		{"seagrass", "gravel", true},
		{"stone", "air", true},
	}
	for _, tc := range cases {
		world := singleBlockWorld{r: r, below: r.MustBlock(tc.below).DefaultState()}
		got := checker.CanPlaceAt(r.MustBlock(tc.block), world, geom.Pos{X: 0, Y: 0, Z: 0})
		if got != tc.want {
			t.Errorf("CanPlaceAt(%s on %s) = %v, want %v", tc.block, tc.below, got, tc.want)
		}
	}
}
