package block

import (
	"strings"

	"chunkforge/internal/geom"
)

// StateID indexes the global block-state table.
type StateID uint16

// State is one placeable block state. States are immutable after registry
// construction; generation code passes them around by pointer.
type State struct {
	ID      StateID
	Block   *Block
	Variant string // "" for the default state, else e.g. "axis=x" or "half=upper"
}

func (s *State) IsAir() bool { return s.Block.Air }

// Block groups a named block with its states and classification flags.
type Block struct {
	Name        string
	Air         bool
	Fluid       bool
	Solid       bool
	Replaceable bool
	FullCube    bool

	defaultState *State
	states       []*State
	tags         map[string]struct{}
}

func (b *Block) DefaultState() *State { return b.defaultState }

// StateVariant returns the state with the given variant label, or the
// default state when the block has no such variant.
func (b *Block) StateVariant(variant string) *State {
	for _, s := range b.states {
		if s.Variant == variant {
			return s
		}
	}
	return b.defaultState
}

func (b *Block) IsTaggedWith(tag string) bool {
	_, ok := b.tags[normalizeName(tag)]
	return ok
}

// normalizeName strips the optional "minecraft:" namespace used by
// declarative data files.
func normalizeName(name string) string {
	return strings.TrimPrefix(name, "minecraft:")
}

// Accessor is read-only voxel access, satisfied by the proto-chunk and by
// the level store for cross-chunk probing.
type Accessor interface {
	StateAt(pos geom.Pos) *State
}
