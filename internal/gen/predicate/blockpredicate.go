package predicate

import (
	"encoding/json"
	"fmt"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/geom"
)

// World is what a block predicate evaluates against: read-only voxel access
// plus placement legality and the vertical bounds.
type World struct {
	Access    block.Accessor
	Registry  *block.Registry
	Placement block.PlacementChecker
	MinY      int
	TopY      int
}

func (w *World) OutOfHeight(y int) bool { return y < w.MinY || y >= w.TopY }

// BlockPredicate filters positions during feature placement.
type BlockPredicate interface {
	Test(w *World, pos geom.Pos) bool
}

// TruePredicate accepts every position.
type TruePredicate struct{}

func (TruePredicate) Test(*World, geom.Pos) bool { return true }

// MatchingBlocksPredicate checks the (offset) block against a set.
type MatchingBlocksPredicate struct {
	Offset geom.Pos
	Blocks []*block.Block
}

func (p MatchingBlocksPredicate) Test(w *World, pos geom.Pos) bool {
	b := w.Access.StateAt(pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z)).Block
	for _, want := range p.Blocks {
		if b == want {
			return true
		}
	}
	return false
}

// MatchingBlockTagPredicate checks tag membership at an offset.
type MatchingBlockTagPredicate struct {
	Offset geom.Pos
	Tag    string
}

func (p MatchingBlockTagPredicate) Test(w *World, pos geom.Pos) bool {
	return w.Access.StateAt(pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z)).Block.IsTaggedWith(p.Tag)
}

// SolidPredicate requires a solid block at an offset.
type SolidPredicate struct {
	Offset geom.Pos
}

func (p SolidPredicate) Test(w *World, pos geom.Pos) bool {
	return w.Access.StateAt(pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z)).Block.Solid
}

// ReplaceablePredicate requires a replaceable block at an offset.
type ReplaceablePredicate struct {
	Offset geom.Pos
}

func (p ReplaceablePredicate) Test(w *World, pos geom.Pos) bool {
	return w.Access.StateAt(pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z)).Block.Replaceable
}

// HasSturdyFacePredicate approximates face support with the full-cube flag.
type HasSturdyFacePredicate struct {
	Offset    geom.Pos
	Direction geom.Direction
}

func (p HasSturdyFacePredicate) Test(w *World, pos geom.Pos) bool {
	s := w.Access.StateAt(pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z))
	return s.Block.Solid && s.Block.FullCube
}

// WouldSurvivePredicate delegates to the placement checker.
type WouldSurvivePredicate struct {
	Offset geom.Pos
	State  *block.State
}

func (p WouldSurvivePredicate) Test(w *World, pos geom.Pos) bool {
	return w.Placement.CanPlaceAt(p.State.Block, w.Access, pos.Add(p.Offset.X, p.Offset.Y, p.Offset.Z))
}

// InsideWorldBoundsPredicate checks the offset Y against the world shape.
type InsideWorldBoundsPredicate struct {
	Offset geom.Pos
}

func (p InsideWorldBoundsPredicate) Test(w *World, pos geom.Pos) bool {
	return !w.OutOfHeight(pos.Y + p.Offset.Y)
}

// AnyOfPredicate passes when any child passes.
type AnyOfPredicate struct {
	Predicates []BlockPredicate
}

func (p AnyOfPredicate) Test(w *World, pos geom.Pos) bool {
	for _, c := range p.Predicates {
		if c.Test(w, pos) {
			return true
		}
	}
	return false
}

// AllOfPredicate passes when every child passes.
type AllOfPredicate struct {
	Predicates []BlockPredicate
}

func (p AllOfPredicate) Test(w *World, pos geom.Pos) bool {
	for _, c := range p.Predicates {
		if !c.Test(w, pos) {
			return false
		}
	}
	return true
}

// NotPredicate inverts its child.
type NotPredicate struct {
	Predicate BlockPredicate
}

func (p NotPredicate) Test(w *World, pos geom.Pos) bool {
	return !p.Predicate.Test(w, pos)
}

type predicateJSON struct {
	Type       string            `json:"type"`
	Offset     []int             `json:"offset"`
	Blocks     json.RawMessage   `json:"blocks"`
	Tag        string            `json:"tag"`
	Direction  string            `json:"direction"`
	State      json.RawMessage   `json:"state"`
	Predicates []json.RawMessage `json:"predicates"`
	Predicate  json.RawMessage   `json:"predicate"`
}

func (v predicateJSON) offsetPos() geom.Pos {
	if len(v.Offset) == 3 {
		return geom.Pos{X: v.Offset[0], Y: v.Offset[1], Z: v.Offset[2]}
	}
	return geom.Pos{}
}

// DecodeBlockPredicate decodes a tagged block predicate.
func DecodeBlockPredicate(raw json.RawMessage, reg *block.Registry) (BlockPredicate, error) {
	var v predicateJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("predicate: block predicate: %w", err)
	}
	tag := strings.TrimPrefix(v.Type, "minecraft:")
	switch tag {
	case "true":
		return TruePredicate{}, nil
	case "matching_blocks":
		names, err := decodeNameList(v.Blocks)
		if err != nil {
			return nil, err
		}
		blocks := make([]*block.Block, 0, len(names))
		for _, name := range names {
			b, ok := reg.Block(name)
			if !ok {
				return nil, fmt.Errorf("predicate: unknown block %q", name)
			}
			blocks = append(blocks, b)
		}
		return MatchingBlocksPredicate{Offset: v.offsetPos(), Blocks: blocks}, nil
	case "matching_block_tag":
		return MatchingBlockTagPredicate{Offset: v.offsetPos(), Tag: v.Tag}, nil
	case "solid":
		return SolidPredicate{Offset: v.offsetPos()}, nil
	case "replaceable":
		return ReplaceablePredicate{Offset: v.offsetPos()}, nil
	case "has_sturdy_face":
		d, ok := geom.DirectionByName(v.Direction)
		if !ok {
			return nil, fmt.Errorf("predicate: unknown direction %q", v.Direction)
		}
		return HasSturdyFacePredicate{Offset: v.offsetPos(), Direction: d}, nil
	case "would_survive":
		s, err := DecodeStateCodec(v.State, reg)
		if err != nil {
			return nil, err
		}
		return WouldSurvivePredicate{Offset: v.offsetPos(), State: s}, nil
	case "inside_world_bounds":
		return InsideWorldBoundsPredicate{Offset: v.offsetPos()}, nil
	case "any_of", "all_of":
		children := make([]BlockPredicate, 0, len(v.Predicates))
		for _, c := range v.Predicates {
			p, err := DecodeBlockPredicate(c, reg)
			if err != nil {
				return nil, err
			}
			children = append(children, p)
		}
		if tag == "any_of" {
			return AnyOfPredicate{Predicates: children}, nil
		}
		return AllOfPredicate{Predicates: children}, nil
	case "not":
		p, err := DecodeBlockPredicate(v.Predicate, reg)
		if err != nil {
			return nil, err
		}
		return NotPredicate{Predicate: p}, nil
	}
	return nil, fmt.Errorf("predicate: unknown block predicate %q", tag)
}

// decodeNameList accepts a single name or a list of names.
func decodeNameList(raw json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("predicate: block list: %w", err)
	}
	return many, nil
}
