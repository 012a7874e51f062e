package predicate

import (
	"encoding/json"
	"fmt"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/rng"
)

// RuleTest decides whether an existing block state may be replaced, e.g. by
// an ore target.
type RuleTest interface {
	Test(s *block.State, r rng.Source) bool
}

// AlwaysTrueTest matches everything.
type AlwaysTrueTest struct{}

func (AlwaysTrueTest) Test(*block.State, rng.Source) bool { return true }

// BlockMatchTest matches any state of one block.
type BlockMatchTest struct {
	Block *block.Block
}

func (t BlockMatchTest) Test(s *block.State, _ rng.Source) bool {
	return s.Block == t.Block
}

// BlockStateMatchTest matches one exact state.
type BlockStateMatchTest struct {
	State *block.State
}

func (t BlockStateMatchTest) Test(s *block.State, _ rng.Source) bool {
	return s == t.State
}

// TagMatchTest matches by tag membership.
type TagMatchTest struct {
	Tag string
}

func (t TagMatchTest) Test(s *block.State, _ rng.Source) bool {
	return s.Block.IsTaggedWith(t.Tag)
}

// RandomBlockMatchTest matches one block with a probability.
type RandomBlockMatchTest struct {
	Block       *block.Block
	Probability float32
}

func (t RandomBlockMatchTest) Test(s *block.State, r rng.Source) bool {
	return s.Block == t.Block && r.NextFloat32() < t.Probability
}

// RandomBlockStateMatchTest matches one exact state with a probability.
type RandomBlockStateMatchTest struct {
	State       *block.State
	Probability float32
}

func (t RandomBlockStateMatchTest) Test(s *block.State, r rng.Source) bool {
	return s == t.State && r.NextFloat32() < t.Probability
}

// DecodeRuleTest decodes a tagged rule test from declarative data.
func DecodeRuleTest(raw json.RawMessage, reg *block.Registry) (RuleTest, error) {
	var probe struct {
		Predicate string `json:"predicate_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("predicate: rule test: %w", err)
	}
	tag := strings.TrimPrefix(probe.Predicate, "minecraft:")
	switch tag {
	case "always_true":
		return AlwaysTrueTest{}, nil
	case "block_match":
		var v struct {
			Block string `json:"block"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		b, ok := reg.Block(v.Block)
		if !ok {
			return nil, fmt.Errorf("predicate: unknown block %q", v.Block)
		}
		return BlockMatchTest{Block: b}, nil
	case "blockstate_match":
		var v struct {
			BlockState json.RawMessage `json:"block_state"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		s, err := DecodeStateCodec(v.BlockState, reg)
		if err != nil {
			return nil, err
		}
		return BlockStateMatchTest{State: s}, nil
	case "tag_match":
		var v struct {
			Tag string `json:"tag"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TagMatchTest{Tag: v.Tag}, nil
	case "random_block_match":
		var v struct {
			Block       string  `json:"block"`
			Probability float32 `json:"probability"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		b, ok := reg.Block(v.Block)
		if !ok {
			return nil, fmt.Errorf("predicate: unknown block %q", v.Block)
		}
		return RandomBlockMatchTest{Block: b, Probability: v.Probability}, nil
	case "random_blockstate_match":
		var v struct {
			BlockState  json.RawMessage `json:"block_state"`
			Probability float32         `json:"probability"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		s, err := DecodeStateCodec(v.BlockState, reg)
		if err != nil {
			return nil, err
		}
		return RandomBlockStateMatchTest{State: s, Probability: v.Probability}, nil
	}
	return nil, fmt.Errorf("predicate: unknown rule test %q", tag)
}

// DecodeStateCodec decodes the {"Name", "Properties"} block state form used
// throughout declarative generation data. Property resolution happens in
// one place so multi-property states always join in sorted key order.
func DecodeStateCodec(raw json.RawMessage, reg *block.Registry) (*block.State, error) {
	return provider.DecodeState(raw, reg)
}
