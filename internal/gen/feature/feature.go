// Package feature implements the decorated-feature engine: configured
// features carry a generation algorithm, placed features wrap one with a
// chain of placement modifiers that turn a chunk origin into zero or more
// attempt positions.
package feature

import (
	"encoding/json"
	"fmt"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// Level is the mutable voxel view a feature generates into. During chunk
// population this is a ProtoChunk; a full level implementation may route
// writes across chunk borders.
type Level interface {
	block.Accessor
	SetState(pos geom.Pos, s *block.State)
	HeightExclusive(k chunk.HeightmapKind, col geom.ColumnPos) int
}

// Context carries everything a feature needs besides its own config.
type Context struct {
	Level     Level
	Registry  *block.Registry
	Placement block.PlacementChecker
	MinY      int
	Height    int

	// BiomeCheck reports whether the feature's biome admits placement at a
	// position. Nil means no biome restriction.
	BiomeCheck func(pos geom.Pos) bool
}

func (c *Context) TopY() int { return c.MinY + c.Height }

func (c *Context) OutOfHeight(y int) bool { return y < c.MinY || y >= c.TopY() }

// PredicateWorld adapts the context for block predicate evaluation.
func (c *Context) PredicateWorld() *predicate.World {
	return &predicate.World{
		Access:    c.Level,
		Registry:  c.Registry,
		Placement: c.Placement,
		MinY:      c.MinY,
		TopY:      c.TopY(),
	}
}

// Feature generates blocks around an origin. It reports whether anything
// was placed; selector features use that to fall through.
type Feature interface {
	Generate(ctx *Context, r rng.Source, origin geom.Pos) bool
}

// noopFeature covers vanilla feature tags this generator does not carve,
// cave, or structure for. It is registered so data files referencing them
// decode cleanly, and it never places anything.
type noopFeature struct{}

func (noopFeature) Generate(*Context, rng.Source, geom.Pos) bool { return false }

// Decoder builds a Feature from its JSON config.
type Decoder func(cfg json.RawMessage, reg *block.Registry) (Feature, error)

var decoders = map[string]Decoder{}

// RegisterDecoder installs a feature decoder under a type tag. Sub-packages
// such as the tree pipeline register themselves through it.
func RegisterDecoder(tag string, d Decoder) {
	if _, dup := decoders[tag]; dup {
		panic(fmt.Sprintf("feature: duplicate decoder %q", tag))
	}
	decoders[tag] = d
}

func registerDecoder(tag string, d Decoder) { RegisterDecoder(tag, d) }

func registerNoop(tags ...string) {
	for _, tag := range tags {
		registerDecoder(tag, func(json.RawMessage, *block.Registry) (Feature, error) {
			return noopFeature{}, nil
		})
	}
}

func init() {
	registerNoop(
		"no_op",
		"chorus_plant",
		"void_start_platform",
		"desert_well",
		"fossil",
		"ice_spike",
		"glowstone_blob",
		"freeze_top_layer",
		"blue_ice",
		"iceberg",
		"forest_rock",
		"disk",
		"lake",
		"basalt_columns",
		"delta_feature",
		"basalt_pillar",
		"twisting_vines",
		"weeping_vines",
		"coral_tree",
		"coral_mushroom",
		"coral_claw",
		"kelp",
		"huge_red_mushroom",
		"huge_brown_mushroom",
		"huge_fungus",
		"dripstone_cluster",
		"large_dripstone",
		"pointed_dripstone",
		"underwater_magma",
		"vegetation_patch",
		"waterlogged_vegetation_patch",
		"root_system",
		"multiface_growth",
		"sculk_patch",
		"geode",
		"end_spike",
		"end_gateway",
		"end_island",
		"end_platform",
		"scattered_ore",
		"fill_layer",
		"monster_room",
		"fallen_tree",
	)
}

type configuredJSON struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

// DecodeConfigured decodes a tagged configured feature.
func DecodeConfigured(raw json.RawMessage, reg *block.Registry) (Feature, error) {
	var v configuredJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("feature: configured feature: %w", err)
	}
	tag := strings.TrimPrefix(v.Type, "minecraft:")
	d, ok := decoders[tag]
	if !ok {
		return nil, fmt.Errorf("feature: unknown feature type %q", tag)
	}
	f, err := d(v.Config, reg)
	if err != nil {
		return nil, fmt.Errorf("feature: %s: %w", tag, err)
	}
	return f, nil
}
