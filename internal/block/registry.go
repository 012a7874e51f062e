package block

import "fmt"

// Registry is the immutable block/state table, built once at startup and
// passed explicitly into every generation call.
type Registry struct {
	byName  map[string]*Block
	byState []*State

	Air *State
}

type def struct {
	name        string
	air         bool
	fluid       bool
	solid       bool
	replaceable bool
	fullCube    bool
	variants    []string
	tags        []string
}

// builtin is the vanilla subset this generator places. Order is the state-id
// assignment order and must stay stable across releases.
var builtin = []def{
	{name: "air", air: true, replaceable: true},
	{name: "cave_air", air: true, replaceable: true},
	{name: "stone", solid: true, fullCube: true, tags: []string{"base_stone_overworld", "stone_ore_replaceables"}},
	{name: "granite", solid: true, fullCube: true, tags: []string{"base_stone_overworld", "stone_ore_replaceables"}},
	{name: "diorite", solid: true, fullCube: true, tags: []string{"base_stone_overworld", "stone_ore_replaceables"}},
	{name: "andesite", solid: true, fullCube: true, tags: []string{"base_stone_overworld", "stone_ore_replaceables"}},
	{name: "tuff", solid: true, fullCube: true, tags: []string{"stone_ore_replaceables"}},
	{name: "deepslate", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"base_stone_overworld", "deepslate_ore_replaceables"}},
	{name: "bedrock", solid: true, fullCube: true},
	{name: "grass_block", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "dirt", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "coarse_dirt", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "podzol", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "mycelium", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "mud", solid: true, fullCube: true, tags: []string{"dirt"}},
	{name: "clay", solid: true, fullCube: true},
	{name: "sand", solid: true, fullCube: true, tags: []string{"sand", "smelts_to_glass"}},
	{name: "red_sand", solid: true, fullCube: true, tags: []string{"sand"}},
	{name: "sandstone", solid: true, fullCube: true},
	{name: "red_sandstone", solid: true, fullCube: true},
	{name: "gravel", solid: true, fullCube: true},
	{name: "water", fluid: true, replaceable: true},
	{name: "lava", fluid: true, replaceable: true},
	{name: "coal_ore", solid: true, fullCube: true},
	{name: "iron_ore", solid: true, fullCube: true},
	{name: "copper_ore", solid: true, fullCube: true},
	{name: "gold_ore", solid: true, fullCube: true},
	{name: "redstone_ore", solid: true, fullCube: true},
	{name: "diamond_ore", solid: true, fullCube: true},
	{name: "lapis_ore", solid: true, fullCube: true},
	{name: "emerald_ore", solid: true, fullCube: true},
	{name: "deepslate_coal_ore", solid: true, fullCube: true},
	{name: "deepslate_iron_ore", solid: true, fullCube: true},
	{name: "deepslate_copper_ore", solid: true, fullCube: true},
	{name: "deepslate_gold_ore", solid: true, fullCube: true},
	{name: "deepslate_redstone_ore", solid: true, fullCube: true},
	{name: "deepslate_diamond_ore", solid: true, fullCube: true},
	{name: "deepslate_lapis_ore", solid: true, fullCube: true},
	{name: "deepslate_emerald_ore", solid: true, fullCube: true},
	{name: "oak_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "oak_logs"}},
	{name: "spruce_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "spruce_logs"}},
	{name: "birch_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "birch_logs"}},
	{name: "jungle_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "jungle_logs"}},
	{name: "acacia_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "acacia_logs"}},
	{name: "dark_oak_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "dark_oak_logs"}},
	{name: "cherry_log", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"logs", "cherry_logs"}},
	{name: "oak_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "spruce_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "birch_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "jungle_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "acacia_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "dark_oak_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "cherry_leaves", solid: true, tags: []string{"leaves", "replaceable_by_trees"}},
	{name: "short_grass", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "tall_grass", replaceable: true, variants: []string{"half=lower", "half=upper"}, tags: []string{"replaceable_by_trees"}},
	{name: "fern", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "dead_bush", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "dandelion", tags: []string{"flowers", "small_flowers"}},
	{name: "poppy", tags: []string{"flowers", "small_flowers"}},
	{name: "blue_orchid", tags: []string{"flowers", "small_flowers"}},
	{name: "vine", replaceable: true, variants: []string{"facing=north", "facing=south", "facing=west", "facing=east", "facing=up"}, tags: []string{"replaceable_by_trees"}},
	{name: "seagrass", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "tall_seagrass", replaceable: true, variants: []string{"half=lower", "half=upper"}},
	{name: "sea_pickle", variants: []string{"pickles=1", "pickles=2", "pickles=3", "pickles=4"}},
	{name: "kelp", replaceable: true},
	{name: "bamboo", solid: true, variants: []string{"leaves=none", "leaves=small", "leaves=large"}},
	{name: "cactus", solid: true},
	{name: "pumpkin", solid: true, fullCube: true},
	{name: "snow", replaceable: true},
	{name: "ice", solid: true, fullCube: true},
	{name: "packed_ice", solid: true, fullCube: true},
	{name: "netherrack", solid: true, fullCube: true, tags: []string{"base_stone_nether"}},
	{name: "basalt", solid: true, fullCube: true, variants: []string{"axis=x", "axis=y", "axis=z"}, tags: []string{"base_stone_nether"}},
	{name: "blackstone", solid: true, fullCube: true},
	{name: "soul_sand", solid: true, fullCube: true},
	{name: "soul_soil", solid: true, fullCube: true},
	{name: "magma_block", solid: true, fullCube: true},
	{name: "nether_quartz_ore", solid: true, fullCube: true},
	{name: "nether_gold_ore", solid: true, fullCube: true},
	{name: "ancient_debris", solid: true, fullCube: true},
	{name: "glowstone", solid: true},
	{name: "crimson_nylium", solid: true, fullCube: true, tags: []string{"nylium"}},
	{name: "warped_nylium", solid: true, fullCube: true, tags: []string{"nylium"}},
	{name: "crimson_fungus", tags: []string{"replaceable_by_trees"}},
	{name: "warped_fungus", tags: []string{"replaceable_by_trees"}},
	{name: "crimson_roots", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "warped_roots", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "nether_sprouts", replaceable: true, tags: []string{"replaceable_by_trees"}},
	{name: "nether_wart_block", solid: true, fullCube: true, tags: []string{"wart_blocks"}},
	{name: "warped_wart_block", solid: true, fullCube: true, tags: []string{"wart_blocks"}},
	{name: "shroomlight", solid: true, fullCube: true},
	{name: "obsidian", solid: true, fullCube: true},
	{name: "mossy_cobblestone", solid: true, fullCube: true},
	{name: "end_stone", solid: true, fullCube: true},
	{name: "terracotta", solid: true, fullCube: true, tags: []string{"terracotta"}},
	{name: "orange_terracotta", solid: true, fullCube: true, tags: []string{"terracotta"}},
	{name: "red_terracotta", solid: true, fullCube: true, tags: []string{"terracotta"}},
	{name: "snow_block", solid: true, fullCube: true},
}

// NewRegistry builds the built-in table.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Block, len(builtin))}
	for _, d := range builtin {
		b := &Block{
			Name:        d.name,
			Air:         d.air,
			Fluid:       d.fluid,
			Solid:       d.solid,
			Replaceable: d.replaceable,
			FullCube:    d.fullCube,
			tags:        make(map[string]struct{}, len(d.tags)),
		}
		for _, t := range d.tags {
			b.tags[t] = struct{}{}
		}
		defState := &State{ID: StateID(len(r.byState)), Block: b}
		b.defaultState = defState
		b.states = append(b.states, defState)
		r.byState = append(r.byState, defState)
		for _, v := range d.variants {
			s := &State{ID: StateID(len(r.byState)), Block: b, Variant: v}
			b.states = append(b.states, s)
			r.byState = append(r.byState, s)
		}
		r.byName[d.name] = b
	}
	r.Air = r.byName["air"].defaultState
	return r
}

// Block resolves a block by name; the "minecraft:" namespace is optional.
func (r *Registry) Block(name string) (*Block, bool) {
	b, ok := r.byName[normalizeName(name)]
	return b, ok
}

// MustBlock resolves a block by name or panics; for built-in tables whose
// names are fixed at compile time.
func (r *Registry) MustBlock(name string) *Block {
	b, ok := r.Block(name)
	if !ok {
		panic(fmt.Sprintf("block: unknown block %q", name))
	}
	return b
}

// State resolves a state id. Unknown ids resolve to air rather than panic,
// mirroring the out-of-range read rule for voxel buffers.
func (r *Registry) State(id StateID) *State {
	if int(id) >= len(r.byState) {
		return r.Air
	}
	return r.byState[id]
}

// StateCount reports the size of the state table.
func (r *Registry) StateCount() int { return len(r.byState) }
