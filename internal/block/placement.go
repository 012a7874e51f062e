package block

import "chunkforge/internal/geom"

// PlacementChecker answers block placement legality. The world owner may
// supply its own rules; VanillaPlacement covers the blocks this generator
// places.
type PlacementChecker interface {
	CanPlaceAt(b *Block, world Accessor, pos geom.Pos) bool
}

// VanillaPlacement implements the support rules for the built-in block set.
type VanillaPlacement struct{}

func (VanillaPlacement) CanPlaceAt(b *Block, world Accessor, pos geom.Pos) bool {
	below := world.StateAt(pos.Down())
	switch b.Name {
	case "short_grass", "tall_grass", "fern", "dandelion", "poppy", "blue_orchid", "pumpkin":
		return below.Block.IsTaggedWith("dirt")
	case "dead_bush":
		return below.Block.IsTaggedWith("dirt") || below.Block.IsTaggedWith("sand") || below.Block.IsTaggedWith("terracotta")
	case "bamboo":
		return below.Block.IsTaggedWith("dirt") || below.Block.IsTaggedWith("sand") || below.Block.Name == "gravel" || below.Block.Name == "bamboo"
	case "cactus":
		return below.Block.IsTaggedWith("sand") || below.Block.Name == "cactus"
	case "seagrass", "tall_seagrass", "kelp", "sea_pickle":
		return below.Block.Solid
	case "crimson_fungus", "warped_fungus", "crimson_roots", "warped_roots", "nether_sprouts":
		return below.Block.IsTaggedWith("nylium") || below.Block.IsTaggedWith("dirt") || below.Block.Name == "soul_soil"
	case "snow":
		return below.Block.Solid && below.Block.FullCube
	}
	// Everything else only needs the target voxel itself, which the caller
	// has already checked.
	return true
}
