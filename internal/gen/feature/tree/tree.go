// Package tree implements the tree generation sub-pipeline: a trunk placer
// grows the logs and reports foliage attachment points, a foliage placer
// shapes the canopy around them, and decorators add vines and ground cover
// afterwards.
package tree

import (
	"encoding/json"
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/gen/feature"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// Config is a fully decoded tree feature.
type Config struct {
	TrunkProvider   provider.BlockState
	FoliageProvider provider.BlockState
	DirtProvider    provider.BlockState
	Trunk           TrunkPlacer
	Foliage         FoliagePlacer
	Size            FeatureSize
	Decorators      []Decorator
	IgnoreVines     bool
	ForceDirt       bool
}

// Attachment is a point the canopy grows around, reported by the trunk.
type Attachment struct {
	Pos          geom.Pos
	RadiusOffset int
	DoubleTrunk  bool
}

// TrunkPlacer draws a trunk height and grows the logs.
type TrunkPlacer interface {
	Height(r rng.Source) int
	PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment
}

// FoliagePlacer shapes the canopy around one attachment.
type FoliagePlacer interface {
	FoliageHeight(r rng.Source, trunkHeight int) int
	Radius(r rng.Source) int
	CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int)
	Offset(r rng.Source) int
}

// Decorator runs after trunk and foliage with the placed position lists.
type Decorator interface {
	Decorate(w *Writer, r rng.Source)
}

// Writer tracks tree placement into the level and records what was placed
// for the decorators.
type Writer struct {
	Ctx    *feature.Context
	Cfg    *Config
	Logs   []geom.Pos
	Leaves []geom.Pos
}

// ValidPos reports whether a tree may grow through a position.
func (w *Writer) ValidPos(pos geom.Pos) bool {
	if w.Ctx.OutOfHeight(pos.Y) {
		return false
	}
	b := w.Ctx.Level.StateAt(pos).Block
	if b.Air || b.IsTaggedWith("replaceable_by_trees") {
		return true
	}
	return w.Cfg.IgnoreVines && b.Name == "vine"
}

func (w *Writer) free(pos geom.Pos) bool {
	if w.ValidPos(pos) {
		return true
	}
	return w.Ctx.Level.StateAt(pos).Block.IsTaggedWith("logs")
}

// PlaceLog grows one trunk block if the position admits it.
func (w *Writer) PlaceLog(r rng.Source, pos geom.Pos) bool {
	if !w.ValidPos(pos) {
		return false
	}
	w.Ctx.Level.SetState(pos, w.Cfg.TrunkProvider.Get(r, pos))
	w.Logs = append(w.Logs, pos)
	return true
}

// PlaceLogAxis grows a trunk block oriented along an axis, for branches.
func (w *Writer) PlaceLogAxis(r rng.Source, pos geom.Pos, axis geom.Axis) bool {
	if !w.ValidPos(pos) {
		return false
	}
	s := w.Cfg.TrunkProvider.Get(r, pos)
	if axis != geom.AxisY {
		s = s.Block.StateVariant("axis=" + axis.String())
	}
	w.Ctx.Level.SetState(pos, s)
	w.Logs = append(w.Logs, pos)
	return true
}

// PlaceFoliage sets one canopy block if the position is open.
func (w *Writer) PlaceFoliage(r rng.Source, pos geom.Pos) bool {
	if w.Ctx.OutOfHeight(pos.Y) {
		return false
	}
	b := w.Ctx.Level.StateAt(pos).Block
	if !b.Air && !b.IsTaggedWith("replaceable_by_trees") {
		return false
	}
	w.Ctx.Level.SetState(pos, w.Cfg.FoliageProvider.Get(r, pos))
	w.Leaves = append(w.Leaves, pos)
	return true
}

// SetDirt converts the block below a trunk base to the dirt provider state,
// unless natural soil is already there.
func (w *Writer) SetDirt(r rng.Source, pos geom.Pos) {
	b := w.Ctx.Level.StateAt(pos).Block
	natural := b.IsTaggedWith("dirt") && b.Name != "grass_block" && b.Name != "mycelium"
	if w.Cfg.ForceDirt || !natural {
		w.Ctx.Level.SetState(pos, w.Cfg.DirtProvider.Get(r, pos))
	}
}

// TreeFeature grows one tree at the origin.
type TreeFeature struct {
	Cfg Config
}

func (f TreeFeature) Generate(ctx *feature.Context, r rng.Source, origin geom.Pos) bool {
	w := &Writer{Ctx: ctx, Cfg: &f.Cfg}

	height := f.Cfg.Trunk.Height(r)
	foliageHeight := f.Cfg.Foliage.FoliageHeight(r, height)
	radius := f.Cfg.Foliage.Radius(r)

	if origin.Y < ctx.MinY+1 || origin.Y+height+1 > ctx.TopY() {
		return false
	}
	free := f.maxFreeHeight(w, height, origin)
	if free < height {
		clip := f.Cfg.Size.MinClippedHeight()
		if clip < 0 || free < clip {
			return false
		}
	}

	attachments := f.Cfg.Trunk.PlaceTrunk(w, r, free, origin)
	for _, at := range attachments {
		offset := f.Cfg.Foliage.Offset(r)
		f.Cfg.Foliage.CreateFoliage(w, r, at, foliageHeight, radius, offset)
	}
	if len(w.Logs) == 0 && len(w.Leaves) == 0 {
		return false
	}
	for _, d := range f.Cfg.Decorators {
		d.Decorate(w, r)
	}
	return true
}

// maxFreeHeight probes upward from the origin; a blocked layer caps the
// usable trunk two below it.
func (f TreeFeature) maxFreeHeight(w *Writer, height int, origin geom.Pos) int {
	for y := 0; y <= height+1; y++ {
		radius := f.Cfg.Size.SizeAtHeight(y, height)
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if !w.free(origin.Add(dx, y, dz)) {
					return y - 2
				}
			}
		}
	}
	return height
}

type treeJSON struct {
	TrunkProvider   json.RawMessage   `json:"trunk_provider"`
	FoliageProvider json.RawMessage   `json:"foliage_provider"`
	DirtProvider    json.RawMessage   `json:"dirt_provider"`
	TrunkPlacer     json.RawMessage   `json:"trunk_placer"`
	FoliagePlacer   json.RawMessage   `json:"foliage_placer"`
	MinimumSize     json.RawMessage   `json:"minimum_size"`
	Decorators      []json.RawMessage `json:"decorators"`
	IgnoreVines     bool              `json:"ignore_vines"`
	ForceDirt       bool              `json:"force_dirt"`
}

func decodeTree(cfg json.RawMessage, reg *block.Registry) (feature.Feature, error) {
	var v treeJSON
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	trunkProvider, err := provider.DecodeBlockState(v.TrunkProvider, reg)
	if err != nil {
		return nil, err
	}
	foliageProvider, err := provider.DecodeBlockState(v.FoliageProvider, reg)
	if err != nil {
		return nil, err
	}
	dirtProvider := provider.BlockState(provider.SimpleState{State: reg.MustBlock("dirt").DefaultState()})
	if len(v.DirtProvider) > 0 {
		dirtProvider, err = provider.DecodeBlockState(v.DirtProvider, reg)
		if err != nil {
			return nil, err
		}
	}
	trunk, err := DecodeTrunkPlacer(v.TrunkPlacer)
	if err != nil {
		return nil, err
	}
	foliage, err := DecodeFoliagePlacer(v.FoliagePlacer)
	if err != nil {
		return nil, err
	}
	size, err := DecodeSize(v.MinimumSize)
	if err != nil {
		return nil, err
	}
	decorators := make([]Decorator, 0, len(v.Decorators))
	for _, d := range v.Decorators {
		dec, err := DecodeDecorator(d, reg)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, dec)
	}
	return TreeFeature{Cfg: Config{
		TrunkProvider:   trunkProvider,
		FoliageProvider: foliageProvider,
		DirtProvider:    dirtProvider,
		Trunk:           trunk,
		Foliage:         foliage,
		Size:            size,
		Decorators:      decorators,
		IgnoreVines:     v.IgnoreVines,
		ForceDirt:       v.ForceDirt,
	}}, nil
}

func init() {
	feature.RegisterDecoder("tree", decodeTree)
}
