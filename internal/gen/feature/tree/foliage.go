package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// foliageBase carries the radius and vertical offset providers shared by all
// canopy shapes.
type foliageBase struct {
	RadiusProvider provider.Int
	OffsetProvider provider.Int
}

func (b foliageBase) Radius(r rng.Source) int { return b.RadiusProvider.Get(r) }
func (b foliageBase) Offset(r rng.Source) int { return b.OffsetProvider.Get(r) }

// skipFunc decides whether one canopy cell stays empty, shaping the edges.
type skipFunc func(r rng.Source, dx, y, dz, radius int, giant bool) bool

// placeLeavesRow fills one square canopy layer, using the skip function to
// carve the silhouette. A double trunk widens the row by one on the positive
// sides.
func placeLeavesRow(w *Writer, r rng.Source, center geom.Pos, radius, y int, giant bool, skip skipFunc) {
	extra := 0
	if giant {
		extra = 1
	}
	for dx := -radius; dx <= radius+extra; dx++ {
		for dz := -radius; dz <= radius+extra; dz++ {
			ax, az := dx, dz
			if giant {
				ax = minAbs(dx, dx-1)
				az = minAbs(dz, dz-1)
			} else {
				ax = absI(dx)
				az = absI(dz)
			}
			if skip(r, ax, y, az, radius, giant) {
				continue
			}
			w.PlaceFoliage(r, center.Add(dx, y, dz))
		}
	}
}

func absI(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minAbs(a, b int) int {
	aa, ab := absI(a), absI(b)
	if aa < ab {
		return aa
	}
	return ab
}

// BlobFoliage is the round oak canopy.
type BlobFoliage struct {
	foliageBase
	Height int
}

func (f BlobFoliage) FoliageHeight(rng.Source, int) int { return f.Height }

func (f BlobFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	for y := offset; y >= offset-foliageHeight; y-- {
		rowRadius := radius + at.RadiusOffset - 1 - y/2
		if rowRadius < 0 {
			rowRadius = 0
		}
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, blobSkip)
	}
}

func blobSkip(r rng.Source, dx, y, dz, radius int, _ bool) bool {
	return dx == radius && dz == radius && (r.NextBounded(2) == 0 || y == 0)
}

// BushFoliage is a squat blob used by ground bushes.
type BushFoliage struct {
	foliageBase
	Height int
}

func (f BushFoliage) FoliageHeight(rng.Source, int) int { return f.Height }

func (f BushFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	for y := offset; y >= offset-foliageHeight; y-- {
		rowRadius := radius + at.RadiusOffset - 1 - y
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, bushSkip)
	}
}

func bushSkip(r rng.Source, dx, _, dz, radius int, _ bool) bool {
	return dx == radius && dz == radius && r.NextBounded(2) == 0
}

// SpruceFoliage rings the trunk with pulsing radii.
type SpruceFoliage struct {
	foliageBase
	TrunkHeight provider.Int
}

func (f SpruceFoliage) FoliageHeight(r rng.Source, trunkHeight int) int {
	h := trunkHeight - f.TrunkHeight.Get(r)
	if h < 4 {
		h = 4
	}
	return h
}

func (f SpruceFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	rowRadius := int(r.NextBounded(2))
	next := 1
	reset := 0
	for y := offset; y >= -foliageHeight; y-- {
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, spruceSkip)
		if rowRadius >= next {
			rowRadius = reset
			reset = 1
			next = minI(next+1, radius+at.RadiusOffset)
		} else {
			rowRadius++
		}
	}
}

func spruceSkip(_ rng.Source, dx, _, dz, radius int, _ bool) bool {
	return dx == radius && dz == radius && radius > 0
}

// PineFoliage is a cone that widens downward.
type PineFoliage struct {
	foliageBase
	HeightProvider provider.Int
}

func (f PineFoliage) FoliageHeight(r rng.Source, _ int) int { return f.HeightProvider.Get(r) }

func (f PineFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	rowRadius := 0
	for y := offset; y >= offset-foliageHeight; y-- {
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, spruceSkip)
		if rowRadius >= 1 && y == offset-foliageHeight+1 {
			rowRadius--
		} else if rowRadius < radius+at.RadiusOffset {
			rowRadius++
		}
	}
}

// JungleFoliage drapes wide round layers below the attachment.
type JungleFoliage struct {
	foliageBase
	Height int
}

func (f JungleFoliage) FoliageHeight(rng.Source, int) int { return f.Height }

func (f JungleFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	depth := 1 + int(r.NextBounded(2))
	if at.DoubleTrunk {
		depth = foliageHeight
	}
	for y := offset; y >= offset-depth; y-- {
		rowRadius := radius + at.RadiusOffset + 1 - y
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, jungleSkip)
	}
}

func jungleSkip(_ rng.Source, dx, _, dz, radius int, _ bool) bool {
	if dx+dz >= 7 {
		return true
	}
	return dx*dx+dz*dz > radius*radius
}

// AcaciaFoliage is the flat umbrella canopy.
type AcaciaFoliage struct {
	foliageBase
}

func (AcaciaFoliage) FoliageHeight(rng.Source, int) int { return 0 }

func (f AcaciaFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, _, radius, offset int) {
	top := at.Pos.Add(0, offset, 0)
	placeLeavesRow(w, r, top, radius+at.RadiusOffset, -1, at.DoubleTrunk, acaciaSkip)
	placeLeavesRow(w, r, top, radius+at.RadiusOffset-1, 0, at.DoubleTrunk, acaciaSkip)
}

func acaciaSkip(_ rng.Source, dx, y, dz, radius int, _ bool) bool {
	if y == 0 {
		return (dx > 1 || dz > 1) && dx != 0 && dz != 0
	}
	return dx == radius && dz == radius && radius > 0
}

// DarkOakFoliage is the broad two-to-four layer canopy over a double trunk.
type DarkOakFoliage struct {
	foliageBase
}

func (DarkOakFoliage) FoliageHeight(rng.Source, int) int { return 4 }

func (f DarkOakFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, _, radius, offset int) {
	top := at.Pos.Add(0, offset, 0)
	if at.DoubleTrunk {
		placeLeavesRow(w, r, top, radius+2, -1, true, darkOakSkip)
		placeLeavesRow(w, r, top, radius+3, 0, true, darkOakSkip)
		placeLeavesRow(w, r, top, radius+2, 1, true, darkOakSkip)
		if r.NextBool() {
			placeLeavesRow(w, r, top, radius, 2, true, darkOakSkip)
		}
	} else {
		placeLeavesRow(w, r, top, radius+2, -1, false, darkOakSkip)
		placeLeavesRow(w, r, top, radius+1, 0, false, darkOakSkip)
	}
}

func darkOakSkip(_ rng.Source, dx, y, dz, radius int, giant bool) bool {
	if y == 0 && giant && dx == radius && dz == radius {
		return true
	}
	if y == 2 {
		return dx+dz > 2*radius-2
	}
	return false
}

// MegaPineFoliage is the tall tapering crown of giant spruces.
type MegaPineFoliage struct {
	foliageBase
	CrownHeight provider.Int
}

func (f MegaPineFoliage) FoliageHeight(r rng.Source, _ int) int { return f.CrownHeight.Get(r) }

func (f MegaPineFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	for y := offset; y >= offset-foliageHeight; y-- {
		depth := offset - y
		rowRadius := radius + at.RadiusOffset + int(math.Floor(float64(depth)/float64(foliageHeight)*3.5))
		if depth > 0 && rowRadius > 0 && (at.Pos.Y+y)%2 == 0 {
			rowRadius++
		}
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, jungleSkip)
	}
}

// RandomSpreadFoliage sprays leaves randomly inside a box, for azaleas.
type RandomSpreadFoliage struct {
	foliageBase
	FoliageHeightProvider provider.Int
	LeafPlacementAttempts int
}

func (f RandomSpreadFoliage) FoliageHeight(r rng.Source, _ int) int {
	return f.FoliageHeightProvider.Get(r)
}

func (f RandomSpreadFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	center := at.Pos.Add(0, offset, 0)
	for i := 0; i < f.LeafPlacementAttempts; i++ {
		pos := center.Add(
			int(r.NextBounded(int32(radius+1)))-int(r.NextBounded(int32(radius+1))),
			int(r.NextBounded(int32(foliageHeight+1)))-int(r.NextBounded(int32(foliageHeight+1))),
			int(r.NextBounded(int32(radius+1)))-int(r.NextBounded(int32(radius+1))),
		)
		w.PlaceFoliage(r, pos)
	}
}

// CherryFoliage is the wide drooping cherry canopy: two trimmed layers on
// top, full-radius rows through the middle, and a narrowed skirt at the
// bottom.
type CherryFoliage struct {
	foliageBase
	HeightProvider               provider.Int
	WideBottomLayerHoleChance    float32
	CornerHoleChance             float32
	HangingLeavesChance          float32
	HangingLeavesExtensionChance float32
}

func (f CherryFoliage) FoliageHeight(r rng.Source, _ int) int { return f.HeightProvider.Get(r) }

func (f CherryFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	top := at.Pos.Add(0, offset, 0)
	rowRadius := radius + at.RadiusOffset - 1
	placeLeavesRow(w, r, top, rowRadius-2, foliageHeight-3, at.DoubleTrunk, f.skip)
	placeLeavesRow(w, r, top, rowRadius-1, foliageHeight-4, at.DoubleTrunk, f.skip)
	for y := foliageHeight - 5; y < 0; y++ {
		placeLeavesRow(w, r, top, rowRadius, y, at.DoubleTrunk, f.skip)
	}
	// TODO: hang leaves below the bottom two rows per hanging_leaves_chance.
	placeLeavesRow(w, r, top, rowRadius, -1, at.DoubleTrunk, f.skip)
	placeLeavesRow(w, r, top, rowRadius-1, -2, at.DoubleTrunk, f.skip)
}

// skip trims the square rows into the cherry silhouette: random holes along
// the wide bottom layer's rim and clipped corners everywhere else.
func (f CherryFoliage) skip(r rng.Source, dx, y, dz, radius int, _ bool) bool {
	if y == -1 && (dx == radius || dz == radius) && r.NextFloat32() < f.WideBottomLayerHoleChance {
		return true
	}
	corner := dx == radius && dz == radius
	if radius > 2 {
		return corner || (dx+dz > radius*2-2 && r.NextFloat32() < f.CornerHoleChance)
	}
	return corner && r.NextFloat32() < f.CornerHoleChance
}

// FancyFoliage is the large-oak canopy ball around each limb tip.
type FancyFoliage struct {
	foliageBase
	Height int
}

func (f FancyFoliage) FoliageHeight(rng.Source, int) int { return f.Height }

func (f FancyFoliage) CreateFoliage(w *Writer, r rng.Source, at Attachment, foliageHeight, radius, offset int) {
	for y := offset; y >= offset-foliageHeight; y-- {
		rowRadius := radius
		if y != offset && y != offset-foliageHeight {
			rowRadius++
		}
		placeLeavesRow(w, r, at.Pos, rowRadius, y, at.DoubleTrunk, fancySkip)
	}
}

func fancySkip(_ rng.Source, dx, _, dz, radius int, _ bool) bool {
	fx := float64(dx) + 0.5
	fz := float64(dz) + 0.5
	return fx*fx+fz*fz > float64(radius*radius)
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type foliageJSON struct {
	Type   string          `json:"type"`
	Radius json.RawMessage `json:"radius"`
	Offset json.RawMessage `json:"offset"`

	Height                json.RawMessage `json:"height"`
	TrunkHeight           json.RawMessage `json:"trunk_height"`
	CrownHeight           json.RawMessage `json:"crown_height"`
	FoliageHeight         json.RawMessage `json:"foliage_height"`
	LeafPlacementAttempts int             `json:"leaf_placement_attempts"`

	WideBottomLayerHoleChance    float32 `json:"wide_bottom_layer_hole_chance"`
	CornerHoleChance             float32 `json:"corner_hole_chance"`
	HangingLeavesChance          float32 `json:"hanging_leaves_chance"`
	HangingLeavesExtensionChance float32 `json:"hanging_leaves_extension_chance"`
}

func intOrConstant(raw json.RawMessage, def int) (provider.Int, error) {
	if len(raw) == 0 {
		return provider.ConstantInt(def), nil
	}
	return provider.DecodeInt(raw)
}

func fixedInt(raw json.RawMessage, def int) (int, error) {
	if len(raw) == 0 {
		return def, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// DecodeFoliagePlacer decodes a tagged foliage placer.
func DecodeFoliagePlacer(raw json.RawMessage) (FoliagePlacer, error) {
	var v foliageJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("tree: foliage placer: %w", err)
	}
	radius, err := intOrConstant(v.Radius, 2)
	if err != nil {
		return nil, err
	}
	offset, err := intOrConstant(v.Offset, 0)
	if err != nil {
		return nil, err
	}
	base := foliageBase{RadiusProvider: radius, OffsetProvider: offset}

	switch strings.TrimPrefix(v.Type, "minecraft:") {
	case "blob_foliage_placer":
		h, err := fixedInt(v.Height, 3)
		if err != nil {
			return nil, err
		}
		return BlobFoliage{foliageBase: base, Height: h}, nil
	case "bush_foliage_placer":
		h, err := fixedInt(v.Height, 2)
		if err != nil {
			return nil, err
		}
		return BushFoliage{foliageBase: base, Height: h}, nil
	case "spruce_foliage_placer":
		th, err := intOrConstant(v.TrunkHeight, 1)
		if err != nil {
			return nil, err
		}
		return SpruceFoliage{foliageBase: base, TrunkHeight: th}, nil
	case "pine_foliage_placer":
		h, err := intOrConstant(v.Height, 3)
		if err != nil {
			return nil, err
		}
		return PineFoliage{foliageBase: base, HeightProvider: h}, nil
	case "jungle_foliage_placer":
		h, err := fixedInt(v.Height, 2)
		if err != nil {
			return nil, err
		}
		return JungleFoliage{foliageBase: base, Height: h}, nil
	case "acacia_foliage_placer":
		return AcaciaFoliage{foliageBase: base}, nil
	case "dark_oak_foliage_placer":
		return DarkOakFoliage{foliageBase: base}, nil
	case "mega_pine_foliage_placer":
		ch, err := intOrConstant(v.CrownHeight, 13)
		if err != nil {
			return nil, err
		}
		return MegaPineFoliage{foliageBase: base, CrownHeight: ch}, nil
	case "random_spread_foliage_placer":
		fh, err := intOrConstant(v.FoliageHeight, 2)
		if err != nil {
			return nil, err
		}
		attempts := v.LeafPlacementAttempts
		if attempts <= 0 {
			attempts = 50
		}
		return RandomSpreadFoliage{foliageBase: base, FoliageHeightProvider: fh, LeafPlacementAttempts: attempts}, nil
	case "fancy_foliage_placer":
		h, err := fixedInt(v.Height, 4)
		if err != nil {
			return nil, err
		}
		return FancyFoliage{foliageBase: base, Height: h}, nil
	case "cherry_foliage_placer":
		h, err := intOrConstant(v.Height, 5)
		if err != nil {
			return nil, err
		}
		return CherryFoliage{
			foliageBase:                  base,
			HeightProvider:               h,
			WideBottomLayerHoleChance:    v.WideBottomLayerHoleChance,
			CornerHoleChance:             v.CornerHoleChance,
			HangingLeavesChance:          v.HangingLeavesChance,
			HangingLeavesExtensionChance: v.HangingLeavesExtensionChance,
		}, nil
	}
	return nil, fmt.Errorf("tree: unknown foliage placer %q", v.Type)
}
