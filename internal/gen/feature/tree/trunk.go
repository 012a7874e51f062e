package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// trunkBase carries the three height fields every trunk placer shares. The
// drawn height is base plus two independent bounded extras.
type trunkBase struct {
	BaseHeight  int
	HeightRandA int
	HeightRandB int
}

func (b trunkBase) Height(r rng.Source) int {
	return b.BaseHeight + int(r.NextBounded(int32(b.HeightRandA+1))) + int(r.NextBounded(int32(b.HeightRandB+1)))
}

// StraightTrunk is the plain single-column trunk.
type StraightTrunk struct {
	trunkBase
}

func (t StraightTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	w.SetDirt(r, origin.Down())
	for i := 0; i < height; i++ {
		w.PlaceLog(r, origin.Add(0, i, 0))
	}
	return []Attachment{{Pos: origin.Add(0, height, 0)}}
}

// GiantTrunk is the 2x2 column used by mega conifers.
type GiantTrunk struct {
	trunkBase
}

func (t GiantTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	t.placeColumns(w, r, height, origin)
	return []Attachment{{Pos: origin.Add(0, height, 0), DoubleTrunk: true}}
}

func (t GiantTrunk) placeColumns(w *Writer, r rng.Source, height int, origin geom.Pos) {
	below := origin.Down()
	w.SetDirt(r, below)
	w.SetDirt(r, below.Add(1, 0, 0))
	w.SetDirt(r, below.Add(0, 0, 1))
	w.SetDirt(r, below.Add(1, 0, 1))
	for i := 0; i < height; i++ {
		w.PlaceLog(r, origin.Add(0, i, 0))
		w.PlaceLog(r, origin.Add(1, i, 0))
		w.PlaceLog(r, origin.Add(0, i, 1))
		w.PlaceLog(r, origin.Add(1, i, 1))
	}
}

// MegaJungleTrunk is a giant trunk with outward branches along the upper
// half.
type MegaJungleTrunk struct {
	GiantTrunk
}

func (t MegaJungleTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	attachments := t.GiantTrunk.PlaceTrunk(w, r, height, origin)
	for i := height - 2 - int(r.NextBounded(4)); i > height/2; i -= 2 + int(r.NextBounded(4)) {
		angle := float64(r.NextFloat32()) * 2 * math.Pi
		dx, dz := 0, 0
		for step := 0; step < 5; step++ {
			dx = int(1.5 + math.Cos(angle)*float64(step))
			dz = int(1.5 + math.Sin(angle)*float64(step))
			w.PlaceLog(r, origin.Add(dx, i-3+step/2, dz))
		}
		attachments = append(attachments, Attachment{Pos: origin.Add(dx, i, dz), RadiusOffset: -2})
	}
	return attachments
}

// DarkOakTrunk is a 2x2 trunk that drifts sideways near the top and sprouts
// corner branches.
type DarkOakTrunk struct {
	trunkBase
}

func (t DarkOakTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	below := origin.Down()
	w.SetDirt(r, below)
	w.SetDirt(r, below.Add(1, 0, 0))
	w.SetDirt(r, below.Add(0, 0, 1))
	w.SetDirt(r, below.Add(1, 0, 1))

	dir := geom.Horizontal[r.NextBounded(4)]
	driftStart := height - int(r.NextBounded(4))
	driftLeft := 2 - int(r.NextBounded(3))
	x, z := origin.X, origin.Z
	topY := origin.Y

	for i := 0; i < height; i++ {
		y := origin.Y + i
		if i >= driftStart && driftLeft > 0 {
			x += dir.Offset().X
			z += dir.Offset().Z
			driftLeft--
		}
		w.PlaceLog(r, geom.Pos{X: x, Y: y, Z: z})
		w.PlaceLog(r, geom.Pos{X: x + 1, Y: y, Z: z})
		w.PlaceLog(r, geom.Pos{X: x, Y: y, Z: z + 1})
		w.PlaceLog(r, geom.Pos{X: x + 1, Y: y, Z: z + 1})
		topY = y + 1
	}
	attachments := []Attachment{{Pos: geom.Pos{X: x, Y: topY, Z: z}, RadiusOffset: 1, DoubleTrunk: true}}

	for dx := -1; dx <= 2; dx++ {
		for dz := -1; dz <= 2; dz++ {
			if dx >= 0 && dx <= 1 && dz >= 0 && dz <= 1 {
				continue
			}
			if r.NextBounded(3) > 0 {
				continue
			}
			length := int(r.NextBounded(3)) + 2
			for i := 0; i < length; i++ {
				w.PlaceLog(r, geom.Pos{X: origin.X + dx, Y: topY - i - 1, Z: origin.Z + dz})
			}
			attachments = append(attachments, Attachment{Pos: geom.Pos{X: x + dx, Y: topY, Z: z + dz}})
		}
	}
	return attachments
}

// FancyTrunk is the large oak: a central column with limbs reaching out to
// scattered canopy centers.
type FancyTrunk struct {
	trunkBase
}

func (t FancyTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	total := height + 2
	trunkHeight := int(math.Floor(float64(total) * 0.618))
	w.SetDirt(r, origin.Down())

	branchCount := int(1.382 + math.Pow(float64(total)/13.0, 2))
	if branchCount < 1 {
		branchCount = 1
	}
	topY := origin.Y + trunkHeight

	type canopy struct {
		pos  geom.Pos
		base int
	}
	canopies := []canopy{{pos: origin.Add(0, total-5, 0), base: topY}}

	for n := total - 5; n >= 0; n-- {
		spread := t.treeShape(total, n)
		if spread < 0 {
			continue
		}
		for b := 0; b < branchCount; b++ {
			reach := spread * (float64(r.NextFloat32()) + 0.328)
			angle := float64(r.NextFloat32()) * 2 * math.Pi
			tip := origin.Add(
				int(math.Floor(reach*math.Sin(angle)+0.5)),
				n-1,
				int(math.Floor(reach*math.Cos(angle)+0.5)),
			)
			if t.limbClear(w, tip, tip.Add(0, 5, 0)) {
				dx := origin.X - tip.X
				dz := origin.Z - tip.Z
				baseY := float64(tip.Y) - math.Sqrt(float64(dx*dx+dz*dz))*0.381
				base := int(baseY)
				if baseY > float64(topY) {
					base = topY
				}
				anchor := geom.Pos{X: origin.X, Y: base, Z: origin.Z}
				if t.limbClear(w, anchor, tip) {
					canopies = append(canopies, canopy{pos: tip, base: base})
				}
			}
		}
	}

	t.makeLimb(w, r, origin, origin.Add(0, trunkHeight, 0))
	for _, c := range canopies {
		if float64(c.base-origin.Y) >= float64(total)*0.2 {
			t.makeLimb(w, r, geom.Pos{X: origin.X, Y: c.base, Z: origin.Z}, c.pos)
		}
	}

	attachments := make([]Attachment, 0, len(canopies))
	for _, c := range canopies {
		if float64(c.pos.Y-origin.Y) >= float64(total)*0.2 {
			attachments = append(attachments, Attachment{Pos: c.pos})
		}
	}
	return attachments
}

func (t FancyTrunk) treeShape(total, y int) float64 {
	if float64(y) < float64(total)*0.3 {
		return -1
	}
	half := float64(total) / 2.0
	d := half - float64(y)
	spread := math.Sqrt(half*half - d*d)
	if d == 0 {
		spread = half
	} else if math.Abs(d) >= half {
		return 0
	}
	return spread * 0.5
}

// limbStep walks the dominant-axis line between two points.
func limbSteps(from, to geom.Pos) (int, mgl64.Vec3) {
	delta := mgl64.Vec3{float64(to.X - from.X), float64(to.Y - from.Y), float64(to.Z - from.Z)}
	steps := int(math.Max(math.Abs(delta.X()), math.Max(math.Abs(delta.Y()), math.Abs(delta.Z()))))
	if steps == 0 {
		return 0, mgl64.Vec3{}
	}
	return steps, delta.Mul(1 / float64(steps))
}

func limbAt(from geom.Pos, dir mgl64.Vec3, i int) geom.Pos {
	return geom.Pos{
		X: from.X + int(0.5+float64(i)*dir.X()),
		Y: from.Y + int(0.5+float64(i)*dir.Y()),
		Z: from.Z + int(0.5+float64(i)*dir.Z()),
	}
}

func (t FancyTrunk) limbClear(w *Writer, from, to geom.Pos) bool {
	steps, dir := limbSteps(from, to)
	for i := 0; i <= steps; i++ {
		if !w.ValidPos(limbAt(from, dir, i)) {
			return false
		}
	}
	return true
}

func (t FancyTrunk) makeLimb(w *Writer, r rng.Source, from, to geom.Pos) {
	steps, dir := limbSteps(from, to)
	axis := geom.AxisY
	adx := math.Abs(float64(to.X - from.X))
	adz := math.Abs(float64(to.Z - from.Z))
	ady := math.Abs(float64(to.Y - from.Y))
	if adx > ady || adz > ady {
		if adx >= adz {
			axis = geom.AxisX
		} else {
			axis = geom.AxisZ
		}
	}
	for i := 0; i <= steps; i++ {
		w.PlaceLogAxis(r, limbAt(from, dir, i), axis)
	}
}

// BendingTrunk rises vertically, then bends horizontally. Attachments appear
// along the whole upper run, giving the azalea-style canopy.
type BendingTrunk struct {
	trunkBase
	MinHeightForLeaves int
	BendLength         provider.Int
}

func (t BendingTrunk) PlaceTrunk(w *Writer, r rng.Source, height int, origin geom.Pos) []Attachment {
	rise := height - 1
	w.SetDirt(r, origin.Down())
	dir := geom.Horizontal[r.NextBounded(4)]
	bend := t.BendLength.Get(r)

	var attachments []Attachment
	cur := origin
	for i := 0; i <= rise; i++ {
		w.PlaceLog(r, cur)
		if i >= t.MinHeightForLeaves {
			attachments = append(attachments, Attachment{Pos: cur})
		}
		cur = cur.Up()
	}
	cur = cur.Down().Offset(dir)
	for i := 0; i < bend; i++ {
		w.PlaceLog(r, cur)
		attachments = append(attachments, Attachment{Pos: cur})
		cur = cur.Offset(dir)
	}
	return attachments
}

// stubTrunk draws a height but never grows; these trunk shapes are not
// supported yet and their trees come out empty.
//
// TODO: implement forking, upwards-branching, and cherry trunk shapes.
type stubTrunk struct {
	trunkBase
}

func (t stubTrunk) PlaceTrunk(*Writer, rng.Source, int, geom.Pos) []Attachment { return nil }

type trunkJSON struct {
	Type        string `json:"type"`
	BaseHeight  int    `json:"base_height"`
	HeightRandA int    `json:"height_rand_a"`
	HeightRandB int    `json:"height_rand_b"`

	MinHeightForLeaves int             `json:"min_height_for_leaves"`
	BendLength         json.RawMessage `json:"bend_length"`
}

// DecodeTrunkPlacer decodes a tagged trunk placer.
func DecodeTrunkPlacer(raw json.RawMessage) (TrunkPlacer, error) {
	var v trunkJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("tree: trunk placer: %w", err)
	}
	base := trunkBase{BaseHeight: v.BaseHeight, HeightRandA: v.HeightRandA, HeightRandB: v.HeightRandB}
	switch strings.TrimPrefix(v.Type, "minecraft:") {
	case "straight_trunk_placer":
		return StraightTrunk{base}, nil
	case "giant_trunk_placer":
		return GiantTrunk{base}, nil
	case "mega_jungle_trunk_placer":
		return MegaJungleTrunk{GiantTrunk{base}}, nil
	case "dark_oak_trunk_placer":
		return DarkOakTrunk{base}, nil
	case "fancy_trunk_placer":
		return FancyTrunk{base}, nil
	case "bending_trunk_placer":
		minLeaves := v.MinHeightForLeaves
		if minLeaves == 0 {
			minLeaves = 1
		}
		bend := provider.Int(provider.ConstantInt(1))
		if len(v.BendLength) > 0 {
			var err error
			bend, err = provider.DecodeInt(v.BendLength)
			if err != nil {
				return nil, err
			}
		}
		return BendingTrunk{trunkBase: base, MinHeightForLeaves: minLeaves, BendLength: bend}, nil
	case "forking_trunk_placer", "upwards_branching_trunk_placer", "cherry_trunk_placer":
		return stubTrunk{base}, nil
	}
	return nil, fmt.Errorf("tree: unknown trunk placer %q", v.Type)
}
