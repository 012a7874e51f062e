package tree

import (
	"encoding/json"
	"fmt"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/gen/provider"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// TrunkVineDecorator hangs vines on the trunk sides.
type TrunkVineDecorator struct{}

func (TrunkVineDecorator) Decorate(w *Writer, r rng.Source) {
	vine := w.Ctx.Registry.MustBlock("vine")
	for _, log := range w.Logs {
		for _, d := range geom.Horizontal {
			if r.NextBounded(3) == 0 {
				continue
			}
			pos := log.Offset(d)
			if w.Ctx.Level.StateAt(pos).Block.Air {
				w.Ctx.Level.SetState(pos, vine.StateVariant("facing="+d.Opposite().String()))
			}
		}
	}
}

// LeaveVineDecorator hangs vine trails from the canopy edges.
type LeaveVineDecorator struct {
	Probability float32
}

func (dec LeaveVineDecorator) Decorate(w *Writer, r rng.Source) {
	vine := w.Ctx.Registry.MustBlock("vine")
	for _, leaf := range w.Leaves {
		for _, d := range geom.Horizontal {
			if r.NextFloat32() >= dec.Probability {
				continue
			}
			pos := leaf.Offset(d)
			if !w.Ctx.Level.StateAt(pos).Block.Air {
				continue
			}
			state := vine.StateVariant("facing=" + d.Opposite().String())
			// Trail downward through open air, vanilla-style four blocks.
			cur := pos
			for i := 0; i < 4 && w.Ctx.Level.StateAt(cur).Block.Air; i++ {
				w.Ctx.Level.SetState(cur, state)
				cur = cur.Down()
			}
		}
	}
}

// AttachedToLogsDecorator sticks a provider block onto log faces.
type AttachedToLogsDecorator struct {
	Probability float32
	Provider    provider.BlockState
	Directions  []geom.Direction
}

func (dec AttachedToLogsDecorator) Decorate(w *Writer, r rng.Source) {
	for _, log := range w.Logs {
		for _, d := range dec.Directions {
			if r.NextFloat32() > dec.Probability {
				continue
			}
			pos := log.Offset(d)
			if w.Ctx.Level.StateAt(pos).Block.Air {
				w.Ctx.Level.SetState(pos, dec.Provider.Get(r, pos))
			}
		}
	}
}

// PlaceOnGroundDecorator scatters ground cover in a box around the trunk
// base.
type PlaceOnGroundDecorator struct {
	Tries    int
	Radius   int
	Height   int
	Provider provider.BlockState
}

func (dec PlaceOnGroundDecorator) Decorate(w *Writer, r rng.Source) {
	if len(w.Logs) == 0 {
		return
	}
	base := w.Logs[0]
	for _, log := range w.Logs {
		if log.Y < base.Y {
			base = log
		}
	}
	for i := 0; i < dec.Tries; i++ {
		pos := base.Add(
			int(r.NextBounded(int32(2*dec.Radius+1)))-dec.Radius,
			int(r.NextBounded(int32(dec.Height+1))),
			int(r.NextBounded(int32(2*dec.Radius+1)))-dec.Radius,
		)
		here := w.Ctx.Level.StateAt(pos).Block
		below := w.Ctx.Level.StateAt(pos.Down()).Block
		if here.Air && below.Solid && below.FullCube {
			w.Ctx.Level.SetState(pos, dec.Provider.Get(r, pos))
		}
	}
}

// AlterGroundDecorator swaps the soil under and around the trunk base.
type AlterGroundDecorator struct {
	Provider provider.BlockState
}

func (dec AlterGroundDecorator) Decorate(w *Writer, r rng.Source) {
	if len(w.Logs) == 0 {
		return
	}
	baseY := w.Logs[0].Y
	for _, log := range w.Logs {
		if log.Y < baseY {
			baseY = log.Y
		}
	}
	for _, log := range w.Logs {
		if log.Y != baseY {
			continue
		}
		for dx := -2; dx <= 2; dx++ {
			for dz := -2; dz <= 2; dz++ {
				if absI(dx) == 2 && absI(dz) == 2 && r.NextBounded(3) != 0 {
					continue
				}
				dec.alterColumn(w, r, log.Add(dx, 0, dz))
			}
		}
	}
}

func (dec AlterGroundDecorator) alterColumn(w *Writer, r rng.Source, top geom.Pos) {
	for dy := 2; dy >= -3; dy-- {
		pos := top.Add(0, dy, 0)
		b := w.Ctx.Level.StateAt(pos).Block
		if b.IsTaggedWith("dirt") {
			w.Ctx.Level.SetState(pos, dec.Provider.Get(r, pos))
			return
		}
		if !b.Air && dy < 0 {
			return
		}
	}
}

// noopDecorator covers decorator tags with no world effect here.
type noopDecorator struct{}

func (noopDecorator) Decorate(*Writer, rng.Source) {}

type decoratorJSON struct {
	Type        string          `json:"type"`
	Probability float32         `json:"probability"`
	Provider    json.RawMessage `json:"block_provider"`
	StateProv   json.RawMessage `json:"block_state_provider"`
	Directions  []string        `json:"directions"`
	Tries       int             `json:"tries"`
	Radius      int             `json:"radius"`
	Height      int             `json:"height"`
}

// DecodeDecorator decodes a tagged tree decorator.
func DecodeDecorator(raw json.RawMessage, reg *block.Registry) (Decorator, error) {
	var v decoratorJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("tree: decorator: %w", err)
	}
	switch strings.TrimPrefix(v.Type, "minecraft:") {
	case "trunk_vine":
		return TrunkVineDecorator{}, nil
	case "leave_vine":
		return LeaveVineDecorator{Probability: v.Probability}, nil
	case "attached_to_logs":
		p, err := provider.DecodeBlockState(v.Provider, reg)
		if err != nil {
			return nil, err
		}
		dirs := make([]geom.Direction, 0, len(v.Directions))
		for _, name := range v.Directions {
			d, ok := geom.DirectionByName(name)
			if !ok {
				return nil, fmt.Errorf("tree: unknown direction %q", name)
			}
			dirs = append(dirs, d)
		}
		if len(dirs) == 0 {
			dirs = geom.Horizontal[:]
		}
		return AttachedToLogsDecorator{Probability: v.Probability, Provider: p, Directions: dirs}, nil
	case "place_on_ground":
		p, err := provider.DecodeBlockState(v.StateProv, reg)
		if err != nil {
			return nil, err
		}
		tries := v.Tries
		if tries <= 0 {
			tries = 128
		}
		radius := v.Radius
		if radius <= 0 {
			radius = 2
		}
		return PlaceOnGroundDecorator{Tries: tries, Radius: radius, Height: v.Height, Provider: p}, nil
	case "alter_ground":
		p, err := provider.DecodeBlockState(v.Provider, reg)
		if err != nil {
			return nil, err
		}
		return AlterGroundDecorator{Provider: p}, nil
	case "beehive", "cocoa", "attached_to_leaves":
		return noopDecorator{}, nil
	}
	return nil, fmt.Errorf("tree: unknown decorator %q", v.Type)
}
