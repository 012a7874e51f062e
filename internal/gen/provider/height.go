package provider

import "chunkforge/internal/rng"

// HeightContext carries the vertical world bounds a Y anchor resolves
// against.
type HeightContext struct {
	MinY   int
	Height int
}

// YOffset anchors a Y value to the world bottom, the world top, or an
// absolute height.
type YOffset struct {
	Anchor AnchorKind
	Offset int
}

type AnchorKind int

const (
	AnchorAbsolute AnchorKind = iota
	AnchorAboveBottom
	AnchorBelowTop
)

func (y YOffset) Resolve(ctx HeightContext) int {
	switch y.Anchor {
	case AnchorAboveBottom:
		return ctx.MinY + y.Offset
	case AnchorBelowTop:
		return ctx.MinY + ctx.Height - 1 - y.Offset
	default:
		return y.Offset
	}
}

// Height samples a world Y coordinate for feature placement.
type Height interface {
	Get(r rng.Source, ctx HeightContext) int
}

// ConstantHeight resolves a single anchored offset.
type ConstantHeight struct {
	Value YOffset
}

func (c ConstantHeight) Get(_ rng.Source, ctx HeightContext) int {
	return c.Value.Resolve(ctx)
}

// UniformHeight draws inclusively between two anchored offsets.
type UniformHeight struct {
	MinInclusive, MaxInclusive YOffset
}

func (u UniformHeight) Get(r rng.Source, ctx HeightContext) int {
	lo := u.MinInclusive.Resolve(ctx)
	hi := u.MaxInclusive.Resolve(ctx)
	if lo > hi {
		return lo
	}
	return int(r.NextInBetween(int32(lo), int32(hi)))
}

// TrapezoidHeight sums two uniform draws to bias toward the middle plateau.
type TrapezoidHeight struct {
	MinInclusive, MaxInclusive YOffset
	Plateau                    int
}

func (t TrapezoidHeight) Get(r rng.Source, ctx HeightContext) int {
	lo := t.MinInclusive.Resolve(ctx)
	hi := t.MaxInclusive.Resolve(ctx)
	if lo > hi {
		return lo
	}
	span := hi - lo
	if t.Plateau >= span {
		return int(r.NextInBetween(int32(lo), int32(hi)))
	}
	ramp := (span - t.Plateau) / 2
	rest := span - ramp
	return lo + int(r.NextBounded(int32(rest+1))) + int(r.NextBounded(int32(ramp+1)))
}

// VeryBiasedToBottomHeight nests two inclusive draws so values crowd hard
// against the bottom of the range.
type VeryBiasedToBottomHeight struct {
	MinInclusive, MaxInclusive YOffset
	Inner                      int // lower bound offset, at least 1
}

func (v VeryBiasedToBottomHeight) Get(r rng.Source, ctx HeightContext) int {
	lo := v.MinInclusive.Resolve(ctx)
	hi := v.MaxInclusive.Resolve(ctx)
	inner := v.Inner
	if inner < 1 {
		inner = 1
	}
	if lo+inner > hi {
		return lo
	}
	mid := int(r.NextInBetween(int32(lo+inner), int32(hi)))
	return int(r.NextInBetween(int32(lo+inner), int32(mid)))
}
