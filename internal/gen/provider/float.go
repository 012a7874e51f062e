package provider

import "chunkforge/internal/rng"

// Float produces float parameters. Min is inclusive; Max is exclusive for
// distribution variants and equal to Min for constants.
type Float interface {
	Get(r rng.Source) float32
	Min() float32
	Max() float32
}

// ConstantFloat always returns its value.
type ConstantFloat float32

func (c ConstantFloat) Get(rng.Source) float32 { return float32(c) }
func (c ConstantFloat) Min() float32           { return float32(c) }
func (c ConstantFloat) Max() float32           { return float32(c) }

// UniformFloat draws from the half-open interval [MinInclusive, MaxExclusive).
type UniformFloat struct {
	MinInclusive, MaxExclusive float32
}

func (u UniformFloat) Get(r rng.Source) float32 {
	return u.MinInclusive + r.NextFloat32()*(u.MaxExclusive-u.MinInclusive)
}
func (u UniformFloat) Min() float32 { return u.MinInclusive }
func (u UniformFloat) Max() float32 { return u.MaxExclusive }

// ClampedNormalFloat clamps a gaussian draw.
type ClampedNormalFloat struct {
	Mean, Deviation float32
	MinValue        float32
	MaxValue        float32
}

func (c ClampedNormalFloat) Get(r rng.Source) float32 {
	v := c.Mean + float32(r.NextGaussian())*c.Deviation
	if v < c.MinValue {
		return c.MinValue
	}
	if v > c.MaxValue {
		return c.MaxValue
	}
	return v
}
func (c ClampedNormalFloat) Min() float32 { return c.MinValue }
func (c ClampedNormalFloat) Max() float32 { return c.MaxValue }

// TrapezoidFloat sums two uniform draws whose spans meet at the plateau,
// producing linear ramps on both sides of a uniform middle.
type TrapezoidFloat struct {
	MinValue, MaxValue, Plateau float32
}

func (t TrapezoidFloat) Get(r rng.Source) float32 {
	span := t.MaxValue - t.MinValue
	ramp := (span - t.Plateau) / 2
	rest := span - ramp
	return t.MinValue + r.NextFloat32()*rest + r.NextFloat32()*ramp
}
func (t TrapezoidFloat) Min() float32 { return t.MinValue }
func (t TrapezoidFloat) Max() float32 { return t.MaxValue }
