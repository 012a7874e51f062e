package provider

import (
	"math"

	"chunkforge/internal/rng"
)

// Int produces integer parameters for features. Min and Max are inclusive
// bounds over every possible draw.
type Int interface {
	Get(r rng.Source) int
	Min() int
	Max() int
}

// ConstantInt always returns its value.
type ConstantInt int

func (c ConstantInt) Get(rng.Source) int { return int(c) }
func (c ConstantInt) Min() int           { return int(c) }
func (c ConstantInt) Max() int           { return int(c) }

// UniformInt draws uniformly from [MinInclusive, MaxInclusive].
type UniformInt struct {
	MinInclusive, MaxInclusive int
}

func (u UniformInt) Get(r rng.Source) int {
	return int(r.NextInBetween(int32(u.MinInclusive), int32(u.MaxInclusive)))
}
func (u UniformInt) Min() int { return u.MinInclusive }
func (u UniformInt) Max() int { return u.MaxInclusive }

// BiasedToBottomInt first draws an upper bound uniformly in [1, range+1],
// then draws the value below it, skewing the distribution toward the
// minimum.
type BiasedToBottomInt struct {
	MinInclusive, MaxInclusive int
}

func (b BiasedToBottomInt) Get(r rng.Source) int {
	bound := r.NextBounded(int32(b.MaxInclusive-b.MinInclusive+1)) + 1
	return b.MinInclusive + int(r.NextBounded(bound))
}
func (b BiasedToBottomInt) Min() int { return b.MinInclusive }
func (b BiasedToBottomInt) Max() int { return b.MaxInclusive }

// ClampedInt clamps a source provider's draws.
type ClampedInt struct {
	Source                     Int
	MinInclusive, MaxInclusive int
}

func (c ClampedInt) Get(r rng.Source) int {
	v := c.Source.Get(r)
	if v < c.MinInclusive {
		return c.MinInclusive
	}
	if v > c.MaxInclusive {
		return c.MaxInclusive
	}
	return v
}

func (c ClampedInt) Min() int { return maxInt(c.MinInclusive, c.Source.Min()) }
func (c ClampedInt) Max() int { return minInt(c.MaxInclusive, c.Source.Max()) }

// ClampedNormalInt rounds a clamped gaussian draw.
type ClampedNormalInt struct {
	Mean, Deviation            float64
	MinInclusive, MaxInclusive int
}

func (c ClampedNormalInt) Get(r rng.Source) int {
	v := int(math.Round(c.Mean + r.NextGaussian()*c.Deviation))
	if v < c.MinInclusive {
		return c.MinInclusive
	}
	if v > c.MaxInclusive {
		return c.MaxInclusive
	}
	return v
}
func (c ClampedNormalInt) Min() int { return c.MinInclusive }
func (c ClampedNormalInt) Max() int { return c.MaxInclusive }

// WeightedListInt selects a nested provider by weight, then samples it.
type WeightedListInt struct {
	Pool *Pool[Int]
}

func (w WeightedListInt) Get(r rng.Source) int {
	return w.Pool.Get(r).Get(r)
}

func (w WeightedListInt) Min() int {
	m := math.MaxInt
	for _, e := range w.Pool.Entries() {
		m = minInt(m, e.Data.Min())
	}
	return m
}

func (w WeightedListInt) Max() int {
	m := math.MinInt
	for _, e := range w.Pool.Entries() {
		m = maxInt(m, e.Data.Max())
	}
	return m
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
