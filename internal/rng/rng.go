package rng

import "math"

// Source is a deterministic pseudo-random generator. Both implementations
// (the legacy 48-bit linear generator and Xoroshiro128++) expose the same
// draw vocabulary so generation code never cares which one it holds.
type Source interface {
	SetSeed(seed int64)
	NextInt32() int32
	// NextBounded returns a uniform value in [0, bound). bound must be > 0.
	NextBounded(bound int32) int32
	// NextInBetween returns a uniform value in [min, max] inclusive.
	NextInBetween(min, max int32) int32
	NextInt64() int64
	NextBool() bool
	NextFloat32() float32
	NextFloat64() float64
	NextGaussian() float64
	// NextTriangular samples mode + deviation*(U - U), a triangular
	// distribution centered on mode.
	NextTriangular(mode, deviation float64) float64
	Skip(count int)
	// NextSplitter consumes draws to produce a positional fork factory.
	NextSplitter() Splitter
}

// Splitter derives independent generators from positions or names. Forked
// generators never share state with the parent or with each other.
type Splitter interface {
	At(x, y, z int) Source
	ByHash(name string) Source
}

// gaussianPair caches the second value of a Marsaglia polar draw, matching
// java.util.Random.nextGaussian.
type gaussianPair struct {
	has  bool
	next float64
}

func (g *gaussianPair) sample(s Source) float64 {
	if g.has {
		g.has = false
		return g.next
	}
	for {
		u := 2*s.NextFloat64() - 1
		v := 2*s.NextFloat64() - 1
		d := u*u + v*v
		if d >= 1 || d == 0 {
			continue
		}
		m := math.Sqrt(-2 * math.Log(d) / d)
		g.next = v * m
		g.has = true
		return u * m
	}
}

// PositionSeed hashes a block position into a 64-bit seed. This is the
// reference derivation used by every positional fork; changing it breaks
// world compatibility.
func PositionSeed(x, y, z int) int64 {
	l := int64(x)*3129871 ^ int64(z)*116129781 ^ int64(y)
	l = l*l*42317861 + l*11
	return l >> 16
}

// JavaStringHash reproduces String.hashCode for registry names (ASCII).
func JavaStringHash(s string) int32 {
	var h int32
	for i := 0; i < len(s); i++ {
		h = 31*h + int32(s[i])
	}
	return h
}

// PopulationSeed re-seeds r for chunk decoration: two odd multipliers drawn
// from the world seed are combined with the chunk's block coordinates.
// Returns the derived seed so decorator seeds can be built from it.
func PopulationSeed(r Source, worldSeed int64, blockX, blockZ int) int64 {
	r.SetSeed(worldSeed)
	a := r.NextInt64() | 1
	b := r.NextInt64() | 1
	seed := (int64(blockX)*a + int64(blockZ)*b) ^ worldSeed
	r.SetSeed(seed)
	return seed
}

// DecoratorSeed re-seeds r for one placed feature within a chunk, keyed by
// its registry index and generation step.
func DecoratorSeed(r Source, populationSeed int64, index, step int) {
	r.SetSeed(populationSeed + int64(index) + int64(10000*step))
}
