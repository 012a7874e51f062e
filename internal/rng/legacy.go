package rng

const (
	lcgMultiplier = 0x5DEECE66D
	lcgIncrement  = 0xB
	lcgMask       = (1 << 48) - 1

	floatUnit  = 1.0 / (1 << 24)
	doubleUnit = 1.0 / (1 << 53)
)

// LegacySource is the 48-bit linear congruential generator. State transitions
// and draw truncation match java.util.Random exactly.
type LegacySource struct {
	seed  int64
	gauss gaussianPair
}

func NewLegacy(seed int64) *LegacySource {
	l := &LegacySource{}
	l.SetSeed(seed)
	return l
}

func (l *LegacySource) SetSeed(seed int64) {
	l.seed = (seed ^ lcgMultiplier) & lcgMask
	l.gauss.has = false
}

func (l *LegacySource) next(bits uint) int32 {
	l.seed = (l.seed*lcgMultiplier + lcgIncrement) & lcgMask
	return int32(l.seed >> (48 - bits))
}

func (l *LegacySource) NextInt32() int32 {
	return l.next(32)
}

func (l *LegacySource) NextBounded(bound int32) int32 {
	if bound <= 0 {
		panic("rng: bound must be positive")
	}
	if bound&(bound-1) == 0 {
		return int32(int64(bound) * int64(l.next(31)) >> 31)
	}
	for {
		i := l.next(31)
		j := i % bound
		if i-j+(bound-1) >= 0 {
			return j
		}
	}
}

func (l *LegacySource) NextInBetween(min, max int32) int32 {
	return min + l.NextBounded(max-min+1)
}

func (l *LegacySource) NextInt64() int64 {
	hi := l.next(32)
	lo := l.next(32)
	return int64(hi)<<32 + int64(lo)
}

func (l *LegacySource) NextBool() bool {
	return l.next(1) != 0
}

func (l *LegacySource) NextFloat32() float32 {
	return float32(l.next(24)) * floatUnit
}

func (l *LegacySource) NextFloat64() float64 {
	hi := int64(l.next(26))
	lo := int64(l.next(27))
	return float64(hi<<27+lo) * doubleUnit
}

func (l *LegacySource) NextGaussian() float64 {
	return l.gauss.sample(l)
}

func (l *LegacySource) NextTriangular(mode, deviation float64) float64 {
	return mode + deviation*(l.NextFloat64()-l.NextFloat64())
}

func (l *LegacySource) Skip(count int) {
	for i := 0; i < count; i++ {
		l.NextInt32()
	}
}

func (l *LegacySource) NextSplitter() Splitter {
	return &legacySplitter{seed: l.NextInt64()}
}

type legacySplitter struct {
	seed int64
}

func (s *legacySplitter) At(x, y, z int) Source {
	return NewLegacy(PositionSeed(x, y, z) ^ s.seed)
}

func (s *legacySplitter) ByHash(name string) Source {
	return NewLegacy(int64(JavaStringHash(name)) ^ s.seed)
}
