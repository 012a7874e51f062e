package rng

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
)

const (
	silverRatio = 0x6A09E667F3BCC909
	goldenRatio = 0x9E3779B97F4A7C15
)

// XoroshiroSource is the Xoroshiro128++ generator used by modern worlds.
type XoroshiroSource struct {
	lo, hi uint64
	gauss  gaussianPair
}

// mixStafford13 is the finalizer applied to both halves of the seed.
func mixStafford13(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func NewXoroshiro(seed int64) *XoroshiroSource {
	x := &XoroshiroSource{}
	x.SetSeed(seed)
	return x
}

// NewXoroshiroPair constructs from raw state words. An all-zero state is
// replaced with fixed constants since Xoroshiro cannot escape it.
func NewXoroshiroPair(lo, hi uint64) *XoroshiroSource {
	if lo|hi == 0 {
		lo = goldenRatio
		hi = silverRatio
	}
	return &XoroshiroSource{lo: lo, hi: hi}
}

func (x *XoroshiroSource) SetSeed(seed int64) {
	lo := uint64(seed) ^ silverRatio
	hi := lo + goldenRatio
	x.lo = mixStafford13(lo)
	x.hi = mixStafford13(hi)
	x.gauss.has = false
}

func (x *XoroshiroSource) next() uint64 {
	lo, hi := x.lo, x.hi
	result := bits.RotateLeft64(lo+hi, 17) + lo
	hi ^= lo
	x.lo = bits.RotateLeft64(lo, 49) ^ hi ^ (hi << 21)
	x.hi = bits.RotateLeft64(hi, 28)
	return result
}

func (x *XoroshiroSource) NextInt32() int32 {
	return int32(x.next())
}

func (x *XoroshiroSource) NextBounded(bound int32) int32 {
	if bound <= 0 {
		panic("rng: bound must be positive")
	}
	product := uint64(uint32(x.NextInt32())) * uint64(bound)
	low := uint32(product)
	if low < uint32(bound) {
		threshold := uint32(-bound) % uint32(bound)
		for low < threshold {
			product = uint64(uint32(x.NextInt32())) * uint64(bound)
			low = uint32(product)
		}
	}
	return int32(product >> 32)
}

func (x *XoroshiroSource) NextInBetween(min, max int32) int32 {
	return min + x.NextBounded(max-min+1)
}

func (x *XoroshiroSource) NextInt64() int64 {
	return int64(x.next())
}

func (x *XoroshiroSource) NextBool() bool {
	return x.next()&1 != 0
}

func (x *XoroshiroSource) NextFloat32() float32 {
	return float32(x.next()>>40) * floatUnit
}

func (x *XoroshiroSource) NextFloat64() float64 {
	return float64(x.next()>>11) * doubleUnit
}

func (x *XoroshiroSource) NextGaussian() float64 {
	return x.gauss.sample(x)
}

func (x *XoroshiroSource) NextTriangular(mode, deviation float64) float64 {
	return mode + deviation*(x.NextFloat64()-x.NextFloat64())
}

func (x *XoroshiroSource) Skip(count int) {
	for i := 0; i < count; i++ {
		x.next()
	}
}

func (x *XoroshiroSource) NextSplitter() Splitter {
	return &xoroshiroSplitter{lo: x.next(), hi: x.next()}
}

type xoroshiroSplitter struct {
	lo, hi uint64
}

func (s *xoroshiroSplitter) At(x, y, z int) Source {
	return NewXoroshiroPair(uint64(PositionSeed(x, y, z))^s.lo, s.hi)
}

func (s *xoroshiroSplitter) ByHash(name string) Source {
	sum := md5.Sum([]byte(name))
	lo := binary.BigEndian.Uint64(sum[0:8])
	hi := binary.BigEndian.Uint64(sum[8:16])
	return NewXoroshiroPair(lo^s.lo, hi^s.hi)
}
