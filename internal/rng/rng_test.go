package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Expected values below were produced by the reference generators.

func TestLegacyNextInt32(t *testing.T) {
	r := NewLegacy(42)
	want := []int32{-1170105035, 234785527, -1360544799, 205897768}
	for i, w := range want {
		require.Equal(t, w, r.NextInt32(), "draw %d", i)
	}
}

func TestLegacyNextInt64(t *testing.T) {
	r := NewLegacy(42)
	want := []int64{-5025562857975149833, -5843495416241995736, 5694868678511409995}
	for i, w := range want {
		require.Equal(t, w, r.NextInt64(), "draw %d", i)
	}
}

func TestLegacyNextBounded(t *testing.T) {
	r := NewLegacy(42)
	want := []int32{0, 3, 8, 4, 0, 5}
	for i, w := range want {
		require.Equal(t, w, r.NextBounded(10), "draw %d", i)
	}
}

func TestLegacyNextFloat64(t *testing.T) {
	r := NewLegacy(42)
	want := []float64{0.7275636800328681, 0.6832234717598454, 0.30871945533265976}
	for i, w := range want {
		require.Equal(t, w, r.NextFloat64(), "draw %d", i)
	}
}

func TestLegacyNextFloat32(t *testing.T) {
	r := NewLegacy(42)
	require.Equal(t, float32(0.7275636792182922), r.NextFloat32())
}

func TestXoroshiroSequence(t *testing.T) {
	r := NewXoroshiro(42)
	want := []int64{-4695948378737616609, 7341713790291473579, -7542733514721318211}
	for i, w := range want {
		require.Equal(t, w, r.NextInt64(), "draw %d", i)
	}
}

func TestXoroshiroNextFloat64(t *testing.T) {
	r := NewXoroshiro(42)
	want := []float64{0.7454321282946447, 0.3979951020600401, 0.5911075968429961}
	for i, w := range want {
		require.Equal(t, w, r.NextFloat64(), "draw %d", i)
	}
}

func TestXoroshiroZeroStateEscapes(t *testing.T) {
	r := NewXoroshiroPair(0, 0)
	require.NotZero(t, r.NextInt64())
}

func TestPositionSeed(t *testing.T) {
	require.Equal(t, int64(-33674130277896), PositionSeed(1, 2, 3))
	require.Equal(t, int64(-41901284489220), PositionSeed(-100, 64, 7))
}

func TestPopulationSeed(t *testing.T) {
	r := NewLegacy(0)
	require.Equal(t, int64(-8410474954089554048), PopulationSeed(r, 0, 16, 16))
	require.Equal(t, int64(123), PopulationSeed(r, 123, 0, 0))
	require.Equal(t, int64(7776638583602711819), PopulationSeed(r, 123, -32, 48))
}

func TestPopulationSeedReseedsGenerator(t *testing.T) {
	a := NewLegacy(0)
	PopulationSeed(a, 99, 160, -320)

	b := NewLegacy(0)
	seed := PopulationSeed(b, 99, 160, -320)
	b.SetSeed(seed)

	for i := 0; i < 16; i++ {
		require.Equal(t, a.NextInt64(), b.NextInt64(), "draw %d", i)
	}
}

func TestDecoratorSeedIsolation(t *testing.T) {
	r := NewLegacy(0)
	pop := PopulationSeed(r, 1234, 0, 0)

	DecoratorSeed(r, pop, 0, 0)
	first := r.NextInt64()
	DecoratorSeed(r, pop, 1, 0)
	second := r.NextInt64()
	require.NotEqual(t, first, second)

	// Same index and step must reproduce the same stream.
	DecoratorSeed(r, pop, 0, 0)
	require.Equal(t, first, r.NextInt64())
}

func TestSplitterIndependence(t *testing.T) {
	for _, newSource := range []func(int64) Source{
		func(s int64) Source { return NewLegacy(s) },
		func(s int64) Source { return NewXoroshiro(s) },
	} {
		split := newSource(7).NextSplitter()

		a := split.At(10, 20, 30)
		b := split.At(10, 20, 31)
		require.NotEqual(t, a.NextInt64(), b.NextInt64())

		// Re-derivation yields the same stream.
		c := split.At(10, 20, 30)
		d := newSource(7).NextSplitter().At(10, 20, 30)
		require.Equal(t, c.NextInt64(), d.NextInt64())

		e := split.ByHash("minecraft:ore")
		f := split.ByHash("minecraft:ore")
		require.Equal(t, e.NextInt64(), f.NextInt64())
		g := split.ByHash("minecraft:tree")
		require.NotEqual(t, e.NextInt64(), g.NextInt64())
	}
}

func TestNextInBetweenBounds(t *testing.T) {
	r := NewXoroshiro(1)
	for i := 0; i < 1000; i++ {
		v := r.NextInBetween(-3, 9)
		require.GreaterOrEqual(t, v, int32(-3))
		require.LessOrEqual(t, v, int32(9))
	}
}

func TestNextGaussianDeterministic(t *testing.T) {
	a := NewLegacy(555)
	b := NewLegacy(555)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.NextGaussian(), b.NextGaussian())
	}
}

func TestJavaStringHash(t *testing.T) {
	// "a" is 97; hash of a single char is the char itself.
	require.Equal(t, int32(97), JavaStringHash("a"))
	require.Equal(t, int32(0), JavaStringHash(""))
}

func BenchmarkLegacyNextInt64(b *testing.B) {
	r := NewLegacy(42)
	for i := 0; i < b.N; i++ {
		r.NextInt64()
	}
}

func BenchmarkXoroshiroNextInt64(b *testing.B) {
	r := NewXoroshiro(42)
	for i := 0; i < b.N; i++ {
		r.NextInt64()
	}
}
