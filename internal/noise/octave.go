package noise

import (
	"fmt"
	"math"

	"chunkforge/internal/rng"
)

// maintainPrecisionWrap keeps octave inputs inside a window where double
// precision stays uniform; matches the reference 2^25 wrap.
const maintainPrecisionWrap = 33554432.0

func maintainPrecision(v float64) float64 {
	return v - math.Floor(v/maintainPrecisionWrap+0.5)*maintainPrecisionWrap
}

// OctaveSampler sums band-limited Perlin octaves with per-octave amplitudes.
// Slots with zero amplitude hold no sampler but still consume RNG draws
// during legacy construction, preserving the reference draw order.
type OctaveSampler struct {
	samplers    []*PerlinSampler
	amplitudes  []float64
	firstOctave int
	persistence float64
	lacunarity  float64
}

// legacyOctaveSkip is the number of draws one perlin construction consumes
// (3 doubles at 2 draws each + 256 bounded ints), skipped for empty slots.
const legacyOctaveSkip = 262

// NewOctaveSampler builds the sampler from a dedicated source. The modern
// path forks one generator per octave by name hash; the legacy path consumes
// the shared source sequentially from the highest octave down.
func NewOctaveSampler(r rng.Source, firstOctave int, amplitudes []float64, legacy bool) (*OctaveSampler, error) {
	n := len(amplitudes)
	if n == 0 {
		return nil, fmt.Errorf("noise: octave sampler needs at least one amplitude")
	}
	o := &OctaveSampler{
		samplers:    make([]*PerlinSampler, n),
		amplitudes:  amplitudes,
		firstOctave: firstOctave,
		persistence: math.Pow(2, float64(n-1)) / (math.Pow(2, float64(n)) - 1),
		lacunarity:  math.Pow(2, float64(firstOctave)),
	}
	if legacy {
		if firstOctave > 0 {
			return nil, fmt.Errorf("noise: legacy octave sampler requires firstOctave <= 0, got %d", firstOctave)
		}
		k := -firstOctave
		if k < n && amplitudes[k] != 0 {
			o.samplers[k] = NewPerlinSampler(r)
		}
		for i := k - 1; i >= 0; i-- {
			if i < n && amplitudes[i] != 0 {
				o.samplers[i] = NewPerlinSampler(r)
			} else {
				r.Skip(legacyOctaveSkip)
			}
		}
		return o, nil
	}
	splitter := r.NextSplitter()
	for i := 0; i < n; i++ {
		if amplitudes[i] == 0 {
			continue
		}
		octave := firstOctave + i
		o.samplers[i] = NewPerlinSampler(splitter.ByHash(fmt.Sprintf("octave_%d", octave)))
	}
	return o, nil
}

// Sample sums the octaves at the given point.
func (o *OctaveSampler) Sample(x, y, z float64) float64 {
	var total float64
	lac := o.lacunarity
	pers := o.persistence
	for i, s := range o.samplers {
		if s != nil {
			v := s.Sample(
				maintainPrecision(x*lac),
				maintainPrecision(y*lac),
				maintainPrecision(z*lac),
			)
			total += o.amplitudes[i] * v * pers
		}
		lac *= 2
		pers /= 2
	}
	return total
}
