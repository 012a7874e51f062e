package noise

import "chunkforge/internal/rng"

// doubleSecondScale offsets the second sampler by a fractional octave so the
// sum never develops periodic artifacts.
const doubleSecondScale = 1.0181268882175227

// DoublePerlinSampler sums two correlated octave samplers constructed from
// the same source, scaled so the output stays in roughly [-1, 1].
type DoublePerlinSampler struct {
	first, second *OctaveSampler
	amplitude     float64
}

func NewDoublePerlinSampler(r rng.Source, params Parameters, legacy bool) (*DoublePerlinSampler, error) {
	first, err := NewOctaveSampler(r, params.FirstOctave, params.Amplitudes, legacy)
	if err != nil {
		return nil, err
	}
	second, err := NewOctaveSampler(r, params.FirstOctave, params.Amplitudes, legacy)
	if err != nil {
		return nil, err
	}

	lo, hi := 0, len(params.Amplitudes)-1
	for lo < len(params.Amplitudes) && params.Amplitudes[lo] == 0 {
		lo++
	}
	for hi >= 0 && params.Amplitudes[hi] == 0 {
		hi--
	}
	spread := hi - lo
	expected := 0.1 * (1 + 1/float64(spread+1))
	return &DoublePerlinSampler{
		first:     first,
		second:    second,
		amplitude: (1.0 / 6.0) / expected,
	}, nil
}

func (d *DoublePerlinSampler) Sample(x, y, z float64) float64 {
	sx := x * doubleSecondScale
	sy := y * doubleSecondScale
	sz := z * doubleSecondScale
	return (d.first.Sample(x, y, z) + d.second.Sample(sx, sy, sz)) * d.amplitude
}
