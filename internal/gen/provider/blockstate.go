package provider

import (
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/geom"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

// BlockState decides which block state a feature stamps at a position.
type BlockState interface {
	Get(r rng.Source, pos geom.Pos) *block.State
}

// SimpleState always returns one state.
type SimpleState struct {
	State *block.State
}

func (s SimpleState) Get(rng.Source, geom.Pos) *block.State { return s.State }

// WeightedState draws a state from a weighted pool.
type WeightedState struct {
	Pool *Pool[*block.State]
}

func (w WeightedState) Get(r rng.Source, _ geom.Pos) *block.State {
	return w.Pool.Get(r)
}

// RotatedPillarState returns a random-axis variant of a pillar block.
type RotatedPillarState struct {
	Block *block.Block
}

func (p RotatedPillarState) Get(r rng.Source, _ geom.Pos) *block.State {
	axis := geom.Axis(r.NextBounded(3))
	return p.Block.StateVariant("axis=" + axis.String())
}

// RandomizedIntState delegates to its source provider; the reference leaves
// the property-randomizing half unimplemented and so does this.
type RandomizedIntState struct {
	Source BlockState
}

func (s RandomizedIntState) Get(r rng.Source, pos geom.Pos) *block.State {
	return s.Source.Get(r, pos)
}

// noiseField is the shared seeded-sampler half of the noise providers.
type noiseField struct {
	sampler *noise.DoublePerlinSampler
	scale   float64
}

func newNoiseField(seed int64, params noise.Parameters, scale float64) (noiseField, error) {
	s, err := noise.NewDoublePerlinSampler(rng.NewLegacy(seed), params, false)
	if err != nil {
		return noiseField{}, fmt.Errorf("provider: noise state provider: %w", err)
	}
	return noiseField{sampler: s, scale: scale}, nil
}

func (n noiseField) at(pos geom.Pos, scale float64) float64 {
	return n.sampler.Sample(float64(pos.X)*scale, float64(pos.Y)*scale, float64(pos.Z)*scale)
}

// NoiseState picks from a state list by noise value.
type NoiseState struct {
	noiseField
	States []*block.State
}

func NewNoiseState(seed int64, params noise.Parameters, scale float64, states []*block.State) (*NoiseState, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("provider: noise state provider needs at least one state")
	}
	f, err := newNoiseField(seed, params, scale)
	if err != nil {
		return nil, err
	}
	return &NoiseState{noiseField: f, States: states}, nil
}

func stateByValue(states []*block.State, v float64) *block.State {
	d := (1 + v) / 2
	if d < 0 {
		d = 0
	} else if d > 0.9999 {
		d = 0.9999
	}
	return states[int(d*float64(len(states)))]
}

func (n *NoiseState) Get(_ rng.Source, pos geom.Pos) *block.State {
	return stateByValue(n.States, n.at(pos, n.scale))
}

// NoiseThresholdState returns the default state below the threshold,
// otherwise one of the low/high lists chosen by a separate probability.
type NoiseThresholdState struct {
	noiseField
	Threshold    float64
	HighChance   float32
	DefaultState *block.State
	LowStates    []*block.State
	HighStates   []*block.State
}

func NewNoiseThresholdState(seed int64, params noise.Parameters, scale, threshold float64, highChance float32, def *block.State, low, high []*block.State) (*NoiseThresholdState, error) {
	if len(low) == 0 || len(high) == 0 {
		return nil, fmt.Errorf("provider: noise threshold provider needs low and high states")
	}
	f, err := newNoiseField(seed, params, scale)
	if err != nil {
		return nil, err
	}
	return &NoiseThresholdState{
		noiseField:   f,
		Threshold:    threshold,
		HighChance:   highChance,
		DefaultState: def,
		LowStates:    low,
		HighStates:   high,
	}, nil
}

func (n *NoiseThresholdState) Get(r rng.Source, pos geom.Pos) *block.State {
	if n.at(pos, n.scale) < n.Threshold {
		return n.DefaultState
	}
	if r.NextFloat32() < n.HighChance {
		return n.HighStates[r.NextBounded(int32(len(n.HighStates)))]
	}
	return n.LowStates[r.NextBounded(int32(len(n.LowStates)))]
}

// DualNoiseState varies the candidate count with a slow noise channel, then
// indexes the candidates with the fast channel.
type DualNoiseState struct {
	noiseField
	Slow                     noiseField
	VarietyMin, VarietyMax   int
	States                   []*block.State
}

func NewDualNoiseState(seed int64, params, slowParams noise.Parameters, scale, slowScale float64, varietyMin, varietyMax int, states []*block.State) (*DualNoiseState, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("provider: dual noise provider needs at least one state")
	}
	f, err := newNoiseField(seed, params, scale)
	if err != nil {
		return nil, err
	}
	slow, err := newNoiseField(seed, slowParams, slowScale)
	if err != nil {
		return nil, err
	}
	return &DualNoiseState{
		noiseField: f,
		Slow:       slow,
		VarietyMin: varietyMin,
		VarietyMax: varietyMax,
		States:     states,
	}, nil
}

func (d *DualNoiseState) Get(_ rng.Source, pos geom.Pos) *block.State {
	slow := d.Slow.at(pos, d.Slow.scale)
	t := (slow + 1) / 2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	count := d.VarietyMin + int(t*float64(d.VarietyMax-d.VarietyMin+1))
	if count > d.VarietyMax {
		count = d.VarietyMax
	}
	if count < 1 {
		count = 1
	}
	candidates := make([]*block.State, 0, count)
	for j := 0; j < count; j++ {
		v := d.Slow.at(pos.Add(j*54545, 0, j*34234), d.Slow.scale)
		candidates = append(candidates, stateByValue(d.States, v))
	}
	return stateByValue(candidates, d.at(pos, d.scale))
}
