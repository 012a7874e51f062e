package provider

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"chunkforge/internal/block"
	"chunkforge/internal/noise"
)

// Decoding for the declarative feature data. Malformed entries are
// configuration-time faults; every error here aborts startup.

func typeTag(raw json.RawMessage) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return strings.TrimPrefix(probe.Type, "minecraft:"), nil
}

// DecodeInt accepts either a bare number (constant) or a tagged object.
func DecodeInt(raw json.RawMessage) (Int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return ConstantInt(n), nil
	}
	tag, err := typeTag(raw)
	if err != nil {
		return nil, fmt.Errorf("provider: int provider: %w", err)
	}
	switch tag {
	case "constant":
		var v struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ConstantInt(v.Value), nil
	case "uniform":
		var v struct {
			Min int `json:"min_inclusive"`
			Max int `json:"max_inclusive"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v.Min > v.Max {
			return nil, fmt.Errorf("provider: uniform int has min %d > max %d", v.Min, v.Max)
		}
		return UniformInt{MinInclusive: v.Min, MaxInclusive: v.Max}, nil
	case "biased_to_bottom":
		var v struct {
			Min int `json:"min_inclusive"`
			Max int `json:"max_inclusive"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return BiasedToBottomInt{MinInclusive: v.Min, MaxInclusive: v.Max}, nil
	case "clamped":
		var v struct {
			Min    int             `json:"min_inclusive"`
			Max    int             `json:"max_inclusive"`
			Source json.RawMessage `json:"source"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		src, err := DecodeInt(v.Source)
		if err != nil {
			return nil, err
		}
		return ClampedInt{Source: src, MinInclusive: v.Min, MaxInclusive: v.Max}, nil
	case "clamped_normal":
		var v struct {
			Mean      float64 `json:"mean"`
			Deviation float64 `json:"deviation"`
			Min       int     `json:"min_inclusive"`
			Max       int     `json:"max_inclusive"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ClampedNormalInt{Mean: v.Mean, Deviation: v.Deviation, MinInclusive: v.Min, MaxInclusive: v.Max}, nil
	case "weighted_list":
		var v struct {
			Distribution []struct {
				Data   json.RawMessage `json:"data"`
				Weight int             `json:"weight"`
			} `json:"distribution"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		entries := make([]Weighted[Int], 0, len(v.Distribution))
		for _, e := range v.Distribution {
			p, err := DecodeInt(e.Data)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Weighted[Int]{Data: p, Weight: e.Weight})
		}
		pool, err := NewPool(entries)
		if err != nil {
			return nil, err
		}
		return WeightedListInt{Pool: pool}, nil
	}
	return nil, fmt.Errorf("provider: unknown int provider type %q", tag)
}

// DecodeFloat accepts either a bare number (constant) or a tagged object.
func DecodeFloat(raw json.RawMessage) (Float, error) {
	var n float32
	if err := json.Unmarshal(raw, &n); err == nil {
		return ConstantFloat(n), nil
	}
	tag, err := typeTag(raw)
	if err != nil {
		return nil, fmt.Errorf("provider: float provider: %w", err)
	}
	switch tag {
	case "constant":
		var v struct {
			Value float32 `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ConstantFloat(v.Value), nil
	case "uniform":
		var v struct {
			Min float32 `json:"min_inclusive"`
			Max float32 `json:"max_exclusive"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return UniformFloat{MinInclusive: v.Min, MaxExclusive: v.Max}, nil
	case "clamped_normal":
		var v struct {
			Mean      float32 `json:"mean"`
			Deviation float32 `json:"deviation"`
			Min       float32 `json:"min"`
			Max       float32 `json:"max"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ClampedNormalFloat{Mean: v.Mean, Deviation: v.Deviation, MinValue: v.Min, MaxValue: v.Max}, nil
	case "trapezoid":
		var v struct {
			Min     float32 `json:"min"`
			Max     float32 `json:"max"`
			Plateau float32 `json:"plateau"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TrapezoidFloat{MinValue: v.Min, MaxValue: v.Max, Plateau: v.Plateau}, nil
	}
	return nil, fmt.Errorf("provider: unknown float provider type %q", tag)
}

// DecodeYOffset accepts {"absolute":N}, {"above_bottom":N} or {"below_top":N}.
func DecodeYOffset(raw json.RawMessage) (YOffset, error) {
	var v struct {
		Absolute    *int `json:"absolute"`
		AboveBottom *int `json:"above_bottom"`
		BelowTop    *int `json:"below_top"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return YOffset{}, err
	}
	switch {
	case v.Absolute != nil:
		return YOffset{Anchor: AnchorAbsolute, Offset: *v.Absolute}, nil
	case v.AboveBottom != nil:
		return YOffset{Anchor: AnchorAboveBottom, Offset: *v.AboveBottom}, nil
	case v.BelowTop != nil:
		return YOffset{Anchor: AnchorBelowTop, Offset: *v.BelowTop}, nil
	}
	return YOffset{}, fmt.Errorf("provider: y offset needs absolute, above_bottom or below_top")
}

// DecodeHeight decodes a height provider.
func DecodeHeight(raw json.RawMessage) (Height, error) {
	tag, err := typeTag(raw)
	if err != nil {
		return nil, fmt.Errorf("provider: height provider: %w", err)
	}
	var bounds struct {
		Min json.RawMessage `json:"min_inclusive"`
		Max json.RawMessage `json:"max_inclusive"`
	}
	if err := json.Unmarshal(raw, &bounds); err != nil {
		return nil, err
	}
	decodeBounds := func() (YOffset, YOffset, error) {
		lo, err := DecodeYOffset(bounds.Min)
		if err != nil {
			return YOffset{}, YOffset{}, err
		}
		hi, err := DecodeYOffset(bounds.Max)
		return lo, hi, err
	}
	switch tag {
	case "constant":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		y, err := DecodeYOffset(v.Value)
		if err != nil {
			return nil, err
		}
		return ConstantHeight{Value: y}, nil
	case "uniform":
		lo, hi, err := decodeBounds()
		if err != nil {
			return nil, err
		}
		return UniformHeight{MinInclusive: lo, MaxInclusive: hi}, nil
	case "trapezoid":
		lo, hi, err := decodeBounds()
		if err != nil {
			return nil, err
		}
		var v struct {
			Plateau int `json:"plateau"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TrapezoidHeight{MinInclusive: lo, MaxInclusive: hi, Plateau: v.Plateau}, nil
	case "very_biased_to_bottom":
		lo, hi, err := decodeBounds()
		if err != nil {
			return nil, err
		}
		var v struct {
			Inner int `json:"inner"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return VeryBiasedToBottomHeight{MinInclusive: lo, MaxInclusive: hi, Inner: v.Inner}, nil
	}
	return nil, fmt.Errorf("provider: unknown height provider type %q", tag)
}

// stateCodec is the declarative block-state form.
type stateCodec struct {
	Name       string            `json:"Name"`
	Properties map[string]string `json:"Properties"`
}

func (c stateCodec) resolve(reg *block.Registry) (*block.State, error) {
	b, ok := reg.Block(c.Name)
	if !ok {
		return nil, fmt.Errorf("provider: unknown block %q", c.Name)
	}
	if len(c.Properties) == 0 {
		return b.DefaultState(), nil
	}
	parts := make([]string, 0, len(c.Properties))
	for k, v := range c.Properties {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return b.StateVariant(strings.Join(parts, ",")), nil
}

// DecodeState resolves one block-state codec.
func DecodeState(raw json.RawMessage, reg *block.Registry) (*block.State, error) {
	var c stateCodec
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c.resolve(reg)
}

func decodeStateList(raws []json.RawMessage, reg *block.Registry) ([]*block.State, error) {
	out := make([]*block.State, 0, len(raws))
	for _, r := range raws {
		s, err := DecodeState(r, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DecodeBlockState decodes a block-state provider.
func DecodeBlockState(raw json.RawMessage, reg *block.Registry) (BlockState, error) {
	tag, err := typeTag(raw)
	if err != nil {
		return nil, fmt.Errorf("provider: block state provider: %w", err)
	}
	switch tag {
	case "simple_state_provider":
		var v struct {
			State json.RawMessage `json:"state"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		s, err := DecodeState(v.State, reg)
		if err != nil {
			return nil, err
		}
		return SimpleState{State: s}, nil
	case "weighted_state_provider":
		var v struct {
			Entries []struct {
				Data   json.RawMessage `json:"data"`
				Weight int             `json:"weight"`
			} `json:"entries"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		entries := make([]Weighted[*block.State], 0, len(v.Entries))
		for _, e := range v.Entries {
			s, err := DecodeState(e.Data, reg)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Weighted[*block.State]{Data: s, Weight: e.Weight})
		}
		pool, err := NewPool(entries)
		if err != nil {
			return nil, err
		}
		return WeightedState{Pool: pool}, nil
	case "rotated_block_provider":
		var v struct {
			State json.RawMessage `json:"state"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		s, err := DecodeState(v.State, reg)
		if err != nil {
			return nil, err
		}
		return RotatedPillarState{Block: s.Block}, nil
	case "randomized_int_state_provider":
		var v struct {
			Source json.RawMessage `json:"source"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		src, err := DecodeBlockState(v.Source, reg)
		if err != nil {
			return nil, err
		}
		return RandomizedIntState{Source: src}, nil
	case "noise_provider":
		var v struct {
			Seed   int64             `json:"seed"`
			Noise  string            `json:"noise"`
			Scale  float64           `json:"scale"`
			States []json.RawMessage `json:"states"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		params, err := noise.ParamsByName(v.Noise)
		if err != nil {
			return nil, err
		}
		states, err := decodeStateList(v.States, reg)
		if err != nil {
			return nil, err
		}
		return NewNoiseState(v.Seed, params, v.Scale, states)
	case "noise_threshold_provider":
		var v struct {
			Seed         int64             `json:"seed"`
			Noise        string            `json:"noise"`
			Scale        float64           `json:"scale"`
			Threshold    float64           `json:"threshold"`
			HighChance   float32           `json:"high_chance"`
			DefaultState json.RawMessage   `json:"default_state"`
			LowStates    []json.RawMessage `json:"low_states"`
			HighStates   []json.RawMessage `json:"high_states"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		params, err := noise.ParamsByName(v.Noise)
		if err != nil {
			return nil, err
		}
		def, err := DecodeState(v.DefaultState, reg)
		if err != nil {
			return nil, err
		}
		low, err := decodeStateList(v.LowStates, reg)
		if err != nil {
			return nil, err
		}
		high, err := decodeStateList(v.HighStates, reg)
		if err != nil {
			return nil, err
		}
		return NewNoiseThresholdState(v.Seed, params, v.Scale, v.Threshold, v.HighChance, def, low, high)
	case "dual_noise_provider":
		var v struct {
			Seed      int64   `json:"seed"`
			Noise     string  `json:"noise"`
			Scale     float64 `json:"scale"`
			SlowNoise string  `json:"slow_noise"`
			SlowScale float64 `json:"slow_scale"`
			Variety   struct {
				Min int `json:"min_inclusive"`
				Max int `json:"max_inclusive"`
			} `json:"variety"`
			States []json.RawMessage `json:"states"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		params, err := noise.ParamsByName(v.Noise)
		if err != nil {
			return nil, err
		}
		slowParams, err := noise.ParamsByName(v.SlowNoise)
		if err != nil {
			return nil, err
		}
		states, err := decodeStateList(v.States, reg)
		if err != nil {
			return nil, err
		}
		return NewDualNoiseState(v.Seed, params, slowParams, v.Scale, v.SlowScale, v.Variety.Min, v.Variety.Max, states)
	}
	return nil, fmt.Errorf("provider: unknown block state provider type %q", tag)
}
