package feature

import (
	"encoding/json"
	"fmt"

	"chunkforge/internal/block"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// RandomSelectorFeature rolls each weighted entry in order and generates the
// first that passes its chance, falling back to the default.
type RandomSelectorFeature struct {
	Entries []ChancedFeature
	Default PlacedFeature
}

// ChancedFeature is one entry of a random selector.
type ChancedFeature struct {
	Feature PlacedFeature
	Chance  float32
}

func (f RandomSelectorFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	for _, e := range f.Entries {
		if r.NextFloat32() < e.Chance {
			return e.Feature.Generate(ctx, r, origin)
		}
	}
	return f.Default.Generate(ctx, r, origin)
}

// SimpleRandomSelectorFeature generates one uniformly chosen entry.
type SimpleRandomSelectorFeature struct {
	Features []PlacedFeature
}

func (f SimpleRandomSelectorFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	if len(f.Features) == 0 {
		return false
	}
	pick := f.Features[r.NextBounded(int32(len(f.Features)))]
	return pick.Generate(ctx, r, origin)
}

// RandomBooleanSelectorFeature flips a coin between two entries.
type RandomBooleanSelectorFeature struct {
	OnTrue  PlacedFeature
	OnFalse PlacedFeature
}

func (f RandomBooleanSelectorFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	if r.NextBool() {
		return f.OnTrue.Generate(ctx, r, origin)
	}
	return f.OnFalse.Generate(ctx, r, origin)
}

func decodeRandomSelector(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		Features []struct {
			Feature json.RawMessage `json:"feature"`
			Chance  float32         `json:"chance"`
		} `json:"features"`
		Default json.RawMessage `json:"default"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	entries := make([]ChancedFeature, 0, len(v.Features))
	for _, e := range v.Features {
		pf, err := DecodePlaced(e.Feature, reg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ChancedFeature{Feature: pf, Chance: e.Chance})
	}
	def, err := DecodePlaced(v.Default, reg)
	if err != nil {
		return nil, err
	}
	return RandomSelectorFeature{Entries: entries, Default: def}, nil
}

func decodeSimpleRandomSelector(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	if len(v.Features) == 0 {
		return nil, fmt.Errorf("empty feature list")
	}
	features := make([]PlacedFeature, 0, len(v.Features))
	for _, e := range v.Features {
		pf, err := DecodePlaced(e, reg)
		if err != nil {
			return nil, err
		}
		features = append(features, pf)
	}
	return SimpleRandomSelectorFeature{Features: features}, nil
}

func decodeRandomBooleanSelector(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v struct {
		FeatureTrue  json.RawMessage `json:"feature_true"`
		FeatureFalse json.RawMessage `json:"feature_false"`
	}
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	onTrue, err := DecodePlaced(v.FeatureTrue, reg)
	if err != nil {
		return nil, err
	}
	onFalse, err := DecodePlaced(v.FeatureFalse, reg)
	if err != nil {
		return nil, err
	}
	return RandomBooleanSelectorFeature{OnTrue: onTrue, OnFalse: onFalse}, nil
}

func init() {
	registerDecoder("random_selector", decodeRandomSelector)
	registerDecoder("simple_random_selector", decodeSimpleRandomSelector)
	registerDecoder("random_boolean_selector", decodeRandomBooleanSelector)
}
