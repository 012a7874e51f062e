package tree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FeatureSize describes the clearance a tree needs at each height while the
// canopy probe scans upward.
type FeatureSize interface {
	// SizeAtHeight is the required free radius at a height above the base,
	// given the drawn trunk height.
	SizeAtHeight(y, trunkHeight int) int
	// MinClippedHeight is the shortest trunk the tree accepts when the probe
	// finds less room than the draw asked for. Negative means no clipping.
	MinClippedHeight() int
}

// TwoLayersSize switches between two radii at a fixed limit.
type TwoLayersSize struct {
	Limit      int
	LowerSize  int
	UpperSize  int
	MinClipped int
}

func (s TwoLayersSize) SizeAtHeight(y, _ int) int {
	if y < s.Limit {
		return s.LowerSize
	}
	return s.UpperSize
}

func (s TwoLayersSize) MinClippedHeight() int { return s.MinClipped }

// ThreeLayersSize adds a middle band, with the upper band anchored to the
// trunk top.
type ThreeLayersSize struct {
	Limit      int
	UpperLimit int
	LowerSize  int
	MiddleSize int
	UpperSize  int
	MinClipped int
}

func (s ThreeLayersSize) SizeAtHeight(y, trunkHeight int) int {
	if y < s.Limit {
		return s.LowerSize
	}
	if y >= trunkHeight-s.UpperLimit {
		return s.UpperSize
	}
	return s.MiddleSize
}

func (s ThreeLayersSize) MinClippedHeight() int { return s.MinClipped }

type sizeJSON struct {
	Type             string `json:"type"`
	Limit            *int   `json:"limit"`
	UpperLimit       *int   `json:"upper_limit"`
	LowerSize        int    `json:"lower_size"`
	MiddleSize       *int   `json:"middle_size"`
	UpperSize        *int   `json:"upper_size"`
	MinClippedHeight *int   `json:"min_clipped_height"`
}

func orDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

// DecodeSize decodes a tagged feature size.
func DecodeSize(raw json.RawMessage) (FeatureSize, error) {
	var v sizeJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("tree: feature size: %w", err)
	}
	clipped := orDefault(v.MinClippedHeight, -1)
	switch strings.TrimPrefix(v.Type, "minecraft:") {
	case "two_layers_feature_size":
		return TwoLayersSize{
			Limit:      orDefault(v.Limit, 1),
			LowerSize:  v.LowerSize,
			UpperSize:  orDefault(v.UpperSize, 1),
			MinClipped: clipped,
		}, nil
	case "three_layers_feature_size":
		return ThreeLayersSize{
			Limit:      orDefault(v.Limit, 1),
			UpperLimit: orDefault(v.UpperLimit, 1),
			LowerSize:  v.LowerSize,
			MiddleSize: orDefault(v.MiddleSize, 1),
			UpperSize:  orDefault(v.UpperSize, 1),
			MinClipped: clipped,
		}, nil
	}
	return nil, fmt.Errorf("tree: unknown feature size %q", v.Type)
}
