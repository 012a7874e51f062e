// Package gen drives chunk generation: biome assignment, noise terrain,
// surface building and feature population, in that order.
package gen

import (
	"fmt"

	"chunkforge/internal/chunk"
	"chunkforge/internal/noise"
	"chunkforge/internal/rng"
)

// ClimatePoint is a biome's home in climate space.
type ClimatePoint struct {
	Temperature     float64
	Humidity        float64
	Continentalness float64
	Erosion         float64
	Weirdness       float64
}

// Biome couples a climate point with the features each generation step runs.
type Biome struct {
	ID      chunk.BiomeID
	Name    string
	Climate ClimatePoint
	// Features holds placed feature names per generation step.
	Features [GenerationSteps][]string
}

// GenerationSteps orders feature placement; the step index feeds the
// decorator seed.
const GenerationSteps = 11

// Feature steps, in run order.
const (
	StepRawGeneration = iota
	StepLakes
	StepLocalModifications
	StepUndergroundStructures
	StepSurfaceStructures
	StepStrongholds
	StepUndergroundOres
	StepUndergroundDecoration
	StepFluidSprings
	StepVegetalDecoration
	StepTopLayerModification
)

// Builtin biomes. Climate points follow the vanilla parameter layout:
// negative continentalness is oceanic, erosion flattens, weirdness ridges.
var builtinBiomes = []Biome{
	{
		ID: 0, Name: "ocean",
		Climate: ClimatePoint{Temperature: 0.0, Humidity: 0.1, Continentalness: -0.8, Erosion: 0.2, Weirdness: 0.0},
		Features: stepFeatures(map[int][]string{
			StepVegetalDecoration: {"seagrass_patch", "sea_pickle_patch"},
		}),
	},
	{
		ID: 1, Name: "plains",
		Climate: ClimatePoint{Temperature: 0.2, Humidity: 0.0, Continentalness: 0.3, Erosion: 0.4, Weirdness: 0.0},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_gold", "ore_diamond"},
			StepFluidSprings:      {"spring_water"},
			StepVegetalDecoration: {"trees_sparse_oak", "patch_grass", "patch_flowers"},
		}),
	},
	{
		ID: 2, Name: "forest",
		Climate: ClimatePoint{Temperature: 0.3, Humidity: 0.35, Continentalness: 0.4, Erosion: 0.1, Weirdness: 0.2},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_gold", "ore_diamond"},
			StepFluidSprings:      {"spring_water"},
			StepVegetalDecoration: {"trees_forest", "patch_grass", "patch_flowers", "forest_vines"},
		}),
	},
	{
		ID: 3, Name: "desert",
		Climate: ClimatePoint{Temperature: 0.9, Humidity: -0.7, Continentalness: 0.4, Erosion: 0.3, Weirdness: -0.1},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_gold"},
			StepVegetalDecoration: {"patch_dead_bush", "patch_cactus"},
		}),
	},
	{
		ID: 4, Name: "taiga",
		Climate: ClimatePoint{Temperature: -0.4, Humidity: 0.3, Continentalness: 0.5, Erosion: 0.0, Weirdness: 0.1},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_diamond"},
			StepVegetalDecoration: {"trees_taiga", "patch_grass", "patch_fern"},
		}),
	},
	{
		ID: 5, Name: "jungle",
		Climate: ClimatePoint{Temperature: 0.7, Humidity: 0.8, Continentalness: 0.4, Erosion: -0.1, Weirdness: 0.3},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_gold"},
			StepVegetalDecoration: {"trees_jungle", "patch_grass", "bamboo_light", "jungle_vines"},
		}),
	},
	{
		ID: 6, Name: "snowy_plains",
		Climate: ClimatePoint{Temperature: -0.8, Humidity: -0.2, Continentalness: 0.4, Erosion: 0.4, Weirdness: -0.2},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres: {"ore_coal", "ore_iron"},
		}),
	},
	{
		ID: 7, Name: "swamp",
		Climate: ClimatePoint{Temperature: 0.4, Humidity: 0.9, Continentalness: -0.1, Erosion: 0.5, Weirdness: -0.3},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron"},
			StepFluidSprings:      {"spring_water"},
			StepVegetalDecoration: {"trees_swamp", "patch_grass", "swamp_vines", "seagrass_patch"},
		}),
	},
	{
		ID: 8, Name: "savanna",
		Climate: ClimatePoint{Temperature: 0.8, Humidity: -0.4, Continentalness: 0.5, Erosion: 0.3, Weirdness: 0.0},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_gold"},
			StepVegetalDecoration: {"trees_savanna", "patch_grass"},
		}),
	},
	{
		ID: 9, Name: "dark_forest",
		Climate: ClimatePoint{Temperature: 0.3, Humidity: 0.6, Continentalness: 0.5, Erosion: -0.2, Weirdness: 0.4},
		Features: stepFeatures(map[int][]string{
			StepUndergroundOres:   {"ore_coal", "ore_iron", "ore_diamond"},
			StepVegetalDecoration: {"trees_dark_forest", "patch_grass", "forest_vines"},
		}),
	},
}

func stepFeatures(m map[int][]string) [GenerationSteps][]string {
	var out [GenerationSteps][]string
	for step, names := range m {
		out[step] = names
	}
	return out
}

// BiomeByID resolves a biome; out-of-range IDs fall back to plains.
func BiomeByID(id chunk.BiomeID) *Biome {
	for i := range builtinBiomes {
		if builtinBiomes[i].ID == id {
			return &builtinBiomes[i]
		}
	}
	return &builtinBiomes[1]
}

// ClimateSampler turns world positions into biomes via five climate noises.
type ClimateSampler struct {
	temperature     *noise.DoublePerlinSampler
	humidity        *noise.DoublePerlinSampler
	continentalness *noise.DoublePerlinSampler
	erosion         *noise.DoublePerlinSampler
	weirdness       *noise.DoublePerlinSampler
}

// NewClimateSampler derives the five climate fields from the world seed, each
// through its own name-hashed fork so they stay independent.
func NewClimateSampler(seed int64) (*ClimateSampler, error) {
	base := rng.NewXoroshiro(seed)
	splitter := base.NextSplitter()

	mk := func(name, params string) (*noise.DoublePerlinSampler, error) {
		r := splitter.ByHash("minecraft:" + name)
		p, err := noise.ParamsByName("minecraft:" + params)
		if err != nil {
			return nil, err
		}
		s, err := noise.NewDoublePerlinSampler(r, p, false)
		if err != nil {
			return nil, fmt.Errorf("gen: climate noise %s: %w", name, err)
		}
		return s, nil
	}

	temperature, err := mk("temperature", "temperature")
	if err != nil {
		return nil, err
	}
	humidity, err := mk("vegetation", "vegetation")
	if err != nil {
		return nil, err
	}
	continentalness, err := mk("continentalness", "continentalness")
	if err != nil {
		return nil, err
	}
	erosion, err := mk("erosion", "erosion")
	if err != nil {
		return nil, err
	}
	weirdness, err := mk("ridge", "ridge")
	if err != nil {
		return nil, err
	}
	return &ClimateSampler{
		temperature:     temperature,
		humidity:        humidity,
		continentalness: continentalness,
		erosion:         erosion,
		weirdness:       weirdness,
	}, nil
}

// SampleClimate reads the climate point at biome cell coordinates (block
// position right-shifted by two).
func (c *ClimateSampler) SampleClimate(cellX, cellZ int) ClimatePoint {
	x, z := float64(cellX), float64(cellZ)
	return ClimatePoint{
		Temperature:     c.temperature.Sample(x, 0, z),
		Humidity:        c.humidity.Sample(x, 0, z),
		Continentalness: c.continentalness.Sample(x, 0, z),
		Erosion:         c.erosion.Sample(x, 0, z),
		Weirdness:       c.weirdness.Sample(x, 0, z),
	}
}

// BiomeAt picks the builtin biome nearest to the sampled climate.
func (c *ClimateSampler) BiomeAt(cellX, cellZ int) chunk.BiomeID {
	p := c.SampleClimate(cellX, cellZ)
	best := 0
	bestDist := climateDistance(p, builtinBiomes[0].Climate)
	for i := 1; i < len(builtinBiomes); i++ {
		d := climateDistance(p, builtinBiomes[i].Climate)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return builtinBiomes[best].ID
}

func climateDistance(a, b ClimatePoint) float64 {
	dt := a.Temperature - b.Temperature
	dh := a.Humidity - b.Humidity
	dc := a.Continentalness - b.Continentalness
	de := a.Erosion - b.Erosion
	dw := a.Weirdness - b.Weirdness
	return dt*dt + dh*dh + dc*dc + de*de + dw*dw
}
