package noise

import "fmt"

// Parameters describes one named band-limited noise: the first octave
// exponent and per-octave amplitudes. Immutable after startup.
type Parameters struct {
	Name        string
	FirstOctave int
	Amplitudes  []float64
}

// builtinParams is the per-dimension noise table. Names double as the fork
// keys for modern octave construction, so entries keep their namespace.
var builtinParams = map[string]Parameters{
	"minecraft:temperature":     {Name: "minecraft:temperature", FirstOctave: -10, Amplitudes: []float64{1.5, 0, 1, 0, 0, 0}},
	"minecraft:vegetation":      {Name: "minecraft:vegetation", FirstOctave: -8, Amplitudes: []float64{1, 1, 0, 0, 0, 0}},
	"minecraft:continentalness": {Name: "minecraft:continentalness", FirstOctave: -9, Amplitudes: []float64{1, 1, 2, 2, 2, 1, 1, 1, 1}},
	"minecraft:erosion":         {Name: "minecraft:erosion", FirstOctave: -9, Amplitudes: []float64{1, 1, 0, 1, 1}},
	"minecraft:ridge":           {Name: "minecraft:ridge", FirstOctave: -7, Amplitudes: []float64{1, 2, 1, 0, 0, 0}},
	"minecraft:offset":          {Name: "minecraft:offset", FirstOctave: -3, Amplitudes: []float64{1, 1, 1, 0}},
	"minecraft:surface":         {Name: "minecraft:surface", FirstOctave: -6, Amplitudes: []float64{1, 1, 1}},
	"minecraft:terrain":         {Name: "minecraft:terrain", FirstOctave: -8, Amplitudes: []float64{1, 1, 1, 1, 1, 1}},
	"minecraft:ore_gap":         {Name: "minecraft:ore_gap", FirstOctave: -5, Amplitudes: []float64{1}},
}

// ParamsByName resolves a noise parameter set. An unknown name is a startup
// configuration fault.
func ParamsByName(name string) (Parameters, error) {
	p, ok := builtinParams[name]
	if !ok {
		return Parameters{}, fmt.Errorf("noise: unknown noise parameters %q", name)
	}
	return p, nil
}

// MustParams resolves a built-in parameter set whose name is fixed at
// compile time.
func MustParams(name string) Parameters {
	p, err := ParamsByName(name)
	if err != nil {
		panic(err)
	}
	return p
}
