// Package registry loads the generation datapack: named placed features,
// schema-validated before any decoder runs so data faults surface with the
// JSON path instead of a decoder panic deep in the pipeline.
package registry

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"chunkforge/internal/block"
	"chunkforge/internal/gen"
	"chunkforge/internal/gen/feature"
	_ "chunkforge/internal/gen/feature/tree" // registers the tree decoder
)

//go:embed data/features.json data/features.schema.json
var dataFS embed.FS

const schemaName = "features.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := dataFS.ReadFile("data/" + schemaName)
	if err != nil {
		return nil, fmt.Errorf("registry: read schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("registry: add schema: %w", err)
	}
	s, err := c.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("registry: compile schema: %w", err)
	}
	return s, nil
}

// DecodeFeatures validates a datapack document and decodes every named
// placed feature against the block registry.
func DecodeFeatures(raw []byte, reg *block.Registry) (gen.FeatureSet, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("registry: datapack: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("registry: datapack: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("registry: datapack: %w", err)
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make(gen.FeatureSet, len(entries))
	for _, name := range names {
		pf, err := feature.DecodePlaced(entries[name], reg)
		if err != nil {
			return nil, fmt.Errorf("registry: feature %q: %w", name, err)
		}
		set[name] = &pf
	}
	return set, nil
}

// BuiltinFeatures decodes the embedded datapack.
func BuiltinFeatures(reg *block.Registry) (gen.FeatureSet, error) {
	raw, err := dataFS.ReadFile("data/features.json")
	if err != nil {
		return nil, fmt.Errorf("registry: read datapack: %w", err)
	}
	return DecodeFeatures(raw, reg)
}

// LoadFeatures reads an external datapack file, for worlds that override the
// builtin features.
func LoadFeatures(path string, reg *block.Registry) (gen.FeatureSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read datapack: %w", err)
	}
	return DecodeFeatures(raw, reg)
}
