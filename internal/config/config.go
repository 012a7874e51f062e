// Package config loads the YAML run configuration and exposes the tunable
// settings behind process-wide accessors.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk YAML shape. Load reads it; Apply installs the values
// into the global settings.
type Config struct {
	World  WorldConfig  `yaml:"world"`
	Stream StreamConfig `yaml:"stream"`
}

// WorldConfig selects what terrain to generate.
type WorldConfig struct {
	Name      string `yaml:"name"`
	Seed      int64  `yaml:"seed"`
	Generator string `yaml:"generator"` // full, heightmap or flat
	Datapack  string `yaml:"datapack"`  // optional path overriding the built-in feature set
}

// StreamConfig bounds the chunk streamer.
type StreamConfig struct {
	Radius      int `yaml:"radius"`       // chunks generated around the focus
	EvictRadius int `yaml:"evict_radius"` // chunks kept before eviction
	MaxPending  int `yaml:"max_pending"`  // queued generation jobs cap
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Name:      "world",
			Seed:      0,
			Generator: "full",
		},
		Stream: StreamConfig{
			Radius:      8,
			EvictRadius: 16,
			MaxPending:  16384,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Apply installs the configuration into the global settings.
func (c *Config) Apply() {
	SetWorldName(c.World.Name)
	SetWorldSeed(c.World.Seed)
	SetGeneratorKind(c.World.Generator)
	SetDatapackPath(c.World.Datapack)
	SetStreamRadius(c.Stream.Radius)
	SetEvictRadius(c.Stream.EvictRadius)
	SetMaxPending(c.Stream.MaxPending)
}

// StreamSettings holds streaming configuration
type StreamSettings struct {
	mu           sync.RWMutex
	streamRadius int // in chunks
	evictRadius  int // in chunks
	maxPending   int
}

var globalStreamSettings = &StreamSettings{
	streamRadius: 8,
	evictRadius:  16,
	maxPending:   16384,
}

// GetStreamRadius returns the current stream radius in chunks
func GetStreamRadius() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.streamRadius
}

// SetStreamRadius sets the stream radius in chunks
func SetStreamRadius(radius int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	// Clamp to reasonable values
	if radius < 1 {
		radius = 1
	}
	if radius > 64 {
		radius = 64
	}

	globalStreamSettings.streamRadius = radius
}

// GetEvictRadius returns the eviction radius in chunks. It is never smaller
// than the stream radius.
func GetEvictRadius() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	if globalStreamSettings.evictRadius < globalStreamSettings.streamRadius {
		return globalStreamSettings.streamRadius
	}
	return globalStreamSettings.evictRadius
}

// SetEvictRadius sets the eviction radius in chunks
func SetEvictRadius(radius int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()
	if radius < 1 {
		radius = 1
	}
	globalStreamSettings.evictRadius = radius
}

// GetMaxPending returns the cap on queued generation jobs
func GetMaxPending() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.maxPending
}

// SetMaxPending sets the cap on queued generation jobs
func SetMaxPending(n int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()
	if n < 1 {
		n = 1
	}
	globalStreamSettings.maxPending = n
}
