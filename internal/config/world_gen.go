package config

import "sync"

// WorldGenSettings holds world generation configuration
type WorldGenSettings struct {
	mu            sync.RWMutex
	worldName     string
	worldSeed     int64
	generatorKind string
	datapackPath  string
}

var globalWorldGenSettings = &WorldGenSettings{
	worldName:     "world",
	generatorKind: "full",
}

// GetWorldName returns the configured world name
func GetWorldName() string {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.worldName
}

// SetWorldName sets the world name. Empty names fall back to "world".
func SetWorldName(name string) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	if name == "" {
		name = "world"
	}
	globalWorldGenSettings.worldName = name
}

// GetWorldSeed returns the configured world seed
func GetWorldSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.worldSeed
}

// SetWorldSeed sets the world seed
func SetWorldSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.worldSeed = seed
}

// GetGeneratorKind returns the selected terrain generator
func GetGeneratorKind() string {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.generatorKind
}

// SetGeneratorKind selects the terrain generator. Unknown kinds fall back
// to the full pipeline.
func SetGeneratorKind(kind string) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	switch kind {
	case "heightmap", "flat":
		globalWorldGenSettings.generatorKind = kind
	default:
		globalWorldGenSettings.generatorKind = "full"
	}
}

// GetDatapackPath returns the datapack path, or "" for the built-in set
func GetDatapackPath() string {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.datapackPath
}

// SetDatapackPath sets the datapack path
func SetDatapackPath(path string) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.datapackPath = path
}
