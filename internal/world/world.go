// Package world ties the generation pipeline to chunk storage and
// streaming: a Level owns a store of sealed chunks and a terrain generator
// that fills cache misses.
package world

import (
	"github.com/google/uuid"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
)

// TerrainGenerator produces sealed chunks. Implementations must be safe for
// concurrent use; the streamer calls Generate from several workers.
type TerrainGenerator interface {
	Generate(pos geom.ChunkPos) *chunk.Data
	Shape() chunk.Shape
	Seed() int64
}

// Level is one named world: an identity, a generator and the chunks it has
// produced so far.
type Level struct {
	ID   uuid.UUID
	Name string

	gen   TerrainGenerator
	store *Store
	reg   *block.Registry
}

// NewLevel creates a level with a fresh identity.
func NewLevel(name string, g TerrainGenerator, reg *block.Registry) *Level {
	return &Level{
		ID:    uuid.New(),
		Name:  name,
		gen:   g,
		store: NewStore(),
		reg:   reg,
	}
}

// Store exposes the chunk store, for snapshotting and stats.
func (l *Level) Store() *Store { return l.store }

// Generator exposes the terrain generator.
func (l *Level) Generator() TerrainGenerator { return l.gen }

// Chunk returns the chunk at a position, generating and caching it on a
// miss. Concurrent callers may generate the same chunk twice; the store
// keeps whichever lands first, and determinism makes both identical.
func (l *Level) Chunk(pos geom.ChunkPos) *chunk.Data {
	if d := l.store.Get(pos); d != nil {
		return d
	}
	d := l.gen.Generate(pos)
	l.store.Add(d)
	return l.store.Get(pos)
}

// StateAt reads a block across chunk borders, generating the owning chunk
// when needed.
func (l *Level) StateAt(pos geom.Pos) *block.State {
	cpos := geom.ChunkPos{X: geom.FloorDiv(pos.X, chunk.SizeX), Z: geom.FloorDiv(pos.Z, chunk.SizeZ)}
	d := l.Chunk(cpos)
	id := d.StateIDAt(geom.FloorMod(pos.X, chunk.SizeX), pos.Y, geom.FloorMod(pos.Z, chunk.SizeZ))
	return l.reg.State(id)
}

// SurfaceHeight reports one above the highest non-air block of a column.
func (l *Level) SurfaceHeight(col geom.ColumnPos) int {
	cpos := geom.ChunkPos{X: geom.FloorDiv(col.X, chunk.SizeX), Z: geom.FloorDiv(col.Z, chunk.SizeZ)}
	d := l.Chunk(cpos)
	lx := geom.FloorMod(col.X, chunk.SizeX)
	lz := geom.FloorMod(col.Z, chunk.SizeZ)
	return d.Heightmaps[chunk.WorldSurface][lx*chunk.SizeZ+lz]
}
