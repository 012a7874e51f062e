package world

import (
	"sync"

	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
	"chunkforge/internal/profiling"
)

// Store holds sealed chunks by position. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	chunks   map[geom.ChunkPos]*chunk.Data
	modCount uint64
}

// NewStore creates an empty chunk store.
func NewStore() *Store {
	return &Store{chunks: make(map[geom.ChunkPos]*chunk.Data)}
}

// Get returns the chunk at a position, or nil.
func (s *Store) Get(pos geom.ChunkPos) *chunk.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks[pos]
}

// Has reports whether a chunk is stored.
func (s *Store) Has(pos geom.ChunkPos) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[pos]
	return ok
}

// Add installs a chunk. The first chunk at a position wins; deterministic
// generation makes a racing duplicate identical anyway.
func (s *Store) Add(d *chunk.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[d.Pos]; ok {
		return
	}
	s.chunks[d.Pos] = d
	s.modCount++
}

// Len reports the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// ModCount increases on every add or evict, so callers can cheaply detect
// that the chunk set changed.
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// All returns the stored chunks in unspecified order.
func (s *Store) All() []*chunk.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*chunk.Data, 0, len(s.chunks))
	for _, d := range s.chunks {
		out = append(out, d)
	}
	return out
}

// AppendInRadius appends the stored chunks within a circular chunk radius
// around a center into dst and returns the resulting slice.
func (s *Store) AppendInRadius(center geom.ChunkPos, radius int, dst []*chunk.Data) []*chunk.Data {
	defer profiling.Track("world.AppendInRadius")()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			if d, ok := s.chunks[geom.ChunkPos{X: center.X + dx, Z: center.Z + dz}]; ok {
				dst = append(dst, d)
			}
		}
	}
	return dst
}

// EvictFar removes chunks outside the given radius and reports how many
// were removed.
func (s *Store) EvictFar(center geom.ChunkPos, radius int) int {
	defer profiling.Track("world.EvictFar")()
	removed := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for pos := range s.chunks {
		dx := pos.X - center.X
		dz := pos.Z - center.Z
		if dx*dx+dz*dz > radius*radius {
			delete(s.chunks, pos)
			s.modCount++
			removed++
		}
	}
	return removed
}
