package provider

import (
	"fmt"

	"chunkforge/internal/rng"
)

// Weighted is one pool entry.
type Weighted[T any] struct {
	Data   T
	Weight int
}

// Pool selects entries by cumulative weight.
type Pool[T any] struct {
	entries []Weighted[T]
	total   int
}

func NewPool[T any](entries []Weighted[T]) (*Pool[T], error) {
	total := 0
	for _, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("provider: negative pool weight %d", e.Weight)
		}
		total += e.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("provider: pool has no positive weight")
	}
	return &Pool[T]{entries: entries, total: total}, nil
}

// Get draws one entry; the cumulative draw consumes exactly one bounded int.
func (p *Pool[T]) Get(r rng.Source) T {
	n := int(r.NextBounded(int32(p.total)))
	for _, e := range p.entries {
		n -= e.Weight
		if n < 0 {
			return e.Data
		}
	}
	// Unreachable while total matches the entries.
	return p.entries[len(p.entries)-1].Data
}

// Entries exposes the pool contents for bound computations.
func (p *Pool[T]) Entries() []Weighted[T] { return p.entries }
