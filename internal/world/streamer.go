package world

import (
	"runtime"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"chunkforge/internal/config"
	"chunkforge/internal/geom"
	"chunkforge/internal/profiling"
)

var (
	chunksGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chunkforge_chunks_generated_total",
		Help: "Chunks generated and installed into a store.",
	})
	generationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chunkforge_chunk_generation_seconds",
		Help:    "Wall time of one chunk generation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	pendingJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chunkforge_chunks_pending",
		Help: "Chunk generation jobs queued or running.",
	})
)

// Streamer generates chunks asynchronously around a moving center, with a
// bounded pending set so a fast-moving caller cannot flood the queue.
type Streamer struct {
	jobs       chan geom.ChunkPos
	pending    map[geom.ChunkPos]struct{}
	pendingMu  sync.Mutex
	maxPending int

	maxJobsPerCall int

	store *Store
	gen   TerrainGenerator
	wg    sync.WaitGroup
}

// NewStreamer starts one generation worker per CPU.
func NewStreamer(store *Store, gen TerrainGenerator) *Streamer {
	st := &Streamer{
		jobs:           make(chan geom.ChunkPos, 4096),
		pending:        make(map[geom.ChunkPos]struct{}),
		maxJobsPerCall: 2048,
		maxPending:     config.GetMaxPending(),
		store:          store,
		gen:            gen,
	}
	workers := max(runtime.NumCPU(), 1)
	st.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go st.worker()
	}
	return st
}

// Close stops the workers and waits for in-flight jobs to finish.
func (st *Streamer) Close() {
	close(st.jobs)
	st.wg.Wait()
}

func (st *Streamer) worker() {
	defer st.wg.Done()
	for pos := range st.jobs {
		st.generateSync(pos)
		st.pendingMu.Lock()
		delete(st.pending, pos)
		st.pendingMu.Unlock()
		pendingJobs.Dec()
	}
}

// generateSync builds and installs a chunk if missing.
func (st *Streamer) generateSync(pos geom.ChunkPos) {
	if st.store.Has(pos) {
		return
	}
	timer := prometheus.NewTimer(generationSeconds)
	d := st.gen.Generate(pos)
	timer.ObserveDuration()
	st.store.Add(d)
	chunksGenerated.Inc()
}

// StreamAroundSync generates every chunk in a square radius before
// returning.
func (st *Streamer) StreamAroundSync(center geom.ChunkPos, radius int) {
	defer profiling.Track("world.StreamAroundSync")()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			st.generateSync(geom.ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
}

// StreamAroundAsync queues missing chunks ring by ring from the center out,
// so the nearest terrain materializes first. It stops early when the
// per-call budget or the pending cap is hit.
func (st *Streamer) StreamAroundAsync(center geom.ChunkPos, radius int) {
	defer profiling.Track("world.StreamAroundAsync")()
	pushed := 0
	for r := 0; r <= radius; r++ {
		if pushed >= st.maxJobsPerCall {
			return
		}
		if r == 0 {
			if st.request(center) {
				pushed++
			}
			continue
		}
		x0, x1 := center.X-r, center.X+r
		z0, z1 := center.Z-r, center.Z+r
		for xk := x0; xk <= x1; xk++ {
			if st.request(geom.ChunkPos{X: xk, Z: z0}) {
				pushed++
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			if st.request(geom.ChunkPos{X: x1, Z: zk}) {
				pushed++
			}
		}
		for xk := x1; xk >= x0; xk-- {
			if st.request(geom.ChunkPos{X: xk, Z: z1}) {
				pushed++
			}
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			if st.request(geom.ChunkPos{X: x0, Z: zk}) {
				pushed++
			}
		}
	}
}

// request enqueues one chunk, respecting the pending cap. Reports whether
// the job was accepted.
func (st *Streamer) request(pos geom.ChunkPos) bool {
	if st.store.Has(pos) {
		return false
	}
	st.pendingMu.Lock()
	if _, ok := st.pending[pos]; ok {
		st.pendingMu.Unlock()
		return false
	}
	if st.maxPending > 0 && len(st.pending) >= st.maxPending {
		st.pendingMu.Unlock()
		return false
	}
	st.pending[pos] = struct{}{}
	st.pendingMu.Unlock()

	select {
	case st.jobs <- pos:
		pendingJobs.Inc()
		return true
	default:
		st.pendingMu.Lock()
		delete(st.pending, pos)
		st.pendingMu.Unlock()
		return false
	}
}

// Pending reports the number of queued or running jobs.
func (st *Streamer) Pending() int {
	st.pendingMu.Lock()
	defer st.pendingMu.Unlock()
	return len(st.pending)
}
