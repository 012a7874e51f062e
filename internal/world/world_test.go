package world

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
)

func TestLevelGeneratesAndCaches(t *testing.T) {
	reg := block.NewRegistry()
	l := NewLevel("test", NewHeightmapGenerator(11, reg), reg)

	pos := geom.ChunkPos{X: 3, Z: -2}
	a := l.Chunk(pos)
	b := l.Chunk(pos)
	require.Same(t, a, b, "second lookup must hit the store")
	require.Equal(t, 1, l.Store().Len())
	require.NotEqual(t, uuid.Nil, l.ID)
}

func TestLevelCrossChunkReads(t *testing.T) {
	reg := block.NewRegistry()
	l := NewLevel("test", NewFlatGenerator(0, reg), reg)

	// Flat stack: floor at -64, grass at -1 (60 stone + 3 dirt + 1 grass).
	grassY := -64 + 63
	require.Equal(t, "grass_block", l.StateAt(geom.Pos{X: 100, Y: grassY, Z: -77}).Block.Name)
	require.Equal(t, "stone", l.StateAt(geom.Pos{X: 100, Y: -64, Z: -77}).Block.Name)
	require.True(t, l.StateAt(geom.Pos{X: 100, Y: grassY + 1, Z: -77}).IsAir())
	require.Equal(t, grassY+1, l.SurfaceHeight(geom.ColumnPos{X: 100, Z: -77}))
}

func TestStoreRadiusAndEvict(t *testing.T) {
	reg := block.NewRegistry()
	g := NewFlatGenerator(0, reg)
	s := NewStore()
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			s.Add(g.Generate(geom.ChunkPos{X: x, Z: z}))
		}
	}
	require.Equal(t, 81, s.Len())

	near := s.AppendInRadius(geom.ChunkPos{}, 2, nil)
	require.Len(t, near, 13, "a radius-2 disc holds 13 chunks")

	mod := s.ModCount()
	removed := s.EvictFar(geom.ChunkPos{}, 2)
	require.Equal(t, 81-13, removed)
	require.Equal(t, 13, s.Len())
	require.Greater(t, s.ModCount(), mod)

	// Adding the same chunk twice keeps the first.
	d := g.Generate(geom.ChunkPos{X: 0, Z: 0})
	s.Add(d)
	require.NotSame(t, d, s.Get(geom.ChunkPos{X: 0, Z: 0}))
}

func TestHeightmapGeneratorDeterminism(t *testing.T) {
	reg := block.NewRegistry()
	a := NewHeightmapGenerator(77, reg).Generate(geom.ChunkPos{X: 1, Z: 2})
	b := NewHeightmapGenerator(77, reg).Generate(geom.ChunkPos{X: 1, Z: 2})
	require.Equal(t, a.Hash(), b.Hash())

	c := NewHeightmapGenerator(78, reg).Generate(geom.ChunkPos{X: 1, Z: 2})
	require.NotEqual(t, a.Hash(), c.Hash())
}

func TestStreamerSyncAndAsync(t *testing.T) {
	reg := block.NewRegistry()
	store := NewStore()
	st := NewStreamer(store, NewFlatGenerator(0, reg))
	defer st.Close()

	st.StreamAroundSync(geom.ChunkPos{}, 1)
	require.Equal(t, 9, store.Len())

	st.StreamAroundAsync(geom.ChunkPos{X: 10, Z: 10}, 2)
	require.Eventually(t, func() bool {
		return store.Has(geom.ChunkPos{X: 10, Z: 10}) && st.Pending() == 0
	}, 10*time.Second, 10*time.Millisecond)
	require.Equal(t, 9+25, store.Len())
}

func TestSnapshotRoundTrip(t *testing.T) {
	reg := block.NewRegistry()
	g := NewHeightmapGenerator(5, reg)
	chunks := []*chunk.Data{
		g.Generate(geom.ChunkPos{X: 0, Z: 0}),
		g.Generate(geom.ChunkPos{X: 1, Z: 0}),
		g.Generate(geom.ChunkPos{X: -3, Z: 9}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, 5, chunks))

	seed, restored, err := ReadSnapshot(bytes.NewReader(buf.Bytes()), reg)
	require.NoError(t, err)
	require.Equal(t, int64(5), seed)
	require.Len(t, restored, len(chunks))
	for i := range chunks {
		require.Equal(t, chunks[i].Pos, restored[i].Pos)
		require.Equal(t, chunks[i].Hash(), restored[i].Hash())
		require.Equal(t, chunks[i].Heightmaps, restored[i].Heightmaps,
			"heightmaps must be rebuilt to match")
	}
}

func TestSnapshotRejectsCorruption(t *testing.T) {
	reg := block.NewRegistry()
	g := NewFlatGenerator(0, reg)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, 0, []*chunk.Data{g.Generate(geom.ChunkPos{})}))

	_, _, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot")), reg)
	require.Error(t, err)

	_, _, err = ReadSnapshot(bytes.NewReader(buf.Bytes()[:buf.Len()/2]), reg)
	require.Error(t, err)

	require.Error(t, WriteSnapshot(&bytes.Buffer{}, 0, nil))
}
