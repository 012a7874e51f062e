package chunk

import (
	"crypto/sha256"
	"encoding/binary"

	"chunkforge/internal/block"
	"chunkforge/internal/geom"
)

// Data is the finished, immutable result of generating one chunk: the voxel
// and biome buffers plus the final heightmaps, handed by value to the store.
type Data struct {
	Pos        geom.ChunkPos
	Shape      Shape
	Blocks     []block.StateID
	Biomes     []BiomeID
	Heightmaps [heightmapCount][SizeX * SizeZ]int
}

// Seal copies the proto-chunk buffers into their long-lived representation.
// The proto-chunk may be discarded afterwards.
func (p *ProtoChunk) Seal() *Data {
	d := &Data{
		Pos:        p.Pos,
		Shape:      p.shape,
		Blocks:     make([]block.StateID, len(p.blocks)),
		Biomes:     make([]BiomeID, len(p.biomes)),
		Heightmaps: p.heightmaps,
	}
	copy(d.Blocks, p.blocks)
	copy(d.Biomes, p.biomes)
	return d
}

// StateIDAt reads a sealed chunk by chunk-local coordinates. Out-of-range
// reads return the air id.
func (d *Data) StateIDAt(x, y, z int) block.StateID {
	ly := y - d.Shape.MinY
	if x < 0 || x >= SizeX || z < 0 || z >= SizeZ || ly < 0 || ly >= d.Shape.Height {
		return 0
	}
	return d.Blocks[blockIndex(x, ly, z, d.Shape.Height)]
}

// Hash digests the voxel and biome buffers, for determinism checks and
// snapshot integrity.
func (d *Data) Hash() [32]byte {
	h := sha256.New()
	buf := make([]byte, 2)
	for _, id := range d.Blocks {
		binary.LittleEndian.PutUint16(buf, uint16(id))
		h.Write(buf)
	}
	for _, b := range d.Biomes {
		h.Write([]byte{byte(b)})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
