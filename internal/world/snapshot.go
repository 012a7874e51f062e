package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/geom"
)

// Snapshot format: a zstd stream carrying a fixed header, then one record
// per chunk with its stored hash. Hashes are re-checked on read so a
// corrupted or truncated snapshot fails loudly instead of loading garbage
// terrain.
var snapshotMagic = [8]byte{'C', 'F', 'S', 'N', 'A', 'P', '0', '1'}

type snapshotHeader struct {
	Magic      [8]byte
	Seed       int64
	MinY       int32
	Height     int32
	ChunkCount uint32
}

// WriteSnapshot compresses the given chunks into w.
func WriteSnapshot(w io.Writer, seed int64, chunks []*chunk.Data) error {
	if len(chunks) == 0 {
		return fmt.Errorf("world: empty snapshot")
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("world: snapshot writer: %w", err)
	}

	shape := chunks[0].Shape
	hdr := snapshotHeader{
		Magic:      snapshotMagic,
		Seed:       seed,
		MinY:       int32(shape.MinY),
		Height:     int32(shape.Height),
		ChunkCount: uint32(len(chunks)),
	}
	if err := binary.Write(zw, binary.LittleEndian, hdr); err != nil {
		zw.Close()
		return err
	}
	for _, d := range chunks {
		if d.Shape != shape {
			zw.Close()
			return fmt.Errorf("world: mixed chunk shapes in snapshot")
		}
		if err := writeChunkRecord(zw, d); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func writeChunkRecord(w io.Writer, d *chunk.Data) error {
	if err := binary.Write(w, binary.LittleEndian, int32(d.Pos.X)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(d.Pos.Z)); err != nil {
		return err
	}
	blocks := make([]uint16, len(d.Blocks))
	for i, id := range d.Blocks {
		blocks[i] = uint16(id)
	}
	if err := binary.Write(w, binary.LittleEndian, blocks); err != nil {
		return err
	}
	biomes := make([]uint8, len(d.Biomes))
	for i, b := range d.Biomes {
		biomes[i] = uint8(b)
	}
	if err := binary.Write(w, binary.LittleEndian, biomes); err != nil {
		return err
	}
	hash := d.Hash()
	_, err := w.Write(hash[:])
	return err
}

// ReadSnapshot decompresses a snapshot, verifying every chunk hash. It
// returns the world seed the snapshot was generated with.
func ReadSnapshot(r io.Reader, reg *block.Registry) (int64, []*chunk.Data, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, nil, fmt.Errorf("world: snapshot reader: %w", err)
	}
	defer zr.Close()

	var hdr snapshotHeader
	if err := binary.Read(zr, binary.LittleEndian, &hdr); err != nil {
		return 0, nil, fmt.Errorf("world: snapshot header: %w", err)
	}
	if hdr.Magic != snapshotMagic {
		return 0, nil, fmt.Errorf("world: not a snapshot (bad magic)")
	}
	shape := chunk.Shape{MinY: int(hdr.MinY), Height: int(hdr.Height)}

	chunks := make([]*chunk.Data, 0, hdr.ChunkCount)
	for i := uint32(0); i < hdr.ChunkCount; i++ {
		d, err := readChunkRecord(zr, shape, reg)
		if err != nil {
			return 0, nil, fmt.Errorf("world: snapshot chunk %d: %w", i, err)
		}
		chunks = append(chunks, d)
	}
	return hdr.Seed, chunks, nil
}

func readChunkRecord(r io.Reader, shape chunk.Shape, reg *block.Registry) (*chunk.Data, error) {
	var x, z int32
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &z); err != nil {
		return nil, err
	}

	blockCount := chunk.SizeX * shape.Height * chunk.SizeZ
	raw := make([]uint16, blockCount)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, err
	}
	blocks := make([]block.StateID, blockCount)
	stateCount := reg.StateCount()
	for i, id := range raw {
		if int(id) >= stateCount {
			return nil, fmt.Errorf("state id %d out of range", id)
		}
		blocks[i] = block.StateID(id)
	}

	biomeCount := (chunk.SizeX / chunk.BiomeCell) * shape.BiomeHeight() * (chunk.SizeZ / chunk.BiomeCell)
	rawBiomes := make([]uint8, biomeCount)
	if err := binary.Read(r, binary.LittleEndian, rawBiomes); err != nil {
		return nil, err
	}
	biomes := make([]chunk.BiomeID, biomeCount)
	for i, b := range rawBiomes {
		biomes[i] = chunk.BiomeID(b)
	}

	var stored [32]byte
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return nil, err
	}

	d := &chunk.Data{
		Pos:    geom.ChunkPos{X: int(x), Z: int(z)},
		Shape:  shape,
		Blocks: blocks,
		Biomes: biomes,
	}
	if got := d.Hash(); !bytes.Equal(got[:], stored[:]) {
		return nil, fmt.Errorf("hash mismatch")
	}
	rebuildHeightmaps(d, reg)
	return d, nil
}

// rebuildHeightmaps derives the heightmaps from the voxel buffer; snapshots
// do not carry them.
func rebuildHeightmaps(d *chunk.Data, reg *block.Registry) {
	for lx := 0; lx < chunk.SizeX; lx++ {
		for lz := 0; lz < chunk.SizeZ; lz++ {
			col := lx*chunk.SizeZ + lz
			for k := range d.Heightmaps {
				d.Heightmaps[k][col] = d.Shape.MinY
			}
			for y := d.Shape.TopY() - 1; y >= d.Shape.MinY; y-- {
				s := reg.State(d.StateIDAt(lx, y, lz))
				if s.IsAir() {
					continue
				}
				setHeightIfHigher(d, chunk.WorldSurface, col, y+1)
				if s.Block.Solid {
					setHeightIfHigher(d, chunk.OceanFloor, col, y+1)
				}
				if s.Block.Solid || s.Block.Fluid {
					setHeightIfHigher(d, chunk.MotionBlocking, col, y+1)
					if !s.Block.IsTaggedWith("leaves") {
						setHeightIfHigher(d, chunk.MotionBlockingNoLeaves, col, y+1)
					}
				}
			}
		}
	}
}

func setHeightIfHigher(d *chunk.Data, k chunk.HeightmapKind, col, h int) {
	if h > d.Heightmaps[k][col] {
		d.Heightmaps[k][col] = h
	}
}
