package chunk

import (
	"chunkforge/internal/block"
	"chunkforge/internal/geom"
)

const (
	// Chunk footprint
	SizeX = 16
	SizeZ = 16

	// Section and biome cell edge lengths
	SectionHeight = 16
	BiomeCell     = 4
)

// Shape is the vertical extent of a dimension. Height must be a multiple of
// the section height.
type Shape struct {
	MinY   int
	Height int
}

func (s Shape) TopY() int         { return s.MinY + s.Height }
func (s Shape) Sections() int     { return s.Height / SectionHeight }
func (s Shape) BiomeMinY() int    { return geom.FloorDiv(s.MinY, BiomeCell) }
func (s Shape) BiomeHeight() int  { return s.Height / BiomeCell }
func (s Shape) OutOfRange(y int) bool { return y < s.MinY || y >= s.TopY() }

// HeightmapKind selects one of the running per-column heightmaps.
type HeightmapKind int

const (
	WorldSurface HeightmapKind = iota
	OceanFloor
	MotionBlocking
	MotionBlockingNoLeaves
	heightmapCount
)

// BiomeID indexes the biome registry. Zero is the registry default.
type BiomeID uint8

// ProtoChunk is the mutable voxel buffer for one chunk column while it is
// being generated. Not safe for concurrent use; each generation job owns its
// proto-chunk exclusively.
type ProtoChunk struct {
	Pos   geom.ChunkPos
	shape Shape
	reg   *block.Registry

	blocks     []block.StateID
	biomes     []BiomeID
	heightmaps [heightmapCount][SizeX * SizeZ]int
}

func NewProtoChunk(pos geom.ChunkPos, shape Shape, reg *block.Registry) *ProtoChunk {
	p := &ProtoChunk{
		Pos:    pos,
		shape:  shape,
		reg:    reg,
		blocks: make([]block.StateID, SizeX*shape.Height*SizeZ),
		biomes: make([]BiomeID, (SizeX/BiomeCell)*shape.BiomeHeight()*(SizeZ/BiomeCell)),
	}
	for k := range p.heightmaps {
		for i := range p.heightmaps[k] {
			p.heightmaps[k][i] = shape.MinY
		}
	}
	return p
}

func (p *ProtoChunk) Shape() Shape              { return p.shape }
func (p *ProtoChunk) Registry() *block.Registry { return p.reg }
func (p *ProtoChunk) BottomY() int              { return p.shape.MinY }
func (p *ProtoChunk) TopY() int                 { return p.shape.TopY() }
func (p *ProtoChunk) OutOfHeight(y int) bool    { return p.shape.OutOfRange(y) }

// local converts a world position to chunk-local coordinates; ok is false
// when the position lies outside this chunk's bounds.
func (p *ProtoChunk) local(pos geom.Pos) (x, y, z int, ok bool) {
	x = pos.X - p.Pos.X*SizeX
	z = pos.Z - p.Pos.Z*SizeZ
	y = pos.Y - p.shape.MinY
	ok = x >= 0 && x < SizeX && z >= 0 && z < SizeZ && y >= 0 && y < p.shape.Height
	return
}

func blockIndex(x, y, z, height int) int {
	return x*height*SizeZ + y*SizeZ + z
}

// StateAt returns the block state at a world position. Positions outside
// this chunk or its height range resolve to the air sentinel.
func (p *ProtoChunk) StateAt(pos geom.Pos) *block.State {
	x, y, z, ok := p.local(pos)
	if !ok {
		return p.reg.Air
	}
	return p.reg.State(p.blocks[blockIndex(x, y, z, p.shape.Height)])
}

func (p *ProtoChunk) IsAir(pos geom.Pos) bool {
	return p.StateAt(pos).IsAir()
}

// SetState writes a block state and keeps the heightmaps current. Writes
// outside the chunk bounds are ignored; cross-chunk geometry goes through
// the level collaborator instead.
func (p *ProtoChunk) SetState(pos geom.Pos, s *block.State) {
	x, y, z, ok := p.local(pos)
	if !ok {
		return
	}
	p.blocks[blockIndex(x, y, z, p.shape.Height)] = s.ID
	for k := HeightmapKind(0); k < heightmapCount; k++ {
		p.updateHeightmap(k, x, pos.Y, z, s)
	}
}

func heightmapTracks(k HeightmapKind, s *block.State) bool {
	switch k {
	case WorldSurface:
		return !s.IsAir()
	case OceanFloor:
		return s.Block.Solid
	case MotionBlocking:
		return s.Block.Solid || s.Block.Fluid
	default: // MotionBlockingNoLeaves
		return (s.Block.Solid || s.Block.Fluid) && !s.Block.IsTaggedWith("leaves")
	}
}

func (p *ProtoChunk) updateHeightmap(k HeightmapKind, x, worldY, z int, s *block.State) {
	col := x*SizeZ + z
	top := p.heightmaps[k][col]
	if heightmapTracks(k, s) {
		if worldY >= top {
			p.heightmaps[k][col] = worldY + 1
		}
		return
	}
	if worldY == top-1 {
		// Cleared the previous top block; rescan downward.
		for y := worldY - 1; y >= p.shape.MinY; y-- {
			st := p.StateAt(geom.Pos{X: p.Pos.X*SizeX + x, Y: y, Z: p.Pos.Z*SizeZ + z})
			if heightmapTracks(k, st) {
				p.heightmaps[k][col] = y + 1
				return
			}
		}
		p.heightmaps[k][col] = p.shape.MinY
	}
}

// HeightExclusive returns one above the highest tracked block of a column,
// or the bottom of the world when the column is empty. The column is
// addressed by world X/Z; columns outside this chunk report the bottom.
func (p *ProtoChunk) HeightExclusive(k HeightmapKind, col geom.ColumnPos) int {
	x := col.X - p.Pos.X*SizeX
	z := col.Z - p.Pos.Z*SizeZ
	if x < 0 || x >= SizeX || z < 0 || z >= SizeZ {
		return p.shape.MinY
	}
	return p.heightmaps[k][x*SizeZ+z]
}

// TopBlockHeightExclusive is the world-surface heightmap query.
func (p *ProtoChunk) TopBlockHeightExclusive(col geom.ColumnPos) int {
	return p.HeightExclusive(WorldSurface, col)
}

// OceanFloorHeightExclusive ignores fluids and plants.
func (p *ProtoChunk) OceanFloorHeightExclusive(col geom.ColumnPos) int {
	return p.HeightExclusive(OceanFloor, col)
}

func (p *ProtoChunk) biomeIndex(cx, cy, cz int) int {
	cellsZ := SizeZ / BiomeCell
	return cx*p.shape.BiomeHeight()*cellsZ + cy*cellsZ + cz
}

// SetBiome stores a biome id for one 4x4x4 cell, addressed in biome
// coordinates relative to the chunk (cx, cz in [0,4), cy from the bottom).
func (p *ProtoChunk) SetBiome(cx, cy, cz int, id BiomeID) {
	if cx < 0 || cx >= SizeX/BiomeCell || cz < 0 || cz >= SizeZ/BiomeCell || cy < 0 || cy >= p.shape.BiomeHeight() {
		return
	}
	p.biomes[p.biomeIndex(cx, cy, cz)] = id
}

// BiomeAt resolves the biome covering a world block position.
func (p *ProtoChunk) BiomeAt(pos geom.Pos) BiomeID {
	cx := geom.FloorMod(geom.FloorDiv(pos.X, BiomeCell), SizeX/BiomeCell)
	cz := geom.FloorMod(geom.FloorDiv(pos.Z, BiomeCell), SizeZ/BiomeCell)
	cy := geom.FloorDiv(pos.Y-p.shape.MinY, BiomeCell)
	if cy < 0 {
		cy = 0
	}
	if cy >= p.shape.BiomeHeight() {
		cy = p.shape.BiomeHeight() - 1
	}
	return p.biomes[p.biomeIndex(cx, cy, cz)]
}
