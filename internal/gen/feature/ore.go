package feature

import (
	"encoding/json"
	"fmt"
	"math"

	"chunkforge/internal/block"
	"chunkforge/internal/chunk"
	"chunkforge/internal/gen/predicate"
	"chunkforge/internal/geom"
	"chunkforge/internal/rng"
)

// OreTarget pairs a replaceability test with the state that replaces it.
type OreTarget struct {
	Target predicate.RuleTest
	State  *block.State
}

// OreFeature grows an ore vein along a randomly angled segment, placing
// spheroid blobs of decreasing radius along it.
type OreFeature struct {
	Size                       int
	DiscardChanceOnAirExposure float32
	Targets                    []OreTarget
}

func (f OreFeature) Generate(ctx *Context, r rng.Source, origin geom.Pos) bool {
	if f.Size <= 0 {
		return false
	}
	angle := float64(r.NextFloat32()) * math.Pi
	reach := float64(f.Size) / 8.0
	margin := int(math.Ceil((float64(f.Size)/16.0*2.0 + 1.0) / 2.0))

	x1 := float64(origin.X) + math.Sin(angle)*reach
	x2 := float64(origin.X) - math.Sin(angle)*reach
	z1 := float64(origin.Z) + math.Cos(angle)*reach
	z2 := float64(origin.Z) - math.Cos(angle)*reach
	y1 := float64(origin.Y + int(r.NextBounded(3)) - 2)
	y2 := float64(origin.Y + int(r.NextBounded(3)) - 2)

	minX := origin.X - int(math.Ceil(reach)) - margin
	minY := origin.Y - 2 - margin
	minZ := origin.Z - int(math.Ceil(reach)) - margin
	horizontal := 2 * (int(math.Ceil(reach)) + margin)
	vertical := 2 * (2 + margin)

	for x := minX; x <= minX+horizontal; x++ {
		for z := minZ; z <= minZ+horizontal; z++ {
			if minY <= ctx.Level.HeightExclusive(chunk.OceanFloor, geom.ColumnPos{X: x, Z: z}) {
				return f.placeVein(ctx, r, x1, x2, z1, z2, y1, y2, minX, minY, minZ, horizontal, vertical)
			}
		}
	}
	return false
}

func (f OreFeature) placeVein(ctx *Context, r rng.Source, x1, x2, z1, z2, y1, y2 float64, minX, minY, minZ, width, height int) bool {
	size := f.Size
	blobs := make([]float64, size*4)
	for i := 0; i < size; i++ {
		t := float64(i) / float64(size)
		jitter := r.NextFloat64() * float64(size) / 16.0
		radius := ((math.Sin(math.Pi*t)+1.0)*jitter + 1.0) / 2.0
		blobs[i*4+0] = lerp(t, x1, x2)
		blobs[i*4+1] = lerp(t, y1, y2)
		blobs[i*4+2] = lerp(t, z1, z2)
		blobs[i*4+3] = radius
	}

	// A blob fully dominated by a larger neighbor contributes nothing;
	// its radius is negated so the fill loop skips it.
	for i := 0; i < size-1; i++ {
		if blobs[i*4+3] <= 0 {
			continue
		}
		for j := i + 1; j < size; j++ {
			if blobs[j*4+3] <= 0 {
				continue
			}
			dx := blobs[i*4+0] - blobs[j*4+0]
			dy := blobs[i*4+1] - blobs[j*4+1]
			dz := blobs[i*4+2] - blobs[j*4+2]
			dr := blobs[i*4+3] - blobs[j*4+3]
			if dr*dr > dx*dx+dy*dy+dz*dz {
				if dr > 0 {
					blobs[j*4+3] = -1
				} else {
					blobs[i*4+3] = -1
				}
			}
		}
	}

	visited := make([]uint64, (width*height*width+63)/64)
	placed := 0
	for i := 0; i < size; i++ {
		radius := blobs[i*4+3]
		if radius < 0 {
			continue
		}
		cx := blobs[i*4+0]
		cy := blobs[i*4+1]
		cz := blobs[i*4+2]

		x0 := maxOf(floorToInt(cx-radius), minX)
		y0 := maxOf(floorToInt(cy-radius), minY)
		z0 := maxOf(floorToInt(cz-radius), minZ)
		xe := maxOf(floorToInt(cx+radius), x0)
		ye := maxOf(floorToInt(cy+radius), y0)
		ze := maxOf(floorToInt(cz+radius), z0)

		for x := x0; x <= xe; x++ {
			nx := (float64(x) + 0.5 - cx) / radius
			if nx*nx >= 1 {
				continue
			}
			for y := y0; y <= ye; y++ {
				ny := (float64(y) + 0.5 - cy) / radius
				if nx*nx+ny*ny >= 1 {
					continue
				}
				for z := z0; z <= ze; z++ {
					nz := (float64(z) + 0.5 - cz) / radius
					if nx*nx+ny*ny+nz*nz >= 1 || ctx.OutOfHeight(y) {
						continue
					}
					idx := x - minX + (y-minY)*width + (z-minZ)*width*height
					if visited[idx/64]&(1<<(idx%64)) != 0 {
						continue
					}
					visited[idx/64] |= 1 << (idx % 64)
					pos := geom.Pos{X: x, Y: y, Z: z}
					if f.placeTarget(ctx, r, pos) {
						placed++
					}
				}
			}
		}
	}
	return placed > 0
}

func (f OreFeature) placeTarget(ctx *Context, r rng.Source, pos geom.Pos) bool {
	current := ctx.Level.StateAt(pos)
	for _, t := range f.Targets {
		if !t.Target.Test(current, r) {
			continue
		}
		if !f.skipAirCheck(r) && f.adjacentToAir(ctx, pos) {
			return false
		}
		ctx.Level.SetState(pos, t.State)
		return true
	}
	return false
}

func (f OreFeature) skipAirCheck(r rng.Source) bool {
	if f.DiscardChanceOnAirExposure <= 0 {
		return true
	}
	if f.DiscardChanceOnAirExposure >= 1 {
		return false
	}
	return r.NextFloat32() >= f.DiscardChanceOnAirExposure
}

func (f OreFeature) adjacentToAir(ctx *Context, pos geom.Pos) bool {
	for _, d := range geom.All {
		if ctx.Level.StateAt(pos.Offset(d)).Block.Air {
			return true
		}
	}
	return false
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func floorToInt(v float64) int { return int(math.Floor(v)) }

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type oreTargetJSON struct {
	Target json.RawMessage `json:"target"`
	State  json.RawMessage `json:"state"`
}

type oreJSON struct {
	Size                       int             `json:"size"`
	DiscardChanceOnAirExposure float32         `json:"discard_chance_on_air_exposure"`
	Targets                    []oreTargetJSON `json:"targets"`
}

func decodeOre(cfg json.RawMessage, reg *block.Registry) (Feature, error) {
	var v oreJSON
	if err := json.Unmarshal(cfg, &v); err != nil {
		return nil, err
	}
	if v.Size <= 0 || v.Size > 64 {
		return nil, fmt.Errorf("vein size %d out of range", v.Size)
	}
	targets := make([]OreTarget, 0, len(v.Targets))
	for _, t := range v.Targets {
		rt, err := predicate.DecodeRuleTest(t.Target, reg)
		if err != nil {
			return nil, err
		}
		s, err := predicate.DecodeStateCodec(t.State, reg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, OreTarget{Target: rt, State: s})
	}
	return OreFeature{
		Size:                       v.Size,
		DiscardChanceOnAirExposure: v.DiscardChanceOnAirExposure,
		Targets:                    targets,
	}, nil
}

func init() {
	registerDecoder("ore", decodeOre)
}
