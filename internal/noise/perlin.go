package noise

import (
	"math"

	"chunkforge/internal/rng"
)

// gradients are the 16 reference gradient vectors; indices 12-15 repeat
// earlier entries on purpose.
var gradients = [16][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

// PerlinSampler is a single-octave gradient-noise sampler. Construction
// consumes exactly 3 double draws and 256 bounded int draws from the source;
// the draw order is part of the determinism contract.
type PerlinSampler struct {
	originX, originY, originZ float64
	permutation               [256]byte
}

func NewPerlinSampler(r rng.Source) *PerlinSampler {
	p := &PerlinSampler{
		originX: r.NextFloat64() * 256,
		originY: r.NextFloat64() * 256,
		originZ: r.NextFloat64() * 256,
	}
	for i := range p.permutation {
		p.permutation[i] = byte(i)
	}
	for i := 0; i < 256; i++ {
		j := int(r.NextBounded(int32(256 - i)))
		p.permutation[i], p.permutation[i+j] = p.permutation[i+j], p.permutation[i]
	}
	return p
}

func (p *PerlinSampler) mapIdx(i int) int {
	return int(p.permutation[i&0xFF]) & 0xFF
}

func grad(hash int, x, y, z float64) float64 {
	g := gradients[hash&15]
	return g[0]*x + g[1]*y + g[2]*z
}

func perlinFade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(delta, a, b float64) float64 {
	return a + delta*(b-a)
}

func lerp2(dx, dy, a, b, c, d float64) float64 {
	return lerp(dy, lerp(dx, a, b), lerp(dx, c, d))
}

func lerp3(dx, dy, dz, a, b, c, d, e, f, g, h float64) float64 {
	return lerp(dz, lerp2(dx, dy, a, b, c, d), lerp2(dx, dy, e, f, g, h))
}

func floorToInt(f float64) int {
	return int(math.Floor(f))
}

// Sample evaluates the noise at the given point.
func (p *PerlinSampler) Sample(x, y, z float64) float64 {
	return p.SampleScaled(x, y, z, 0, 0)
}

// SampleScaled additionally snaps the Y fraction to a multiple of yScale
// (capped by yMax), reproducing the reference's terrain-band behavior.
func (p *PerlinSampler) SampleScaled(x, y, z, yScale, yMax float64) float64 {
	dx := x + p.originX
	dy := y + p.originY
	dz := z + p.originZ
	ix := floorToInt(dx)
	iy := floorToInt(dy)
	iz := floorToInt(dz)
	fx := dx - float64(ix)
	fy := dy - float64(iy)
	fz := dz - float64(iz)

	var yOff float64
	if yScale != 0 {
		m := fy
		if yMax >= 0 && yMax < fy {
			m = yMax
		}
		yOff = math.Floor(m/yScale+1e-7) * yScale
	}
	return p.sampleSection(ix, iy, iz, fx, fy-yOff, fz, fy)
}

func (p *PerlinSampler) sampleSection(secX, secY, secZ int, localX, localY, localZ, fadeY float64) float64 {
	i := p.mapIdx(secX)
	j := p.mapIdx(secX + 1)
	k := p.mapIdx(i + secY)
	m := p.mapIdx(i + secY + 1)
	n := p.mapIdx(j + secY)
	o := p.mapIdx(j + secY + 1)

	a := grad(p.mapIdx(k+secZ), localX, localY, localZ)
	b := grad(p.mapIdx(n+secZ), localX-1, localY, localZ)
	c := grad(p.mapIdx(m+secZ), localX, localY-1, localZ)
	d := grad(p.mapIdx(o+secZ), localX-1, localY-1, localZ)
	e := grad(p.mapIdx(k+secZ+1), localX, localY, localZ-1)
	f := grad(p.mapIdx(n+secZ+1), localX-1, localY, localZ-1)
	g := grad(p.mapIdx(m+secZ+1), localX, localY-1, localZ-1)
	h := grad(p.mapIdx(o+secZ+1), localX-1, localY-1, localZ-1)

	fadeX := perlinFade(localX)
	fadeYv := perlinFade(fadeY)
	fadeZ := perlinFade(localZ)
	return lerp3(fadeX, fadeYv, fadeZ, a, b, c, d, e, f, g, h)
}
