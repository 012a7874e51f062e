package geom

// Pos is an integer block position in world space.
type Pos struct {
	X, Y, Z int
}

func (p Pos) Add(x, y, z int) Pos {
	return Pos{p.X + x, p.Y + y, p.Z + z}
}

func (p Pos) Offset(d Direction) Pos {
	o := d.Offset()
	return Pos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

func (p Pos) Up() Pos   { return Pos{p.X, p.Y + 1, p.Z} }
func (p Pos) Down() Pos { return Pos{p.X, p.Y - 1, p.Z} }

// ManhattanDistance is the sum of absolute per-axis deltas.
func (p Pos) ManhattanDistance(o Pos) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y) + abs(p.Z-o.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ColumnPos identifies a world column (block X/Z).
type ColumnPos struct {
	X, Z int
}

// ChunkPos identifies a chunk column.
type ChunkPos struct {
	X, Z int
}

// StartPos returns the minimum block position of the chunk at Y=0.
func (c ChunkPos) StartPos() Pos {
	return Pos{c.X << 4, 0, c.Z << 4}
}

// Direction is one of the six axis-aligned unit offsets.
type Direction int

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

var directionOffsets = [6]Pos{
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
	{-1, 0, 0},
	{1, 0, 0},
}

var directionNames = [6]string{"down", "up", "north", "south", "west", "east"}

func (d Direction) Offset() Pos    { return directionOffsets[d] }
func (d Direction) String() string { return directionNames[d] }

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// DirAxis returns the axis a direction runs along.
func (d Direction) DirAxis() Axis {
	switch d {
	case West, East:
		return AxisX
	case North, South:
		return AxisZ
	default:
		return AxisY
	}
}

// Horizontal lists the four cardinal directions in iteration order.
var Horizontal = [4]Direction{North, South, West, East}

// All lists every direction, vertical first.
var All = [6]Direction{Down, Up, North, South, West, East}

// DirectionByName resolves a lowercase direction name, for declarative data.
func DirectionByName(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return Down, false
}

// Axis is a block orientation axis for pillar-like blocks.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisZ:
		return "z"
	default:
		return "y"
	}
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the non-negative remainder of FloorDiv.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// IterateOutwards visits every offset position within the given ranges in
// rough order of increasing distance from the center, center first.
func IterateOutwards(center Pos, rangeX, rangeY, rangeZ int, visit func(Pos) bool) {
	maxDist := rangeX + rangeY + rangeZ
	for dist := 0; dist <= maxDist; dist++ {
		for dx := -rangeX; dx <= rangeX; dx++ {
			rem := dist - abs(dx)
			if rem < 0 {
				continue
			}
			for dy := -rangeY; dy <= rangeY; dy++ {
				dz := rem - abs(dy)
				if dz > rangeZ {
					continue
				}
				if dz >= 0 {
					if !visit(center.Add(dx, dy, dz)) {
						return
					}
					if dz != 0 {
						if !visit(center.Add(dx, dy, -dz)) {
							return
						}
					}
				}
			}
		}
	}
}
