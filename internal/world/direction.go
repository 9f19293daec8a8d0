package world

import "fmt"

// Direction is one of the six axis-aligned face directions.
type Direction uint8

const (
	Down  Direction = iota // -Y
	Up                     // +Y
	North                  // -Z
	South                  // +Z
	West                   // -X
	East                   // +X
)

// Directions lists all six directions in index order.
var Directions = [6]Direction{Down, Up, North, South, West, East}

var directionNames = [6]string{"down", "up", "north", "south", "west", "east"}

var directionOffsets = [6][3]int{
	Down:  {0, -1, 0},
	Up:    {0, 1, 0},
	North: {0, 0, -1},
	South: {0, 0, 1},
	West:  {-1, 0, 0},
	East:  {1, 0, 0},
}

// Axis identifies a coordinate axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Offset returns the unit step (dx, dy, dz) of d.
func (d Direction) Offset() (dx, dy, dz int) {
	o := directionOffsets[d]
	return o[0], o[1], o[2]
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Axis returns the axis d points along.
func (d Direction) Axis() Axis {
	switch d {
	case Down, Up:
		return AxisY
	case North, South:
		return AxisZ
	default:
		return AxisX
	}
}

// Positive reports whether d points along the positive half of its axis.
func (d Direction) Positive() bool {
	return d&1 == 1
}

// Mask returns the bit for d in a 6-bit direction set.
func (d Direction) Mask() uint8 {
	return 1 << d
}

// ParseDirection converts a lowercase direction name into a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
