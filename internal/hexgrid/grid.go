package hexgrid

import (
	"errors"
	"fmt"
)

// MaxRadius bounds a grid to a few hundred thousand tiles.
const MaxRadius = 256

var ErrInvalidRadius = errors.New("radius out of range")

// Coord is an axial coordinate of a hexagon within a grid.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Coord implements [fmt.Stringer]
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Q, c.R)
}

func (c Coord) Add(o Coord) Coord {
	return Coord{c.Q + o.Q, c.R + o.R}
}

type Direction int

const (
	Top Direction = iota
	TopRight
	BottomRight
	Bottom
	BottomLeft
	TopLeft
)

// Directions lists all six directions clockwise starting from [Top].
var Directions = [6]Direction{
	Top, TopRight, BottomRight, Bottom, BottomLeft, TopLeft,
}

var offsets = [6]Coord{
	Top:         {0, 1},
	TopRight:    {1, 1},
	BottomRight: {1, 0},
	Bottom:      {0, -1},
	BottomLeft:  {-1, -1},
	TopLeft:     {-1, 0},
}

func (d Direction) Offset() Coord {
	return offsets[d]
}

// Opposite returns the direction pointing back at the origin tile.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case Bottom:
		return "bottom"
	case BottomLeft:
		return "bottom-left"
	case TopLeft:
		return "top-left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

/*
Grid is the set of tiles making up a regular hexagon. A radius of 1 is a single
tile, 2 adds one ring around it, and so on.

Tiles are the coordinates (x, y) with 0 <= x, y < 2r-1 and |x - y| < r, which
puts the center at (r-1, r-1).
*/
type Grid struct {
	radius int
	coords []Coord
	index  map[Coord]struct{}
}

func New(radius int) (*Grid, error) {
	if radius < 1 || radius > MaxRadius {
		return nil, fmt.Errorf("%w: must be in [1, %d] (radius = %d)", ErrInvalidRadius, MaxRadius, radius)
	}
	side := 2*radius - 1
	g := &Grid{
		radius: radius,
		coords: make([]Coord, 0, Size(radius)),
		index:  make(map[Coord]struct{}, Size(radius)),
	}
	for x := range side {
		for y := range side {
			if absDiff(x, y) < radius {
				c := Coord{x, y}
				g.index[c] = struct{}{}
				g.coords = append(g.coords, c)
			}
		}
	}
	return g, nil
}

// Size returns the number of tiles in a grid of the given radius.
func Size(radius int) int {
	if radius < 1 {
		return 0
	}
	return 3*radius*radius - 3*radius + 1
}

func (g *Grid) Radius() int {
	return g.radius
}

func (g *Grid) Len() int {
	return len(g.coords)
}

func (g *Grid) Contains(c Coord) bool {
	_, ok := g.index[c]
	return ok
}

// Coords returns a copy of all tile coordinates ordered by x, then y.
func (g *Grid) Coords() []Coord {
	coords := make([]Coord, len(g.coords))
	copy(coords, g.coords)
	return coords
}

func (g *Grid) Neighbor(c Coord, d Direction) (Coord, bool) {
	n := c.Add(d.Offset())
	return n, g.Contains(n)
}

// Neighbors returns the existing neighbors of c in [Directions] order. Edge
// and corner tiles have fewer than six.
func (g *Grid) Neighbors(c Coord) []Coord {
	if !g.Contains(c) {
		return nil
	}
	ns := make([]Coord, 0, len(Directions))
	for _, d := range Directions {
		if n, ok := g.Neighbor(c, d); ok {
			ns = append(ns, n)
		}
	}
	return ns
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
