package mines

import (
	"strconv"

	"github.com/vancomm/hexsweeper/internal/hexgrid"
)

const (
	SymbolFlag   = "!"
	SymbolHidden = " "
	SymbolMine   = "*"
)

// Tile is a single hexagon of a [Field]. Neighbors are kept as coordinates
// into the field that owns the tile.
type Tile struct {
	mine     bool
	revealed bool
	flagged  bool
	count    int

	neighbors [6]hexgrid.Coord
	linked    uint8 // bit d set when neighbors[d] exists
}

func (t *Tile) Mine() bool {
	return t.mine
}

func (t *Tile) Revealed() bool {
	return t.revealed
}

func (t *Tile) Flagged() bool {
	return t.flagged
}

// Count is the number of neighboring tiles holding a mine.
func (t *Tile) Count() int {
	return t.count
}

func (t *Tile) Neighbor(d hexgrid.Direction) (hexgrid.Coord, bool) {
	if t.linked&(1<<d) == 0 {
		return hexgrid.Coord{}, false
	}
	return t.neighbors[d], true
}

func (t *Tile) Neighbors() []hexgrid.Coord {
	ns := make([]hexgrid.Coord, 0, len(hexgrid.Directions))
	for _, d := range hexgrid.Directions {
		if n, ok := t.Neighbor(d); ok {
			ns = append(ns, n)
		}
	}
	return ns
}

func (t *Tile) link(d hexgrid.Direction, c hexgrid.Coord) {
	t.neighbors[d] = c
	t.linked |= 1 << d
}

// Symbol is what a player sees on the tile.
func (t *Tile) Symbol() string {
	switch {
	case t.flagged:
		return SymbolFlag
	case !t.revealed:
		return SymbolHidden
	case t.mine:
		return SymbolMine
	default:
		return strconv.Itoa(t.count)
	}
}
