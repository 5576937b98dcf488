package mines

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/hexsweeper/internal/hexgrid"
	"github.com/vancomm/hexsweeper/internal/random"
)

var Log = logrus.New()

type State int8

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s State) Terminal() bool {
	return s == Won || s == Lost
}

// Observer is told about every mutation of a field it is subscribed to. It is
// called synchronously and should re-read whatever it needs from the field.
type Observer interface {
	FieldChanged(f *Field)
}

// Field is a hexagonal mine field and the state of the game played on it.
type Field struct {
	grid      *hexgrid.Grid
	tiles     map[hexgrid.Coord]*Tile
	mineCount int
	mines     map[hexgrid.Coord]struct{}

	state   State
	started bool
	elapsed int

	observers []Observer
}

type options struct {
	mines     []hexgrid.Coord
	observers []Observer
}

type Option func(*options)

// WithMines places mines at exactly the given coordinates instead of choosing
// them at random.
func WithMines(coords ...hexgrid.Coord) Option {
	return func(o *options) {
		o.mines = coords
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// New builds a field of the given radius holding mineCount mines. Mines are
// chosen uniformly at random using rnd.
func New(radius, mineCount int, rnd random.Random, opts ...Option) (*Field, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := hexgrid.New(radius)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if mineCount <= 0 || mineCount >= grid.Len() {
		return nil, fmt.Errorf(
			"%w: mine count must be in [1, %d) (radius = %d, mines = %d)",
			ErrInvalidConfiguration, grid.Len(), radius, mineCount,
		)
	}

	f := &Field{
		grid:      grid,
		tiles:     make(map[hexgrid.Coord]*Tile, grid.Len()),
		mineCount: mineCount,
		state:     InProgress,
		observers: o.observers,
	}
	for _, c := range grid.Coords() {
		f.tiles[c] = &Tile{}
	}

	var mines []hexgrid.Coord
	if o.mines != nil {
		mines, err = f.checkLayout(o.mines)
		if err != nil {
			return nil, err
		}
	} else {
		mines = f.sampleMines(rnd)
	}
	f.mines = make(map[hexgrid.Coord]struct{}, len(mines))
	for _, c := range mines {
		f.mines[c] = struct{}{}
		f.tiles[c].mine = true
	}

	f.linkNeighbors()

	Log.WithFields(logrus.Fields{
		"radius": radius,
		"mines":  mineCount,
	}).Debug("field created")

	return f, nil
}

/*
Pick mineCount coordinates without replacement: a partial Fisher-Yates shuffle
where position i is swapped with a uniformly chosen position from [i, n).
*/
func (f *Field) sampleMines(rnd random.Random) []hexgrid.Coord {
	candidates := f.grid.Coords()
	n := len(candidates)
	for i := range f.mineCount {
		j := i + rnd.IntN(n-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:f.mineCount]
}

func (f *Field) checkLayout(mines []hexgrid.Coord) ([]hexgrid.Coord, error) {
	if len(mines) != f.mineCount {
		return nil, fmt.Errorf(
			"%w: %d mine locations given for %d mines",
			ErrInvalidConfiguration, len(mines), f.mineCount,
		)
	}
	seen := make(map[hexgrid.Coord]bool, len(mines))
	for _, c := range mines {
		if !f.grid.Contains(c) {
			return nil, fmt.Errorf("%w: mine at %v is outside the field", ErrInvalidConfiguration, c)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: duplicate mine at %v", ErrInvalidConfiguration, c)
		}
		seen[c] = true
	}
	return mines, nil
}

func (f *Field) linkNeighbors() {
	for c, t := range f.tiles {
		for _, d := range hexgrid.Directions {
			if n, ok := f.grid.Neighbor(c, d); ok {
				t.link(d, n)
			}
		}
	}
	for _, t := range f.tiles {
		for _, n := range t.Neighbors() {
			if f.tiles[n].mine {
				t.count++
			}
		}
	}
}

func (f *Field) Subscribe(o Observer) {
	f.observers = append(f.observers, o)
}

func (f *Field) Unsubscribe(o Observer) {
	f.observers = slices.DeleteFunc(f.observers, func(x Observer) bool {
		return x == o
	})
}

func (f *Field) notify() {
	for _, o := range f.observers {
		o.FieldChanged(f)
	}
}

func (f *Field) Radius() int {
	return f.grid.Radius()
}

func (f *Field) MineCount() int {
	return f.mineCount
}

func (f *Field) State() State {
	return f.state
}

func (f *Field) Started() bool {
	return f.started
}

// Elapsed is the number of seconds counted since the first move.
func (f *Field) Elapsed() int {
	return f.elapsed
}

func (f *Field) PointInRange(c hexgrid.Coord) bool {
	_, ok := f.tiles[c]
	return ok
}

// Coords returns every tile coordinate of the field.
func (f *Field) Coords() []hexgrid.Coord {
	return f.grid.Coords()
}

func (f *Field) Tile(c hexgrid.Coord) (*Tile, error) {
	t, ok := f.tiles[c]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrOutOfRange, c)
	}
	return t, nil
}

// Symbol returns the displayed value of the tile at c: "!" for a flag, " " for
// a hidden tile, "*" for a revealed mine, otherwise the neighboring mine count.
func (f *Field) Symbol(c hexgrid.Coord) (string, error) {
	t, err := f.Tile(c)
	if err != nil {
		return "", err
	}
	return t.Symbol(), nil
}

// Mines returns the mine coordinates in grid order.
func (f *Field) Mines() []hexgrid.Coord {
	mines := make([]hexgrid.Coord, 0, len(f.mines))
	for _, c := range f.grid.Coords() {
		if _, ok := f.mines[c]; ok {
			mines = append(mines, c)
		}
	}
	return mines
}

func (f *Field) FlagCount() int {
	n := 0
	for _, t := range f.tiles {
		if t.flagged {
			n++
		}
	}
	return n
}

type TileSnapshot struct {
	Coord  hexgrid.Coord `json:"coord"`
	Symbol string        `json:"symbol"`
}

// Snapshot is the player-visible state of a field.
type Snapshot struct {
	Radius    int            `json:"radius"`
	MineCount int            `json:"mine_count"`
	FlagCount int            `json:"flag_count"`
	State     State          `json:"state"`
	Started   bool           `json:"started"`
	Elapsed   int            `json:"elapsed"`
	Tiles     []TileSnapshot `json:"tiles"`
}

func (f *Field) Snapshot() Snapshot {
	coords := f.grid.Coords()
	tiles := make([]TileSnapshot, len(coords))
	for i, c := range coords {
		tiles[i] = TileSnapshot{Coord: c, Symbol: f.tiles[c].Symbol()}
	}
	return Snapshot{
		Radius:    f.Radius(),
		MineCount: f.mineCount,
		FlagCount: f.FlagCount(),
		State:     f.state,
		Started:   f.started,
		Elapsed:   f.elapsed,
		Tiles:     tiles,
	}
}
