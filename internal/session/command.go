package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/hexsweeper/internal/hexgrid"
	"github.com/vancomm/hexsweeper/internal/records"
)

type verb string

const (
	verbRedraw  verb = "g"
	verbReveal  verb = "o"
	verbFlag    verb = "f"
	verbNew     verb = "n"
	verbForfeit verb = "r"
	verbQuit    verb = "q"
)

func parseCoord(args []string) (hexgrid.Coord, error) {
	if len(args) != 2 {
		return hexgrid.Coord{}, fmt.Errorf("%w: expected two coordinates, got %d", ErrInvalidArgs, len(args))
	}
	q, err := strconv.Atoi(args[0])
	if err != nil {
		return hexgrid.Coord{}, fmt.Errorf("%w: first coordinate must be an int", ErrInvalidArgs)
	}
	r, err := strconv.Atoi(args[1])
	if err != nil {
		return hexgrid.Coord{}, fmt.Errorf("%w: second coordinate must be an int", ErrInvalidArgs)
	}
	return hexgrid.Coord{Q: q, R: r}, nil
}

type newGameArgs struct {
	Radius int `schema:"radius"`
	Mines  int `schema:"mines"`
}

var decoder = schema.NewDecoder()

// parseParams reads key=value pairs such as "radius=5 mines=12". Keys that are
// left out keep their value from current.
func parseParams(current records.Params, args []string) (records.Params, error) {
	src := make(map[string][]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return current, fmt.Errorf("%w: %q is not key=value", ErrInvalidArgs, arg)
		}
		src[strings.ToLower(key)] = append(src[strings.ToLower(key)], value)
	}

	dto := newGameArgs{Radius: current.Radius, Mines: current.Mines}
	if err := decoder.Decode(&dto, src); err != nil {
		return current, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return records.Params{Radius: dto.Radius, Mines: dto.Mines}, nil
}
