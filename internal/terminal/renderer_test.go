package terminal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/hexsweeper/internal/hexgrid"
	"github.com/vancomm/hexsweeper/internal/mines"
	"github.com/vancomm/hexsweeper/internal/records"
)

func field(t *testing.T) *mines.Field {
	t.Helper()
	f, err := mines.New(2, 1, nil, mines.WithMines(hexgrid.Coord{Q: 0, R: 0}))
	require.NoError(t, err)
	return f
}

func TestBoardLayout(t *testing.T) {
	f := field(t)
	assert.Equal(t, strings.Join([]string{
		"    [ ]",
		"[ ]     [ ]",
		"    [ ]",
		"[ ]     [ ]",
		"    [ ]",
		"",
	}, "\n"), Board(f.Snapshot()))

	require.NoError(t, f.Reveal(hexgrid.Coord{Q: 2, R: 2}))
	assert.Equal(t, strings.Join([]string{
		"    [0]",
		"[1]     [0]",
		"    [1]",
		"[ ]     [0]",
		"    [1]",
		"",
	}, "\n"), Board(f.Snapshot()))
}

// position of tile c on a full board of the given radius
func position(radius int, c hexgrid.Coord) (line, column int) {
	top := 3 * (radius - 1)
	return top - (2*c.R - c.Q), 4 * c.Q
}

func TestTilePositionsOnBoard(t *testing.T) {
	f, err := mines.New(4, 5, nil, mines.WithMines(
		hexgrid.Coord{Q: 0, R: 0}, hexgrid.Coord{Q: 1, R: 3}, hexgrid.Coord{Q: 3, R: 3},
		hexgrid.Coord{Q: 6, R: 6}, hexgrid.Coord{Q: 5, R: 2},
	))
	require.NoError(t, err)
	require.NoError(t, f.ToggleFlag(hexgrid.Coord{Q: 4, R: 5}))

	lines := strings.Split(Board(f.Snapshot()), "\n")
	line, col := position(4, hexgrid.Coord{Q: 4, R: 5})
	assert.Equal(t, "[!]", lines[line][col:col+3])

	line, col = position(4, hexgrid.Coord{Q: 3, R: 0})
	assert.Equal(t, "[ ]", lines[line][col:col+3])
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatText)
	f := field(t)
	f.Subscribe(r)

	require.NoError(t, f.ToggleFlag(hexgrid.Coord{Q: 1, R: 1}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "state: in_progress  time: 0s  flags: 1/1\n"), out)
	assert.Contains(t, out, "    [!]")

	buf.Reset()
	r.GameOver(f, records.Record{Won: true, ElapsedSeconds: 75})
	assert.Contains(t, buf.String(), "You won in 1m15s!")

	buf.Reset()
	r.GameOver(f, records.Record{ElapsedSeconds: 3})
	assert.Contains(t, buf.String(), "You lost after 3s.")

	buf.Reset()
	r.Error(errors.New("nope"))
	assert.Equal(t, "Error: nope\n", buf.String())

	buf.Reset()
	r.Records(nil)
	assert.Equal(t, "No records yet.\n", buf.String())

	buf.Reset()
	r.Records([]records.Record{{
		ElapsedSeconds: 42,
		FinishedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}})
	assert.Equal(t, " 1. 42s      2024-01-02 03:04:05\n", buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON)
	f := field(t)
	f.Subscribe(r)

	require.NoError(t, f.Reveal(hexgrid.Coord{Q: 0, R: 0}))

	var snap struct {
		Radius int    `json:"radius"`
		State  string `json:"state"`
		Tiles  []struct {
			Coord  hexgrid.Coord `json:"coord"`
			Symbol string        `json:"symbol"`
		} `json:"tiles"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, 2, snap.Radius)
	assert.Equal(t, "lost", snap.State)
	assert.Len(t, snap.Tiles, 7)

	buf.Reset()
	id := uuid.New()
	r.GameOver(f, records.Record{ID: id, Radius: 2, Mines: 1})
	var over struct {
		Record records.Record `json:"game_over"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &over))
	assert.Equal(t, id, over.Record.ID)

	buf.Reset()
	r.Error(errors.New("bad"))
	assert.JSONEq(t, `{"error":"bad"}`, buf.String())
}

func TestJSONRendererEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON)

	r.json(map[string]any{"bad": make(chan int)})
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Contains(t, out.Error, "unable to encode")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
