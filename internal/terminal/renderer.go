package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vancomm/hexsweeper/internal/mines"
	"github.com/vancomm/hexsweeper/internal/records"
	"github.com/vancomm/hexsweeper/internal/session"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Renderer draws fields to w, either as an ASCII hex board or as one JSON
// object per line.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

var _ session.Presenter = (*Renderer)(nil)

func New(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

func (r *Renderer) FieldChanged(f *mines.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == FormatJSON {
		r.json(f.Snapshot())
		return
	}
	snap := f.Snapshot()
	fmt.Fprintln(r.w, header(snap))
	fmt.Fprint(r.w, Board(snap))
}

type gameOver struct {
	Record records.Record `json:"game_over"`
}

func (r *Renderer) GameOver(f *mines.Field, rec records.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == FormatJSON {
		r.json(gameOver{rec})
		return
	}
	snap := f.Snapshot()
	fmt.Fprint(r.w, Board(snap))
	if rec.Won {
		fmt.Fprintf(r.w, "You won in %s!\n", seconds(rec.ElapsedSeconds))
	} else {
		fmt.Fprintf(r.w, "Boom. You lost after %s.\n", seconds(rec.ElapsedSeconds))
	}
}

type best struct {
	Records []records.Record `json:"records"`
}

func (r *Renderer) Records(rs []records.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == FormatJSON {
		r.json(best{rs})
		return
	}
	if len(rs) == 0 {
		fmt.Fprintln(r.w, "No records yet.")
		return
	}
	for i, rec := range rs {
		fmt.Fprintf(r.w, "%2d. %-8s %s\n", i+1, seconds(rec.ElapsedSeconds), rec.FinishedAt.Format(time.DateTime))
	}
}

func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == FormatJSON {
		r.json(map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintf(r.w, "Error: %s\n", err)
}

func (r *Renderer) json(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(map[string]string{
			"error": fmt.Sprintf("unable to encode %T: %s", v, err),
		})
	}
	fmt.Fprintln(r.w, string(data))
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func header(s mines.Snapshot) string {
	return fmt.Sprintf(
		"state: %s  time: %s  flags: %d/%d",
		s.State, seconds(s.Elapsed), s.FlagCount, s.MineCount,
	)
}

/*
Board draws a snapshot as rows of text. Tile (x, y) is printed as "[s]" at
column 4x of line 2y-x, so each column sits half a tile lower than the one to
its left. Higher lines are printed first.
*/
func Board(s mines.Snapshot) string {
	if len(s.Tiles) == 0 {
		return ""
	}
	top, bottom := 0, 0
	width := 0
	for i, t := range s.Tiles {
		line := 2*t.Coord.R - t.Coord.Q
		if i == 0 || line > top {
			top = line
		}
		if i == 0 || line < bottom {
			bottom = line
		}
		width = max(width, 4*t.Coord.Q+3)
	}

	rows := make([][]byte, top-bottom+1)
	for i := range rows {
		rows[i] = []byte(strings.Repeat(" ", width))
	}
	for _, t := range s.Tiles {
		row := rows[top-(2*t.Coord.R-t.Coord.Q)]
		copy(row[4*t.Coord.Q:], "["+t.Symbol+"]")
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
