package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/hexsweeper/internal/config"
	"github.com/vancomm/hexsweeper/internal/records"
	"github.com/vancomm/hexsweeper/internal/session"
)

type fakeGame struct {
	lines []string
	fail  error
}

func (g *fakeGame) Exec(ctx context.Context, line string) error {
	g.lines = append(g.lines, line)
	switch strings.Fields(line)[0] {
	case "q":
		return session.ErrQuit
	case "x":
		return fmt.Errorf("%w: %q", session.ErrUnknownCommand, line)
	case "boom":
		return g.fail
	}
	return nil
}

func (g *fakeGame) Records(ctx context.Context, limit int) ([]records.Record, error) {
	return []records.Record{{Radius: limit}}, nil
}

type fakeScreen struct {
	records [][]records.Record
	errors  []error
}

func (s *fakeScreen) Records(rs []records.Record) { s.records = append(s.records, rs) }
func (s *fakeScreen) Error(err error)             { s.errors = append(s.errors, err) }

func stopped(t *testing.T) <-chan struct{} {
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	return done
}

// endless yields "g" lines forever.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = "g\n"[i%2]
	}
	return len(p) - len(p)%2, nil
}

func TestScanLinesStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	lines := scanLines(done, endless{})

	assert.Equal(t, "g", <-lines)
	close(done)

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("reader did not stop")
		}
	}
}

func TestReadCommandsUntilEOF(t *testing.T) {
	g, out := &fakeGame{}, &fakeScreen{}
	lines := scanLines(stopped(t), strings.NewReader("o 1 1\nx\nB\nf 2 2\n"))

	require.NoError(t, readCommands(context.Background(), g, out, lines))
	assert.Equal(t, []string{"o 1 1", "x", "f 2 2", "q"}, g.lines)
	require.Len(t, out.errors, 1)
	assert.ErrorIs(t, out.errors[0], session.ErrUnknownCommand)
	require.Len(t, out.records, 1)
	assert.Equal(t, bestLimit, out.records[0][0].Radius)
}

func TestReadCommandsStopsOnQuit(t *testing.T) {
	g, out := &fakeGame{}, &fakeScreen{}
	lines := scanLines(stopped(t), strings.NewReader("q\no 1 1\n"))

	require.NoError(t, readCommands(context.Background(), g, out, lines))
	assert.Equal(t, []string{"q"}, g.lines)
}

func TestReadCommandsFailure(t *testing.T) {
	broken := errors.New("broken")
	g, out := &fakeGame{fail: broken}, &fakeScreen{}
	lines := scanLines(stopped(t), strings.NewReader("boom\n"))

	assert.ErrorIs(t, readCommands(context.Background(), g, out, lines), broken)
}

func TestReadCommandsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := readCommands(ctx, &fakeGame{}, &fakeScreen{}, make(chan string))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := openStore(ctx, config.Records{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &records.Memory{}, s)

	s, err = openStore(ctx, config.Records{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "records.db"),
	})
	require.NoError(t, err)
	assert.IsType(t, &records.SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = openStore(ctx, config.Records{Backend: "mysql"})
	assert.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	t.Setenv("HEXSWEEPER_RADIUS", "6")
	t.Setenv("HEXSWEEPER_MINES", "")

	cmd := newRootCmd()
	radius, err := cmd.Flags().GetInt("radius")
	require.NoError(t, err)
	assert.Equal(t, 6, radius)

	mines, err := cmd.Flags().GetInt("mines")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMines, mines)

	cmd.SetArgs([]string{"--records", "mysql"})
	assert.Error(t, cmd.Execute())
}
