package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/vancomm/hexsweeper/internal/records"
	"github.com/vancomm/hexsweeper/internal/session"
)

const bestLimit = 10

type game interface {
	Exec(ctx context.Context, line string) error
	Records(ctx context.Context, limit int) ([]records.Record, error)
}

type screen interface {
	Records(rs []records.Record)
	Error(err error)
}

// scanLines feeds r line by line into the returned channel, which is closed at
// EOF or once done is closed. A blocked Read cannot be interrupted, so the
// goroutine is not part of the errgroup; closing done only stops it between
// lines.
func scanLines(done <-chan struct{}, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// readCommands passes lines to the session until quit, EOF or cancellation.
// Command errors are shown to the player and do not stop the game.
func readCommands(ctx context.Context, g game, out screen, lines <-chan string) error {
	for {
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			line = "q"
		}

		if strings.TrimSpace(strings.ToLower(line)) == "b" {
			rs, err := g.Records(ctx, bestLimit)
			if err != nil {
				return err
			}
			out.Records(rs)
			continue
		}

		err := g.Exec(ctx, line)
		switch {
		case errors.Is(err, session.ErrQuit):
			return nil
		case errors.Is(err, session.ErrUnknownCommand), errors.Is(err, session.ErrInvalidArgs):
			out.Error(err)
		case err != nil:
			return err
		}
	}
}
