package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/hexsweeper/internal/clock"
	"github.com/vancomm/hexsweeper/internal/mines"
	"github.com/vancomm/hexsweeper/internal/random"
	"github.com/vancomm/hexsweeper/internal/records"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrClosed         = errors.New("session closed")
	ErrQuit           = errors.New("quit")
)

// Presenter shows a field to the player. It is subscribed to every field the
// session creates and is told when a round ends.
type Presenter interface {
	mines.Observer
	GameOver(f *mines.Field, r records.Record)
}

type request struct {
	fn     func(ctx context.Context) error
	result chan error
}

// Session plays rounds one after another on a single goroutine. Commands and
// clock ticks are handled in the order they arrive, never concurrently.
type Session struct {
	logger *slog.Logger
	clock  clock.Clock
	rnd    random.Random
	store  records.Store
	view   Presenter

	params records.Params
	field  *mines.Field
	round  uuid.UUID
	ticker clock.Ticker

	requests chan request
	done     chan struct{}
}

type Option func(*Session)

func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithRandom(r random.Random) Option {
	return func(s *Session) { s.rnd = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session and its first field. Invalid params are reported as
// [mines.ErrInvalidConfiguration].
func New(params records.Params, view Presenter, store records.Store, opts ...Option) (*Session, error) {
	s := &Session{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:    clock.New(),
		rnd:      random.New(),
		store:    store,
		view:     view,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.reset(params); err != nil {
		return nil, err
	}
	return s, nil
}

// Run handles commands and ticks until ctx is done or a quit command arrives.
// It must be called exactly once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.stopTicker()

	s.view.FieldChanged(s.field)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.requests:
			err := req.fn(ctx)
			req.result <- err
			if errors.Is(err, ErrQuit) {
				s.logger.Info("session closed by player")
				return nil
			}
		case <-s.tick():
			s.field.Tick()
		}
	}
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func(ctx context.Context) error) error {
	req := request{fn: fn, result: make(chan error, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.result
}

// Exec runs one text command:
//
//	o q r                   reveal the tile at (q, r)
//	f q r                   flag or unflag the tile at (q, r)
//	g                       redraw
//	n [radius=R] [mines=M]  start over, optionally on a different field
//	r                       give up the current round
//	q                       quit, Exec returns [ErrQuit]
func (s *Session) Exec(ctx context.Context, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	cmd, args := verb(strings.ToLower(tokens[0])), tokens[1:]

	var fn func(ctx context.Context) error
	switch cmd {
	case verbRedraw:
		fn = s.redraw
	case verbReveal, verbFlag:
		c, err := parseCoord(args)
		if err != nil {
			return err
		}
		fn = func(ctx context.Context) error {
			if !s.field.PointInRange(c) {
				return fmt.Errorf("%w: tile %v is outside the field", ErrInvalidArgs, c)
			}
			move := s.field.ToggleFlag
			if cmd == verbReveal {
				move = s.field.Reveal
			}
			if err := move(c); err != nil {
				return err
			}
			return s.settle(ctx)
		}
	case verbNew:
		fn = func(ctx context.Context) error {
			params, err := parseParams(s.params, args)
			if err != nil {
				return err
			}
			if err := s.reset(params); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
			s.view.FieldChanged(s.field)
			return nil
		}
	case verbForfeit:
		fn = func(ctx context.Context) error {
			s.field.Forfeit()
			return s.settle(ctx)
		}
	case verbQuit:
		fn = func(context.Context) error { return ErrQuit }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[0])
	}
	return s.do(ctx, fn)
}

func (s *Session) redraw(context.Context) error {
	s.view.FieldChanged(s.field)
	return nil
}

// Records returns the fastest won rounds played with the current params. The
// store is queried with ctx, not the context passed to Run.
func (s *Session) Records(ctx context.Context, limit int) ([]records.Record, error) {
	var rs []records.Record
	err := s.do(ctx, func(context.Context) (err error) {
		rs, err = s.store.Best(ctx, s.params, limit)
		return err
	})
	return rs, err
}

// Snapshot returns what the player currently sees.
func (s *Session) Snapshot(ctx context.Context) (mines.Snapshot, error) {
	var snap mines.Snapshot
	err := s.do(ctx, func(context.Context) error {
		snap = s.field.Snapshot()
		return nil
	})
	return snap, err
}

// settle starts the ticker on the first move and closes the round once the
// field reaches a terminal state.
func (s *Session) settle(ctx context.Context) error {
	if s.field.State().Terminal() {
		return s.finish(ctx)
	}
	if s.field.Started() && s.ticker == nil {
		s.ticker = s.clock.NewTicker(time.Second)
		s.logger.Debug("ticker started", slog.String("round", s.round.String()))
	}
	return nil
}

func (s *Session) finish(ctx context.Context) error {
	rec := records.Record{
		ID:             s.round,
		Radius:         s.params.Radius,
		Mines:          s.params.Mines,
		ElapsedSeconds: s.field.Elapsed(),
		Won:            s.field.State() == mines.Won,
		FinishedAt:     s.clock.Now().UTC(),
	}
	s.view.GameOver(s.field, rec)
	s.logger.Info(
		"round finished",
		slog.String("round", rec.ID.String()),
		slog.Bool("won", rec.Won),
		slog.Int("elapsed", rec.ElapsedSeconds),
	)

	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("unable to save record", slog.Any("error", err))
	}

	if err := s.reset(s.params); err != nil {
		return err
	}
	s.view.FieldChanged(s.field)
	return nil
}

// reset replaces the field with a fresh one. On error the current field is
// kept.
func (s *Session) reset(params records.Params) error {
	field, err := mines.New(params.Radius, params.Mines, s.rnd, mines.WithObserver(s.view))
	if err != nil {
		return err
	}
	s.stopTicker()
	if s.field != nil {
		s.field.Unsubscribe(s.view)
	}
	s.field = field
	s.params = params
	s.round = uuid.New()
	s.logger.Debug(
		"new round",
		slog.String("round", s.round.String()),
		slog.Int("radius", params.Radius),
		slog.Int("mines", params.Mines),
	)
	return nil
}

func (s *Session) tick() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
