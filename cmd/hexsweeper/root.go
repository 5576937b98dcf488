package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/hexsweeper/internal/config"
	"github.com/vancomm/hexsweeper/internal/records"
	"github.com/vancomm/hexsweeper/internal/session"
	"github.com/vancomm/hexsweeper/internal/terminal"
)

type options struct {
	game    config.Game
	records config.Records
	output  string
	debug   bool
	logFile string
}

// loadOptions reads the env-based defaults that flags may override.
func loadOptions() (*options, error) {
	game, err := config.NewGame()
	if err != nil {
		return nil, err
	}
	recs, err := config.NewRecords()
	if err != nil {
		return nil, err
	}
	return &options{
		game:    *game,
		records: *recs,
		output:  string(terminal.FormatText),
		debug:   config.Development(),
		logFile: config.LogFile(),
	}, nil
}

func newRootCmd() *cobra.Command {
	opts, err := loadOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid environment:", err)
		os.Exit(2)
	}
	backend := string(opts.records.Backend)

	cmd := &cobra.Command{
		Use:   "hexsweeper",
		Short: "Minesweeper on a hexagonal board",
		Long: `hexsweeper plays minesweeper on a hexagon of hexagonal tiles.

Commands are read from stdin, one per line:
  o Q R                   reveal tile (Q, R)
  f Q R                   flag or unflag tile (Q, R)
  g                       redraw the board
  n [radius=R] [mines=M]  start a new round
  r                       give up the current round
  b                       show best times
  q                       quit`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.ParseBackend(backend)
			if err != nil {
				return err
			}
			opts.records.Backend = b
			return play(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.game.Radius, "radius", "r", opts.game.Radius, "Field radius in tiles (env: HEXSWEEPER_RADIUS)")
	flags.IntVarP(&opts.game.Mines, "mines", "m", opts.game.Mines, "Number of mines (env: HEXSWEEPER_MINES)")
	flags.StringVarP(&opts.output, "output", "o", opts.output, "Output format: text, json")
	flags.BoolVar(&opts.debug, "debug", opts.debug, "Debug logging (env: DEVELOPMENT)")
	flags.StringVar(&backend, "records", backend, "Records backend: memory, sqlite, postgres, redis (env: HEXSWEEPER_RECORDS)")
	flags.StringVar(&opts.records.SQLitePath, "sqlite-path", opts.records.SQLitePath, "SQLite database file (env: HEXSWEEPER_SQLITE_PATH)")
	flags.StringVar(&opts.records.RedisURL, "redis-url", opts.records.RedisURL, "Redis URL (env: REDIS_URL)")
	flags.StringVar(&opts.logFile, "log-file", opts.logFile, "Also write engine logs to this file (env: HEXSWEEPER_LOG_FILE)")

	return cmd
}

func play(ctx context.Context, opts *options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := terminal.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	logger := newLogger(opts.debug)
	if err := setupEngineLogging(opts.debug, opts.logFile); err != nil {
		return err
	}

	store, err := openStore(ctx, opts.records)
	if err != nil {
		logger.Error("unable to open records store", slog.Any("error", err))
		return err
	}
	defer store.Close()
	logger.Debug("records store ready", slog.String("backend", string(opts.records.Backend)))

	view := terminal.New(os.Stdout, format)
	s, err := session.New(
		records.Params{Radius: opts.game.Radius, Mines: opts.game.Mines},
		view, store,
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines := scanLines(done, os.Stdin)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gCtx)
	})
	g.Go(func() error {
		return readCommands(gCtx, s, view, lines)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}
