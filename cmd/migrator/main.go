package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vancomm/hexsweeper/internal/config"
	"github.com/vancomm/hexsweeper/internal/database"
)

var logger *slog.Logger

func newMigrator() (*migrate.Migrate, error) {
	url, err := config.DbURL()
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(url, database.Migrations)
}

func logVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info("no migrations applied")
		return
	}
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		return
	}
	logger.Info("migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

func run(step func(m *migrate.Migrate) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer m.Close()
		if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logVersion(m)
		return nil
	}
}

func main() {
	if config.Development() {
		logger = slog.New(tint.NewHandler(os.Stderr, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	root := &cobra.Command{
		Use:          "migrator",
		Short:        "Apply hexsweeper postgres migrations",
		SilenceUsage: true,
		RunE:         run(func(m *migrate.Migrate) error { return m.Up() }),
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  run(func(m *migrate.Migrate) error { return m.Up() }),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE:  run(func(m *migrate.Migrate) error { return m.Steps(-1) }),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			RunE:  run(func(*migrate.Migrate) error { return nil }),
		},
	)

	if err := root.Execute(); err != nil {
		logger.Error("migrator failed", slog.Any("error", err))
		os.Exit(1)
	}
}
