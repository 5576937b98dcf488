package main

import (
	"context"
	"fmt"

	"github.com/vancomm/hexsweeper/internal/config"
	"github.com/vancomm/hexsweeper/internal/database"
	"github.com/vancomm/hexsweeper/internal/records"
)

func openStore(ctx context.Context, cfg config.Records) (records.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return records.NewMemory(), nil
	case config.BackendSQLite:
		return records.OpenSQLite(cfg.SQLitePath)
	case config.BackendPostgres:
		pool, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		migrator.Close()
		return records.NewPostgres(pool), nil
	case config.BackendRedis:
		rc := records.DefaultRedisConfig()
		if cfg.RedisURL != "" {
			rc.URL = cfg.RedisURL
		}
		return records.OpenRedis(ctx, rc)
	default:
		return nil, fmt.Errorf("unknown records backend %q", cfg.Backend)
	}
}
