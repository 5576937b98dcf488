package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultRadius     = 10
	DefaultMines      = 55
	DefaultSQLitePath = "hexsweeper.db"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// LogFile is an optional path that log output is also written to.
func LogFile() string {
	return os.Getenv("HEXSWEEPER_LOG_FILE")
}

type Game struct {
	Radius int
	Mines  int
}

func lookupInt(name string, fallback int) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to int: %w", name, err)
	}
	return n, nil
}

// NewGame reads the field size from HEXSWEEPER_RADIUS and HEXSWEEPER_MINES.
// The values are validated when a field is created.
func NewGame() (*Game, error) {
	radius, err := lookupInt("HEXSWEEPER_RADIUS", DefaultRadius)
	if err != nil {
		return nil, err
	}
	mines, err := lookupInt("HEXSWEEPER_MINES", DefaultMines)
	if err != nil {
		return nil, err
	}
	return &Game{Radius: radius, Mines: mines}, nil
}

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
		return b, nil
	case "":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unknown records backend %q", s)
	}
}

type Records struct {
	Backend    Backend
	SQLitePath string
	RedisURL   string
}

func NewRecords() (*Records, error) {
	backend, err := ParseBackend(os.Getenv("HEXSWEEPER_RECORDS"))
	if err != nil {
		return nil, err
	}
	path := os.Getenv("HEXSWEEPER_SQLITE_PATH")
	if path == "" {
		path = DefaultSQLitePath
	}
	return &Records{
		Backend:    backend,
		SQLitePath: path,
		RedisURL:   os.Getenv("REDIS_URL"),
	}, nil
}
