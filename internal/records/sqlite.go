package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps records in a single sqlite table.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the records table on db if it does not exist yet.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS game_record (
	id				TEXT PRIMARY KEY,
	radius			INTEGER NOT NULL,
	mines			INTEGER NOT NULL,
	elapsed_seconds	INTEGER NOT NULL,
	won				INTEGER NOT NULL,
	finished_at		INTEGER NOT NULL
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create game_record table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
INSERT INTO game_record (id, radius, mines, elapsed_seconds, won, finished_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;`,
		r.ID.String(), r.Radius, r.Mines, r.ElapsedSeconds, r.Won,
		r.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r          Record
		id         string
		finishedAt int64
	)
	err := row.Scan(&id, &r.Radius, &r.Mines, &r.ElapsedSeconds, &r.Won, &finishedAt)
	if err != nil {
		return Record{}, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	r.FinishedAt = time.UnixMilli(finishedAt).UTC()
	return r, nil
}

func (s *SQLite) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, radius, mines, elapsed_seconds, won, finished_at
FROM game_record WHERE id = ?;`, id.String())
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *SQLite) Best(ctx context.Context, p Params, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, radius, mines, elapsed_seconds, won, finished_at
FROM game_record
WHERE won = 1 AND radius = ? AND mines = ?
ORDER BY elapsed_seconds, finished_at, id
LIMIT ?;`, p.Radius, p.Mines, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rs := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
