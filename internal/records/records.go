package records

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Record is the outcome of one finished round.
type Record struct {
	ID             uuid.UUID `json:"id"`
	Radius         int       `json:"radius"`
	Mines          int       `json:"mines"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Won            bool      `json:"won"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Params selects records played on the same field size and mine count.
type Params struct {
	Radius int
	Mines  int
}

func (r Record) Params() Params {
	return Params{Radius: r.Radius, Mines: r.Mines}
}

type Store interface {
	// Save stores a record. Saving the same ID twice returns [ErrDuplicate].
	Save(ctx context.Context, r Record) error
	// Get returns the record with the given ID or [ErrNotFound].
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	// Best returns won records for p, fastest first. A limit <= 0 returns all.
	Best(ctx context.Context, p Params, limit int) ([]Record, error)
	Close() error
}

func compareBest(a, b Record) int {
	return cmp.Or(
		cmp.Compare(a.ElapsedSeconds, b.ElapsedSeconds),
		a.FinishedAt.Compare(b.FinishedAt),
		strings.Compare(a.ID.String(), b.ID.String()),
	)
}

func sortBest(rs []Record, limit int) []Record {
	slices.SortStableFunc(rs, compareBest)
	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}
