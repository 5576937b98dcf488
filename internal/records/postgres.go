package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps records in the game_record table created by the database
// migrations.
type Postgres struct {
	db *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

type gameRecord struct {
	Id             string    `db:"id"`
	Radius         int       `db:"radius"`
	Mines          int       `db:"mines"`
	ElapsedSeconds int       `db:"elapsed_seconds"`
	Won            bool      `db:"won"`
	FinishedAt     time.Time `db:"finished_at"`
}

func (g gameRecord) record() (Record, error) {
	id, err := uuid.Parse(g.Id)
	if err != nil {
		return Record{}, fmt.Errorf("invalid record id %q: %w", g.Id, err)
	}
	return Record{
		ID:             id,
		Radius:         g.Radius,
		Mines:          g.Mines,
		ElapsedSeconds: g.ElapsedSeconds,
		Won:            g.Won,
		FinishedAt:     g.FinishedAt.UTC(),
	}, nil
}

const selectRecord = `SELECT id::text AS id, radius, mines, elapsed_seconds, won, finished_at FROM game_record`

func (p *Postgres) Save(ctx context.Context, r Record) error {
	_, err := p.db.Exec(
		ctx,
		`INSERT INTO game_record (
			id, radius, mines, elapsed_seconds, won, finished_at
		)
		VALUES (
			@id, @radius, @mines, @elapsed_seconds, @won, @finished_at
		);`,
		pgx.NamedArgs{
			"id":              r.ID.String(),
			"radius":          r.Radius,
			"mines":           r.Mines,
			"elapsed_seconds": r.ElapsedSeconds,
			"won":             r.Won,
			"finished_at":     r.FinishedAt,
		},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	rows, _ := p.db.Query(
		ctx,
		selectRecord+" WHERE id = @id;",
		pgx.NamedArgs{"id": id.String()},
	)
	g, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameRecord])
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return g.record()
}

func (p *Postgres) Best(ctx context.Context, params Params, limit int) ([]Record, error) {
	args := pgx.NamedArgs{
		"radius": params.Radius,
		"mines":  params.Mines,
	}
	query := selectRecord + `
		WHERE won AND radius = @radius AND mines = @mines
		ORDER BY elapsed_seconds, finished_at, id::text`
	if limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = limit
	}
	rows, _ := p.db.Query(ctx, query+";", args)
	gs, err := pgx.CollectRows(rows, pgx.RowToStructByName[gameRecord])
	if err != nil {
		return nil, err
	}
	rs := make([]Record, 0, len(gs))
	for _, g := range gs {
		r, err := g.record()
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
