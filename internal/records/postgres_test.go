package records_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/hexsweeper/internal/database"
	"github.com/vancomm/hexsweeper/internal/records"
)

// Runs only against a real server: DATABASE_URL=postgres://... go test ./...
func TestPostgres(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, migrator, err := database.ConnectAndMigrate(ctx)
	require.NoError(t, err)
	defer migrator.Close()

	s := records.NewPostgres(pool)
	defer s.Close()

	radius := 900 + int(time.Now().UnixNano()%100)
	r := records.Record{
		ID:             uuid.New(),
		Radius:         radius,
		Mines:          3,
		ElapsedSeconds: 12,
		Won:            true,
		FinishedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.Save(ctx, r))
	assert.ErrorIs(t, s.Save(ctx, r), records.ErrDuplicate)

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, records.ErrNotFound)

	best, err := s.Best(ctx, r.Params(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, best)
	assert.Equal(t, r.ID, best[0].ID)
}
