package persistence

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDB_Pool(t *testing.T) {
	var pool *pgxpool.Pool
	db := &PostgresDB{
		pool:   pool,
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	assert.Equal(t, pool, db.Pool())
}
