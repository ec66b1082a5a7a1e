package database

import (
	"fmt"

	"github.com/anicoll/forecast-service/internal/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database owns persistence of forecast estimates and the plant registry.
// Safe for concurrent use; the pool serialises nothing beyond what the
// underlying row-level transactions require.
type Database struct {
	pool *pgxpool.Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		pool: pool,
	}
}

func (db *Database) Close() {
	db.pool.Close()
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
}
