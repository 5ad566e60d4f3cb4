package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/darrancebeh/ischedulr/projectpath"
)

var (
	dbPool *pgxpool.Pool
	pgOnce sync.Once
)

func init() {
	// a missing .env is fine, DB_CONN may come from the environment itself
	_ = godotenv.Load(filepath.Join(projectpath.Root, ".env"))
}

func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connString := os.Getenv("DB_CONN")

	var poolErr error = nil
	pgOnce.Do(func() {
		pgPool, err := pgxpool.New(ctx, connString)
		if err != nil {
			log.Error(fmt.Errorf("Unable to create connection pool: %w", err))
			poolErr = err
		}
		dbPool = pgPool
	})
	if poolErr != nil {
		return dbPool, poolErr
	}

	return dbPool, nil
}

// StoreFromEnv prefers Postgres when DB_CONN is configured and otherwise
// falls back to the per user history file.
func StoreFromEnv(ctx context.Context) (Store, error) {
	if os.Getenv("DB_CONN") != "" {
		pool, err := NewPool(ctx)
		if err != nil {
			return nil, err
		}
		return NewPGStore(pool), nil
	}
	return NewFileStore()
}
