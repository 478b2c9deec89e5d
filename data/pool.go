package data

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	dbPool *pgxpool.Pool
	pgOnce sync.Once
)

// NewPool connects once per process, later calls get the first pool back
// whatever connString they pass
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, errors.New("no database connection string, set DB_CONN")
	}

	var poolErr error = nil
	pgOnce.Do(func() {
		pgPool, err := pgxpool.New(ctx, connString)
		if err != nil {
			log.Error(fmt.Errorf("Unable to create connection pool: %w", err))
			poolErr = err
			return
		}
		if err := pgPool.Ping(ctx); err != nil {
			log.Error(fmt.Errorf("Unable to reach database: %w", err))
			pgPool.Close()
			poolErr = err
			return
		}
		dbPool = pgPool
	})
	if poolErr != nil {
		return nil, poolErr
	}
	if dbPool == nil {
		return nil, errors.New("database pool failed to start earlier in this process")
	}

	return dbPool, nil
}
