package infrastructure

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewJobsPool connects to dsn, falling back to JOBS_DATABASE_URL. It returns
// a nil pool and nil error when neither is set: the database is optional.
func NewJobsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		dsn = os.Getenv("JOBS_DATABASE_URL")
	}
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
