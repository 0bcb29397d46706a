package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

const (
	pingAttempts = 5
	pingBackoff  = time.Second
)

// Open connects to postgres and waits until the server answers a ping,
// retrying with a linear backoff until ctx is done.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxIdleConns(20)
	db.SetMaxOpenConns(30)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt == pingAttempts {
			break
		}

		logger.Warn("postgres not ready, retrying", logger.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * pingBackoff):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping postgres after %d attempts: %w", pingAttempts, err)
}
