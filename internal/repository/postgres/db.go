package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// retryableTxError reports whether the transaction failed on transient
// contention (serialization failure or deadlock) and may be retried.
func retryableTxError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// runTx runs fn inside a transaction, committing on nil error. The
// transaction is retried at most maxRetries times on transient contention;
// after exhausting retries the failure is surfaced.
func runTx(ctx context.Context, db *sql.DB, maxRetries int, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = func() error {
			tx, beginErr := db.BeginTx(ctx, nil)
			if beginErr != nil {
				return fmt.Errorf("begin transaction: %w", beginErr)
			}
			defer tx.Rollback()
			if fnErr := fn(tx); fnErr != nil {
				return fnErr
			}
			return tx.Commit()
		}()
		if err == nil || !retryableTxError(err) {
			return err
		}
	}
	return err
}
