package db

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx executes fn within a transaction, rolling back on error. Every
// multi-record mutation in the ledger goes through here so a store write and
// its audit record commit or fail as one unit.
func WithTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}
	return nil
}
