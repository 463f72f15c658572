package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner wraps a *sql.DB and executes functions inside a transaction
// with guaranteed commit-or-rollback on every exit path.  Every
// multi-step ticket/purchase/payment mutation in this codebase goes
// through RunTx so that partial writes are never visible.
type TxRunner struct {
	DB *sql.DB
}

// RunTx begins a transaction, invokes fn with it, and commits when fn
// returns nil.  Any error from fn (or a panic) rolls the transaction
// back and the original error is returned unchanged so callers can
// match sentinel errors with errors.Is.
func (r TxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
