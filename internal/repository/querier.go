package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of database operations repositories run. It is
// satisfied by both *sql.DB and *sql.Tx, so any repository can be rebound
// to a transaction with WithQuerier.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the body of a transactional unit of work
type TxFunc func(ctx context.Context, q Querier) error

// TxManager runs a function inside a single database transaction, committing
// only if the function returns nil. On error, panic, or context cancellation
// every write made inside the function is rolled back.
type TxManager interface {
	Do(ctx context.Context, fn TxFunc) error
}

type txManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over the given database handle
func NewTxManager(db *sql.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op once the transaction is committed
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
