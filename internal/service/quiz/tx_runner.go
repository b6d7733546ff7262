package quiz

import (
	"context"
	"database/sql"

	"github.com/quizpal/quizpal-api/internal/store"
)

// TransactionRunner executes a function within a database transaction.
// It exists as an interface so the engine can be tested against fakes that
// invoke the function directly, without a live database.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn store.TxFn) error
}

// DBTransactionRunner implements TransactionRunner over a *sql.DB using
// store.RunInTransaction.
type DBTransactionRunner struct {
	db *sql.DB
}

// NewDBTransactionRunner creates a TransactionRunner for the given database handle.
func NewDBTransactionRunner(db *sql.DB) *DBTransactionRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	return &DBTransactionRunner{db: db}
}

// RunInTransaction implements TransactionRunner.
func (r *DBTransactionRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, r.db, fn)
}
