package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// TxState is the transaction state machine. Active is the only non-terminal
// state.
type TxState string

const (
	TxActive     TxState = "active"
	TxCommitted  TxState = "committed"
	TxRolledBack TxState = "rolled_back"
	TxFailed     TxState = "failed"
)

// IsTerminal reports whether the state permits no further work.
func (s TxState) IsTerminal() bool {
	return s != TxActive
}

// UnitOfWork coordinates transactions over the store. Execute is the only
// sanctioned way orchestration code touches multiple repositories atomically.
type UnitOfWork interface {
	// Begin opens a transaction. The returned Tx is owned exclusively by the
	// caller and must not be shared across concurrent call paths.
	Begin(ctx context.Context) (Tx, error)

	// Execute opens a transaction, runs fn under it, commits on a nil return,
	// rolls back on error or panic, and always disposes the transaction.
	Execute(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is an open transaction. Every repository call issued through a Tx
// participates in its atomicity. A Tx in a terminal state rejects all further
// use.
type Tx interface {
	ID() uuid.UUID
	State() TxState

	Incomes() Repository[entity.IncomeEntry]
	Spendings() Repository[entity.SpendingEntry]
	Categories() Repository[entity.Category]

	// CreateSavepoint pushes a rollback marker onto the savepoint stack.
	CreateSavepoint(ctx context.Context, name string) (Savepoint, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Savepoint is an ordered marker within an active transaction. Rolling back
// to it undoes only operations issued after it, leaving the transaction
// active. Committing or rolling back the whole transaction invalidates every
// savepoint.
type Savepoint interface {
	Name() string
	RollbackTo(ctx context.Context) error
	Release(ctx context.Context) error
}
