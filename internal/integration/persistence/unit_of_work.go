package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// unitOfWork coordinates GORM transactions over the store.
type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates the transaction coordinator.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{db: db}
}

// Begin opens a transaction. The transaction handle is detached from the
// caller's cancellation so that a commit, once entered, cannot be interrupted;
// each repository call still carries its own context.
func (u *unitOfWork) Begin(ctx context.Context) (adapter.Tx, error) {
	gtx := u.db.WithContext(context.WithoutCancel(ctx)).Begin()
	if gtx.Error != nil {
		return nil, domainerror.NewSystem(
			domainerror.ErrCodeStoreFailure,
			"failed to begin transaction",
			gtx.Error,
		)
	}

	t := &unitOfWorkTx{
		id:    uuid.New(),
		db:    gtx,
		state: adapter.TxActive,
	}
	t.incomes = newIncomeRepository(gtx, t.guard)
	t.spendings = newSpendingRepository(gtx, t.guard)
	t.categories = newCategoryRepository(gtx, t.guard)
	return t, nil
}

// Execute runs fn inside a transaction: commit on a nil return, rollback on
// error or panic, disposal guaranteed on every exit path.
func (u *unitOfWork) Execute(ctx context.Context, fn func(tx adapter.Tx) error) (err error) {
	tx, beginErr := u.Begin(ctx)
	if beginErr != nil {
		return beginErr
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback after panic failed", "transaction_id", tx.ID(), "error", rbErr)
			}
			err = domainerror.FromPanic(recovered, map[string]any{
				"transaction_id": tx.ID().String(),
			})
		}
	}()

	if opErr := fn(tx); opErr != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Error("rollback failed", "transaction_id", tx.ID(), "error", rbErr)
		}
		return domainerror.From(opErr)
	}

	return tx.Commit(ctx)
}

// unitOfWorkTx is an open transaction. It is owned exclusively by the call
// that opened it and must not be shared across concurrent callers.
type unitOfWorkTx struct {
	id    uuid.UUID
	db    *gorm.DB
	state adapter.TxState

	savepoints []*savepoint
	spSeq      int

	incomes    adapter.Repository[entity.IncomeEntry]
	spendings  adapter.Repository[entity.SpendingEntry]
	categories adapter.Repository[entity.Category]
}

func (t *unitOfWorkTx) ID() uuid.UUID                                   { return t.id }
func (t *unitOfWorkTx) State() adapter.TxState                          { return t.state }
func (t *unitOfWorkTx) Incomes() adapter.Repository[entity.IncomeEntry] { return t.incomes }
func (t *unitOfWorkTx) Spendings() adapter.Repository[entity.SpendingEntry] {
	return t.spendings
}
func (t *unitOfWorkTx) Categories() adapter.Repository[entity.Category] { return t.categories }

// guard rejects any use of a transaction that reached a terminal state.
func (t *unitOfWorkTx) guard() error {
	if t.state.IsTerminal() {
		return domainerror.NewSystem(
			domainerror.ErrCodeTransactionClosed,
			domainerror.ErrTransactionClosed.Error(),
			nil,
		).WithMeta("transaction_id", t.id.String()).WithMeta("state", string(t.state))
	}
	return nil
}

// CreateSavepoint pushes a rollback marker onto the savepoint stack.
func (t *unitOfWorkTx) CreateSavepoint(ctx context.Context, name string) (adapter.Savepoint, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	if !identifierPattern.MatchString(name) {
		return nil, domainerror.NewValidation(
			domainerror.ErrCodeSavepointFailure,
			"savepoint name must be an identifier",
		).WithMeta("name", name)
	}

	t.spSeq++
	internal := fmt.Sprintf("sp%d_%s", t.spSeq, name)
	if err := t.db.WithContext(ctx).SavePoint(internal).Error; err != nil {
		return nil, domainerror.NewSystem(
			domainerror.ErrCodeSavepointFailure,
			"failed to create savepoint",
			err,
		).WithMeta("name", name).WithMeta("transaction_id", t.id.String())
	}

	sp := &savepoint{tx: t, name: name, internal: internal}
	t.savepoints = append(t.savepoints, sp)
	return sp, nil
}

// Commit finishes the transaction. Cancellation observed before entering the
// commit aborts with a rollback; the commit itself is not interruptible.
func (t *unitOfWorkTx) Commit(ctx context.Context) error {
	if err := t.guard(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		if rbErr := t.Rollback(ctx); rbErr != nil {
			slog.Error("rollback after cancellation failed", "transaction_id", t.id, "error", rbErr)
		}
		return domainerror.NewSystem(
			domainerror.ErrCodeStoreFailure,
			"transaction canceled before commit",
			err,
		).WithMeta("transaction_id", t.id.String())
	}

	if err := t.db.Commit().Error; err != nil {
		t.close(adapter.TxFailed)
		return domainerror.NewSystem(
			domainerror.ErrCodeStoreFailure,
			"failed to commit transaction",
			err,
		).WithMeta("transaction_id", t.id.String())
	}
	t.close(adapter.TxCommitted)
	return nil
}

// Rollback aborts the transaction.
func (t *unitOfWorkTx) Rollback(_ context.Context) error {
	if err := t.guard(); err != nil {
		return err
	}

	if err := t.db.Rollback().Error; err != nil {
		t.close(adapter.TxFailed)
		return domainerror.NewSystem(
			domainerror.ErrCodeStoreFailure,
			"failed to roll back transaction",
			err,
		).WithMeta("transaction_id", t.id.String())
	}
	t.close(adapter.TxRolledBack)
	return nil
}

// close moves the transaction to a terminal state and invalidates every
// savepoint.
func (t *unitOfWorkTx) close(state adapter.TxState) {
	t.state = state
	for _, sp := range t.savepoints {
		sp.released = true
	}
	t.savepoints = nil
}

// dropAfter invalidates savepoints created after sp; when inclusive is true
// sp itself is invalidated too.
func (t *unitOfWorkTx) dropAfter(sp *savepoint, inclusive bool) {
	for i, candidate := range t.savepoints {
		if candidate != sp {
			continue
		}
		cut := i + 1
		if inclusive {
			cut = i
		}
		for _, dropped := range t.savepoints[cut:] {
			dropped.released = true
		}
		t.savepoints = t.savepoints[:cut]
		return
	}
}

// savepoint is an ordered marker within an active transaction.
type savepoint struct {
	tx       *unitOfWorkTx
	name     string
	internal string
	released bool
}

func (s *savepoint) Name() string { return s.name }

func (s *savepoint) guard() error {
	if err := s.tx.guard(); err != nil {
		return err
	}
	if s.released {
		return domainerror.NewSystem(
			domainerror.ErrCodeSavepointFailure,
			domainerror.ErrSavepointReleased.Error(),
			nil,
		).WithMeta("name", s.name)
	}
	return nil
}

// RollbackTo undoes every operation issued after the savepoint, leaving the
// transaction active. Savepoints created after this one are invalidated; the
// savepoint itself stays usable.
func (s *savepoint) RollbackTo(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}

	if err := s.tx.db.WithContext(ctx).RollbackTo(s.internal).Error; err != nil {
		return domainerror.NewSystem(
			domainerror.ErrCodeSavepointFailure,
			"failed to roll back to savepoint",
			err,
		).WithMeta("name", s.name).WithMeta("transaction_id", s.tx.id.String())
	}
	s.tx.dropAfter(s, false)
	return nil
}

// Release discards the savepoint, keeping its effects in the transaction.
// Later savepoints are discarded with it.
func (s *savepoint) Release(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}

	if err := s.tx.db.WithContext(ctx).Exec("RELEASE SAVEPOINT " + s.internal).Error; err != nil {
		return domainerror.NewSystem(
			domainerror.ErrCodeSavepointFailure,
			"failed to release savepoint",
			err,
		).WithMeta("name", s.name).WithMeta("transaction_id", s.tx.id.String())
	}
	s.tx.dropAfter(s, true)
	return nil
}
