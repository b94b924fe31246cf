package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

func income(day time.Time, amount int64, description string) *entity.IncomeEntry {
	return entity.NewIncomeEntry(day, decimal.NewFromInt(amount), description)
}

func countIncome(t *testing.T, repo adapter.Repository[entity.IncomeEntry]) int64 {
	t.Helper()
	count, err := repo.Count(context.Background(), adapter.Predicate{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestExecuteCommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	on := day(2026, time.March, 10)

	err := uow.Execute(context.Background(), func(tx adapter.Tx) error {
		_, err := tx.Incomes().Add(context.Background(), income(on, 100, "salary"))
		return err
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := countIncome(t, NewIncomeRepository(db)); got != 1 {
		t.Fatalf("expected 1 committed row, got %d", got)
	}
}

func TestExecuteRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	boom := errors.New("boom")

	err := uow.Execute(context.Background(), func(tx adapter.Tx) error {
		if _, err := tx.Incomes().Add(context.Background(), income(day(2026, time.March, 10), 100, "salary")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if domainerror.KindOf(err) != domainerror.KindSystem {
		t.Fatalf("a raw error must come back classified, got kind %q", domainerror.KindOf(err))
	}

	if got := countIncome(t, NewIncomeRepository(db)); got != 0 {
		t.Fatalf("expected the write rolled back, got %d rows", got)
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)

	err := uow.Execute(context.Background(), func(tx adapter.Tx) error {
		if _, err := tx.Incomes().Add(context.Background(), income(day(2026, time.March, 10), 100, "salary")); err != nil {
			return err
		}
		panic("midway")
	})
	if !domainerror.IsSystem(err) {
		t.Fatalf("expected a system error, got %v", err)
	}

	if got := countIncome(t, NewIncomeRepository(db)); got != 0 {
		t.Fatalf("expected the write rolled back, got %d rows", got)
	}
}

func TestTerminalTransactionRejectsFurtherUse(t *testing.T) {
	uow := NewUnitOfWork(newTestDB(t))
	ctx := context.Background()

	tx, err := uow.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if tx.State() != adapter.TxActive {
		t.Fatalf("unexpected state: %v", tx.State())
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if tx.State() != adapter.TxCommitted {
		t.Fatalf("unexpected state: %v", tx.State())
	}

	_, err = tx.Incomes().Add(ctx, income(day(2026, time.March, 10), 100, "salary"))
	if domainerror.From(err).Code != domainerror.ErrCodeTransactionClosed {
		t.Fatalf("expected the closed-transaction code, got %v", err)
	}

	if err := tx.Commit(ctx); domainerror.From(err).Code != domainerror.ErrCodeTransactionClosed {
		t.Fatalf("double commit must fail closed, got %v", err)
	}
	if err := tx.Rollback(ctx); domainerror.From(err).Code != domainerror.ErrCodeTransactionClosed {
		t.Fatalf("rollback after commit must fail closed, got %v", err)
	}

	if _, err := tx.CreateSavepoint(ctx, "late"); domainerror.From(err).Code != domainerror.ErrCodeTransactionClosed {
		t.Fatalf("savepoint on a closed transaction must fail, got %v", err)
	}
}

func TestCommitAbortsOnCanceledContext(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)

	tx, err := uow.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Incomes().Add(context.Background(), income(day(2026, time.March, 10), 100, "salary")); err != nil {
		t.Fatalf("add: %v", err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tx.Commit(canceled); !domainerror.IsSystem(err) {
		t.Fatalf("expected a system error, got %v", err)
	}
	if tx.State() != adapter.TxRolledBack {
		t.Fatalf("expected a rollback, state = %v", tx.State())
	}
	if got := countIncome(t, NewIncomeRepository(db)); got != 0 {
		t.Fatalf("expected no committed rows, got %d", got)
	}
}

func TestSavepointRollbackTo(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	err := uow.Execute(ctx, func(tx adapter.Tx) error {
		if _, err := tx.Incomes().Add(ctx, income(day(2026, time.March, 1), 100, "kept")); err != nil {
			return err
		}
		sp, err := tx.CreateSavepoint(ctx, "before_batch")
		if err != nil {
			return err
		}
		if _, err := tx.Incomes().Add(ctx, income(day(2026, time.March, 2), 200, "discarded")); err != nil {
			return err
		}
		if err := sp.RollbackTo(ctx); err != nil {
			return err
		}
		// The savepoint stays usable after a partial rollback.
		if _, err := tx.Incomes().Add(ctx, income(day(2026, time.March, 3), 300, "retried")); err != nil {
			return err
		}
		return sp.RollbackTo(ctx)
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	repo := NewIncomeRepository(db)
	entries, err := repo.Find(ctx, adapter.Predicate{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(entries) != 1 || entries[0].Description != "kept" {
		t.Fatalf("expected only the pre-savepoint row, got %+v", entries)
	}
}

func TestSavepointRelease(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	err := uow.Execute(ctx, func(tx adapter.Tx) error {
		sp, err := tx.CreateSavepoint(ctx, "batch")
		if err != nil {
			return err
		}
		if _, err := tx.Incomes().Add(ctx, income(day(2026, time.March, 2), 200, "kept")); err != nil {
			return err
		}
		if err := sp.Release(ctx); err != nil {
			return err
		}

		// A released savepoint is dead on both paths.
		if err := sp.RollbackTo(ctx); domainerror.From(err).Code != domainerror.ErrCodeSavepointFailure {
			t.Errorf("rollback to a released savepoint must fail, got %v", err)
		}
		if err := sp.Release(ctx); domainerror.From(err).Code != domainerror.ErrCodeSavepointFailure {
			t.Errorf("double release must fail, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := countIncome(t, NewIncomeRepository(db)); got != 1 {
		t.Fatalf("released savepoint must keep its effects, got %d rows", got)
	}
}

func TestRollbackToInvalidatesLaterSavepoints(t *testing.T) {
	uow := NewUnitOfWork(newTestDB(t))
	ctx := context.Background()

	err := uow.Execute(ctx, func(tx adapter.Tx) error {
		outer, err := tx.CreateSavepoint(ctx, "outer")
		if err != nil {
			return err
		}
		inner, err := tx.CreateSavepoint(ctx, "inner")
		if err != nil {
			return err
		}
		if err := outer.RollbackTo(ctx); err != nil {
			return err
		}
		if err := inner.RollbackTo(ctx); domainerror.From(err).Code != domainerror.ErrCodeSavepointFailure {
			t.Errorf("a savepoint past the rollback target must be invalid, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestCreateSavepointRejectsUnsafeName(t *testing.T) {
	uow := NewUnitOfWork(newTestDB(t))
	ctx := context.Background()

	err := uow.Execute(ctx, func(tx adapter.Tx) error {
		_, err := tx.CreateSavepoint(ctx, "bad name; DROP")
		if !domainerror.IsValidation(err) {
			t.Errorf("expected a validation error, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestSavepointNamesMayRepeatAcrossGroups(t *testing.T) {
	uow := NewUnitOfWork(newTestDB(t))
	ctx := context.Background()

	err := uow.Execute(ctx, func(tx adapter.Tx) error {
		first, err := tx.CreateSavepoint(ctx, "import_group")
		if err != nil {
			return err
		}
		if err := first.Release(ctx); err != nil {
			return err
		}
		second, err := tx.CreateSavepoint(ctx, "import_group")
		if err != nil {
			return err
		}
		return second.Release(ctx)
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
}
