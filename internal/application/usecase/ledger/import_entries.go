package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// ImportEntryInput is one entry inside an import group. CategoryID is set for
// spending entries only.
type ImportEntryInput struct {
	Kind        entity.EntryKind
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  int64
}

// ImportGroup is an all-or-nothing unit within an import batch.
type ImportGroup struct {
	Label   string
	Entries []ImportEntryInput
}

// ImportEntriesInput represents the input for a bulk import.
type ImportEntriesInput struct {
	Groups []ImportGroup
}

// SkippedGroup records a group that was rolled back.
type SkippedGroup struct {
	Label  string
	Reason string
}

// ImportEntriesOutput summarizes a bulk import.
type ImportEntriesOutput struct {
	ImportedCount int
	Skipped       []SkippedGroup
}

// ImportEntriesUseCase imports entry groups inside a single transaction with
// one savepoint per group: an invalid group is rolled back to its savepoint
// and skipped while the rest of the batch commits.
type ImportEntriesUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewImportEntriesUseCase creates a new ImportEntriesUseCase instance.
func NewImportEntriesUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *ImportEntriesUseCase {
	return &ImportEntriesUseCase{uow: uow, invalidator: invalidator}
}

// Execute runs the import. Only validation failures are absorbed per group;
// store faults abort the whole batch.
func (uc *ImportEntriesUseCase) Execute(ctx context.Context, input ImportEntriesInput) (*ImportEntriesOutput, error) {
	if len(input.Groups) == 0 {
		return nil, domainerror.NewValidation(
			domainerror.ErrCodeEmptyImport,
			"import batch cannot be empty",
		)
	}

	out := &ImportEntriesOutput{}
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		for i, group := range input.Groups {
			sp, err := tx.CreateSavepoint(ctx, fmt.Sprintf("import_group_%d", i))
			if err != nil {
				return err
			}

			added, groupErr := uc.importGroup(ctx, tx, group)
			if groupErr != nil {
				if !domainerror.IsValidation(groupErr) && !domainerror.IsNotFound(groupErr) {
					return groupErr
				}
				if err := sp.RollbackTo(ctx); err != nil {
					return err
				}
				out.Skipped = append(out.Skipped, SkippedGroup{
					Label:  group.Label,
					Reason: groupErr.Error(),
				})
				continue
			}

			if err := sp.Release(ctx); err != nil {
				return err
			}
			out.ImportedCount += added
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A batch can touch arbitrary dates of both kinds; clear both.
	uc.invalidator.RangeMutated(ctx, entity.EntryKindIncome)
	uc.invalidator.RangeMutated(ctx, entity.EntryKindSpending)

	return out, nil
}

func (uc *ImportEntriesUseCase) importGroup(ctx context.Context, tx adapter.Tx, group ImportGroup) (int, error) {
	added := 0
	for _, in := range group.Entries {
		if err := validateKind(in.Kind); err != nil {
			return 0, err
		}

		switch in.Kind {
		case entity.EntryKindIncome:
			entry := entity.NewIncomeEntry(in.Date, in.Amount, in.Description)
			if _, err := tx.Incomes().Add(ctx, entry); err != nil {
				return 0, err
			}
		default:
			entry := entity.NewSpendingEntry(in.Date, in.Amount, in.Description, in.CategoryID)
			if err := entry.Validate(); err != nil {
				return 0, err
			}
			category, err := tx.Categories().GetByID(ctx, in.CategoryID)
			if err != nil {
				return 0, err
			}
			if !category.IsActive {
				return 0, domainerror.NewValidation(
					domainerror.ErrCodeCategoryInactive,
					domainerror.ErrCategoryInactive.Error(),
				).WithMeta("category_id", in.CategoryID)
			}
			if _, err := tx.Spendings().Add(ctx, entry); err != nil {
				return 0, err
			}
		}
		added++
	}
	return added, nil
}
