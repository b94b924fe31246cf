package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
	"github.com/ledger-keeper/backend/internal/integration/persistence/model"
)

// newTestDB opens a private in-memory database per test. The pool is pinned
// to one connection so the memory database survives for the test's lifetime.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	if err := db.AutoMigrate(&model.IncomeModel{}, &model.SpendingModel{}, &model.CategoryModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustAddIncome(t *testing.T, repo adapter.Repository[entity.IncomeEntry], on time.Time, amount string, description string) *entity.IncomeEntry {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatal(err)
	}
	added, err := repo.Add(context.Background(), entity.NewIncomeEntry(on, amt, description))
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	return added
}

func TestAddAssignsIdentityAndTimestamps(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	added := mustAddIncome(t, repo, day(2026, time.March, 10), "150.50", "salary")
	if added.ID == 0 {
		t.Fatal("expected a store-assigned id")
	}
	if added.CreatedAt.IsZero() || added.UpdatedAt.IsZero() {
		t.Fatal("expected store-assigned timestamps")
	}

	got, err := repo.GetByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("150.50")) || got.Description != "salary" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if !got.Date.Equal(day(2026, time.March, 10)) {
		t.Fatalf("unexpected date: %v", got.Date)
	}
}

func TestAddRejectsInvalidEntry(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	_, err := repo.Add(context.Background(), entity.NewIncomeEntry(day(2026, time.March, 10), decimal.NewFromInt(-5), "bad"))
	if !domainerror.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	count, err := repo.Count(context.Background(), adapter.Predicate{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("rejected entry must not be stored, count = %d", count)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 42)
	if !domainerror.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
	if domainerror.From(err).Code != domainerror.ErrCodeEntryNotFound {
		t.Fatalf("unexpected code: %s", domainerror.From(err).Code)
	}
}

func TestUpdate(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	added := mustAddIncome(t, repo, day(2026, time.March, 10), "100", "salary")

	time.Sleep(5 * time.Millisecond)

	added.Amount = decimal.NewFromInt(175)
	added.Description = "salary adjusted"
	updated, err := repo.Update(context.Background(), added)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(175)) || updated.Description != "salary adjusted" {
		t.Fatalf("unexpected updated entry: %+v", updated)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Fatalf("creation timestamp must not move: %v vs %v", updated.CreatedAt, added.CreatedAt)
	}
	if !updated.UpdatedAt.After(added.UpdatedAt) {
		t.Fatalf("update timestamp must advance: %v vs %v", updated.UpdatedAt, added.UpdatedAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	ghost := entity.NewIncomeEntry(day(2026, time.March, 10), decimal.NewFromInt(10), "ghost")
	ghost.ID = 999
	_, err := repo.Update(context.Background(), ghost)
	if !domainerror.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	added := mustAddIncome(t, repo, day(2026, time.March, 10), "100", "salary")

	if err := repo.Delete(context.Background(), added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), added.ID); !domainerror.IsNotFound(err) {
		t.Fatalf("expected the row to be gone, got %v", err)
	}

	if err := repo.Delete(context.Background(), added.ID); !domainerror.IsNotFound(err) {
		t.Fatalf("deleting a missing row must be not-found, got %v", err)
	}
}

func TestFindWithPredicateAndOrder(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	mustAddIncome(t, repo, day(2026, time.January, 5), "10", "january")
	mustAddIncome(t, repo, day(2026, time.March, 20), "30", "late march")
	mustAddIncome(t, repo, day(2026, time.March, 5), "20", "early march")

	entries, err := repo.Find(
		context.Background(),
		adapter.DateBetween(day(2026, time.March, 1), day(2026, time.March, 31)),
		adapter.SortOrder{Column: "date", Descending: true},
	)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "late march" || entries[1].Description != "early march" {
		t.Fatalf("unexpected order: %q, %q", entries[0].Description, entries[1].Description)
	}
}

func TestCountAndExists(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	mustAddIncome(t, repo, day(2026, time.March, 5), "20", "march")

	pred := adapter.Where("description = ?", "march")
	count, err := repo.Count(context.Background(), pred)
	if err != nil || count != 1 {
		t.Fatalf("count = %d, err = %v", count, err)
	}

	exists, err := repo.Exists(context.Background(), pred)
	if err != nil || !exists {
		t.Fatalf("exists = %v, err = %v", exists, err)
	}
	exists, err = repo.Exists(context.Background(), adapter.Where("description = ?", "april"))
	if err != nil || exists {
		t.Fatalf("exists = %v, err = %v", exists, err)
	}
}

func TestDeleteRange(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	mustAddIncome(t, repo, day(2026, time.March, 5), "20", "a")
	mustAddIncome(t, repo, day(2026, time.March, 15), "30", "b")
	mustAddIncome(t, repo, day(2026, time.April, 1), "40", "c")

	deleted, err := repo.DeleteRange(context.Background(), adapter.DateBetween(day(2026, time.March, 1), day(2026, time.March, 31)))
	if err != nil {
		t.Fatalf("delete range: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	// The zero-value predicate matches everything.
	deleted, err = repo.DeleteRange(context.Background(), adapter.Predicate{})
	if err != nil || deleted != 1 {
		t.Fatalf("deleted = %d, err = %v", deleted, err)
	}
}

func TestGetPaged(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	for i := 1; i <= 7; i++ {
		mustAddIncome(t, repo, day(2026, time.March, i), "10", "entry")
	}

	page, err := repo.GetPaged(context.Background(), 2, 3, adapter.Predicate{}, adapter.SortOrder{Column: "date"})
	if err != nil {
		t.Fatalf("get paged: %v", err)
	}
	if len(page.Items) != 3 || page.TotalCount != 7 {
		t.Fatalf("unexpected page: %d items, total %d", len(page.Items), page.TotalCount)
	}
	if page.TotalPages() != 3 || !page.HasPreviousPage() || !page.HasNextPage() {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	if !page.Items[0].Date.Equal(day(2026, time.March, 4)) {
		t.Fatalf("unexpected first item on page 2: %v", page.Items[0].Date)
	}
}

func TestGetPagedPastTheEnd(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	for i := 1; i <= 7; i++ {
		mustAddIncome(t, repo, day(2026, time.March, i), "10", "entry")
	}

	page, err := repo.GetPaged(context.Background(), 5, 2, adapter.Predicate{})
	if err != nil {
		t.Fatalf("a page past the end must not fail: %v", err)
	}
	if len(page.Items) != 0 || page.TotalCount != 7 {
		t.Fatalf("unexpected page: %d items, total %d", len(page.Items), page.TotalCount)
	}
	if page.HasNextPage() {
		t.Fatal("a page past the end has no next page")
	}
}

func TestGetPagedRejectsInvalidPaging(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	for _, args := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
		_, err := repo.GetPaged(context.Background(), args[0], args[1], adapter.Predicate{})
		if !domainerror.IsValidation(err) {
			t.Fatalf("page %d size %d: expected a validation error, got %v", args[0], args[1], err)
		}
	}
}

func TestAggregates(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))
	mustAddIncome(t, repo, day(2026, time.March, 5), "100.50", "a")
	mustAddIncome(t, repo, day(2026, time.March, 15), "200.25", "b")
	mustAddIncome(t, repo, day(2026, time.April, 1), "999", "outside")

	ctx := context.Background()
	march := adapter.DateBetween(day(2026, time.March, 1), day(2026, time.March, 31))

	sum, err := repo.Sum(ctx, "amount", march)
	if err != nil || !sum.Equal(decimal.RequireFromString("300.75")) {
		t.Fatalf("sum = %s, err = %v", sum, err)
	}
	max, err := repo.Max(ctx, "amount", march)
	if err != nil || !max.Equal(decimal.RequireFromString("200.25")) {
		t.Fatalf("max = %s, err = %v", max, err)
	}
	min, err := repo.Min(ctx, "amount", march)
	if err != nil || !min.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("min = %s, err = %v", min, err)
	}
}

func TestAggregateOverEmptySelectionIsZero(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	sum, err := repo.Sum(context.Background(), "amount", adapter.Predicate{})
	if err != nil || !sum.IsZero() {
		t.Fatalf("sum = %s, err = %v", sum, err)
	}
}

func TestAggregateRejectsUnsafeColumn(t *testing.T) {
	repo := NewIncomeRepository(newTestDB(t))

	_, err := repo.Sum(context.Background(), "amount); DROP TABLE income;--", adapter.Predicate{})
	if !domainerror.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestCategoryRepositoryNotFoundCode(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 9)
	if !domainerror.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
	if domainerror.From(err).Code != domainerror.ErrCodeCategoryNotFound {
		t.Fatalf("unexpected code: %s", domainerror.From(err).Code)
	}
}
