package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

var errNotStubbed = errors.New("not stubbed")

// stubRepo implements adapter.Repository with per-method hooks; only the
// methods exercised by the dashboard read path are stubbable.
type stubRepo[T any] struct {
	findFn     func(ctx context.Context, pred adapter.Predicate, order ...adapter.SortOrder) ([]*T, error)
	countFn    func(ctx context.Context, pred adapter.Predicate) (int64, error)
	sumFn      func(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error)
	getPagedFn func(ctx context.Context, pageNumber, pageSize int, pred adapter.Predicate, order ...adapter.SortOrder) (*adapter.PagedResult[*T], error)
}

func (s *stubRepo[T]) Find(ctx context.Context, pred adapter.Predicate, order ...adapter.SortOrder) ([]*T, error) {
	if s.findFn == nil {
		return nil, nil
	}
	return s.findFn(ctx, pred, order...)
}

func (s *stubRepo[T]) Count(ctx context.Context, pred adapter.Predicate) (int64, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(ctx, pred)
}

func (s *stubRepo[T]) Sum(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	if s.sumFn == nil {
		return decimal.Zero, nil
	}
	return s.sumFn(ctx, column, pred)
}

func (s *stubRepo[T]) GetPaged(ctx context.Context, pageNumber, pageSize int, pred adapter.Predicate, order ...adapter.SortOrder) (*adapter.PagedResult[*T], error) {
	if s.getPagedFn == nil {
		return &adapter.PagedResult[*T]{PageNumber: pageNumber, PageSize: pageSize}, nil
	}
	return s.getPagedFn(ctx, pageNumber, pageSize, pred, order...)
}

func (s *stubRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) { return nil, errNotStubbed }
func (s *stubRepo[T]) Exists(ctx context.Context, pred adapter.Predicate) (bool, error) {
	return false, errNotStubbed
}
func (s *stubRepo[T]) Add(ctx context.Context, e *T) (*T, error)    { return nil, errNotStubbed }
func (s *stubRepo[T]) Update(ctx context.Context, e *T) (*T, error) { return nil, errNotStubbed }
func (s *stubRepo[T]) Delete(ctx context.Context, id int64) error   { return errNotStubbed }
func (s *stubRepo[T]) DeleteRange(ctx context.Context, pred adapter.Predicate) (int64, error) {
	return 0, errNotStubbed
}
func (s *stubRepo[T]) Max(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	return decimal.Zero, errNotStubbed
}
func (s *stubRepo[T]) Min(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	return decimal.Zero, errNotStubbed
}

// memoryCache is an in-process adapter.CacheService with injectable faults.
type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	raw, ok := c.data[key]
	return raw, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *memoryCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *memoryCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func incomeEntry(id int64, on time.Time, amount int64) *entity.IncomeEntry {
	return &entity.IncomeEntry{
		ID:        id,
		Date:      on,
		Amount:    decimal.NewFromInt(amount),
		CreatedAt: on.Add(time.Duration(id) * time.Minute),
	}
}

func spendingEntry(id int64, on time.Time, amount int64) *entity.SpendingEntry {
	return &entity.SpendingEntry{
		ID:         id,
		Date:       on,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: 1,
		CreatedAt:  on.Add(time.Duration(id) * time.Minute),
	}
}

func newSummaryUseCase(
	incomes *stubRepo[entity.IncomeEntry],
	spendings *stubRepo[entity.SpendingEntry],
	cache adapter.CacheService,
) *GetSummaryUseCase {
	trends := NewGetTrendsUseCase(incomes, spendings, cache, time.Minute)
	return NewGetSummaryUseCase(incomes, spendings, trends, cache, time.Minute)
}

func TestGetSummaryJoinsAllSlots(t *testing.T) {
	start, end := day(2026, time.March, 1), day(2026, time.April, 30)

	incomes := &stubRepo[entity.IncomeEntry]{
		sumFn: func(context.Context, string, adapter.Predicate) (decimal.Decimal, error) {
			return decimal.NewFromInt(300), nil
		},
		countFn: func(context.Context, adapter.Predicate) (int64, error) { return 2, nil },
		findFn: func(context.Context, adapter.Predicate, ...adapter.SortOrder) ([]*entity.IncomeEntry, error) {
			return []*entity.IncomeEntry{
				incomeEntry(1, day(2026, time.March, 10), 100),
				incomeEntry(2, day(2026, time.April, 5), 200),
			}, nil
		},
		getPagedFn: func(ctx context.Context, pageNumber, pageSize int, pred adapter.Predicate, order ...adapter.SortOrder) (*adapter.PagedResult[*entity.IncomeEntry], error) {
			return &adapter.PagedResult[*entity.IncomeEntry]{
				Items: []*entity.IncomeEntry{
					incomeEntry(2, day(2026, time.April, 5), 200),
					incomeEntry(1, day(2026, time.March, 10), 100),
				},
				TotalCount: 2, PageNumber: pageNumber, PageSize: pageSize,
			}, nil
		},
	}
	spendings := &stubRepo[entity.SpendingEntry]{
		sumFn: func(context.Context, string, adapter.Predicate) (decimal.Decimal, error) {
			return decimal.NewFromInt(120), nil
		},
		countFn: func(context.Context, adapter.Predicate) (int64, error) { return 1, nil },
		findFn: func(context.Context, adapter.Predicate, ...adapter.SortOrder) ([]*entity.SpendingEntry, error) {
			return []*entity.SpendingEntry{spendingEntry(7, day(2026, time.March, 20), 120)}, nil
		},
		getPagedFn: func(ctx context.Context, pageNumber, pageSize int, pred adapter.Predicate, order ...adapter.SortOrder) (*adapter.PagedResult[*entity.SpendingEntry], error) {
			return &adapter.PagedResult[*entity.SpendingEntry]{
				Items:      []*entity.SpendingEntry{spendingEntry(7, day(2026, time.March, 20), 120)},
				TotalCount: 1, PageNumber: pageNumber, PageSize: pageSize,
			}, nil
		},
	}

	uc := newSummaryUseCase(incomes, spendings, newMemoryCache())
	out, err := uc.Execute(context.Background(), GetSummaryInput{StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Totals.Balance.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("unexpected balance: %s", out.Totals.Balance)
	}
	if out.Totals.IncomeCount != 2 || out.Totals.SpendingCount != 1 {
		t.Fatalf("unexpected counts: %+v", out.Totals)
	}

	if len(out.RecentEntries) != 3 {
		t.Fatalf("expected 3 recent entries, got %d", len(out.RecentEntries))
	}
	for i := 1; i < len(out.RecentEntries); i++ {
		if out.RecentEntries[i].Date.After(out.RecentEntries[i-1].Date) {
			t.Fatalf("recent entries not ordered newest first: %v", out.RecentEntries)
		}
	}

	// Monthly trends over March and April yield a gap-free two-point series.
	if len(out.Trends) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(out.Trends))
	}
	if !out.Trends[0].Income.Equal(decimal.NewFromInt(100)) || !out.Trends[0].Spending.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected first trend point: %+v", out.Trends[0])
	}
}

func TestGetSummaryReportsFirstDeclaredFailure(t *testing.T) {
	totalsErr := domainerror.NewSystem(domainerror.ErrCodeStoreFailure, "totals query failed", nil)
	recentErr := domainerror.NewSystem(domainerror.ErrCodeStoreFailure, "recent query failed", nil)

	incomes := &stubRepo[entity.IncomeEntry]{
		// The totals slot fails last in wall-clock time.
		sumFn: func(context.Context, string, adapter.Predicate) (decimal.Decimal, error) {
			time.Sleep(30 * time.Millisecond)
			return decimal.Zero, totalsErr
		},
		getPagedFn: func(context.Context, int, int, adapter.Predicate, ...adapter.SortOrder) (*adapter.PagedResult[*entity.IncomeEntry], error) {
			return nil, recentErr
		},
	}
	spendings := &stubRepo[entity.SpendingEntry]{}

	uc := newSummaryUseCase(incomes, spendings, newMemoryCache())
	_, err := uc.Execute(context.Background(), GetSummaryInput{
		StartDate: day(2026, time.March, 1),
		EndDate:   day(2026, time.March, 31),
	})
	if !errors.Is(err, totalsErr) {
		t.Fatalf("expected the totals failure regardless of completion order, got %v", err)
	}
}

func TestGetSummaryRejectsInvertedRange(t *testing.T) {
	uc := newSummaryUseCase(&stubRepo[entity.IncomeEntry]{}, &stubRepo[entity.SpendingEntry]{}, newMemoryCache())
	_, err := uc.Execute(context.Background(), GetSummaryInput{
		StartDate: day(2026, time.March, 31),
		EndDate:   day(2026, time.March, 1),
	})
	if !domainerror.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestGetSummaryAbsorbsCacheFailures(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("cache down")
	cache.setErr = errors.New("cache down")

	incomes := &stubRepo[entity.IncomeEntry]{
		sumFn: func(context.Context, string, adapter.Predicate) (decimal.Decimal, error) {
			return decimal.NewFromInt(50), nil
		},
	}
	uc := newSummaryUseCase(incomes, &stubRepo[entity.SpendingEntry]{}, cache)

	out, err := uc.Execute(context.Background(), GetSummaryInput{
		StartDate: day(2026, time.March, 1),
		EndDate:   day(2026, time.March, 31),
	})
	if err != nil {
		t.Fatalf("cache faults must not fail the read: %v", err)
	}
	if !out.Totals.TotalIncome.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected totals: %+v", out.Totals)
	}
}

func TestGetSummaryTotalsServedFromCache(t *testing.T) {
	start, end := day(2026, time.March, 1), day(2026, time.March, 31)
	cache := newMemoryCache()

	cached := &SummaryTotals{
		StartDate:   start,
		EndDate:     end,
		TotalIncome: decimal.NewFromInt(999),
		Balance:     decimal.NewFromInt(999),
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Set(context.Background(), adapter.DashboardSummaryKey(start, end), raw, time.Minute); err != nil {
		t.Fatal(err)
	}

	incomes := &stubRepo[entity.IncomeEntry]{
		sumFn: func(context.Context, string, adapter.Predicate) (decimal.Decimal, error) {
			t.Error("totals hit the store despite a cached snapshot")
			return decimal.Zero, nil
		},
	}
	uc := newSummaryUseCase(incomes, &stubRepo[entity.SpendingEntry]{}, cache)

	out, err := uc.Execute(context.Background(), GetSummaryInput{StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Totals.TotalIncome.Equal(decimal.NewFromInt(999)) {
		t.Fatalf("expected the cached totals, got %+v", out.Totals)
	}
}
