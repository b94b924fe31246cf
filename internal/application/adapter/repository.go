// Package adapter defines the interfaces between the application layer and
// its collaborators: the store, the transaction coordinator, and the cache.
package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Clause is a single store-neutral filter condition.
type Clause struct {
	Expr string
	Args []any
}

// Predicate is a conjunction of filter clauses applied to repository reads and
// range deletes. The zero value matches everything.
type Predicate struct {
	clauses []Clause
}

// Where starts a predicate with a single condition.
func Where(expr string, args ...any) Predicate {
	return Predicate{clauses: []Clause{{Expr: expr, Args: args}}}
}

// And appends a condition to the predicate.
func (p Predicate) And(expr string, args ...any) Predicate {
	clauses := make([]Clause, 0, len(p.clauses)+1)
	clauses = append(clauses, p.clauses...)
	clauses = append(clauses, Clause{Expr: expr, Args: args})
	return Predicate{clauses: clauses}
}

// Clauses returns the conjunction in declaration order.
func (p Predicate) Clauses() []Clause {
	return p.clauses
}

// IsEmpty reports whether the predicate matches everything.
func (p Predicate) IsEmpty() bool {
	return len(p.clauses) == 0
}

// DateBetween filters on the entry date column, inclusive on both ends.
func DateBetween(start, end time.Time) Predicate {
	return Where("date >= ? AND date <= ?", start, end)
}

// SortOrder describes one ordering term for repository reads.
type SortOrder struct {
	Column     string
	Descending bool
}

// PagedResult carries one page of items together with pagination metadata.
type PagedResult[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}

// TotalPages computes the number of pages covering TotalCount items.
func (p *PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasPreviousPage reports whether a page precedes this one.
func (p *PagedResult[T]) HasPreviousPage() bool {
	return p.PageNumber > 1
}

// HasNextPage reports whether a page follows this one.
func (p *PagedResult[T]) HasNextPage() bool {
	return p.PageNumber < p.TotalPages()
}

// Repository is the uniform per-entity-kind contract over the store. One
// concrete implementation exists per entity kind; each holds only a store
// handle. The uniformity is what lets the unit of work and the cache
// invalidation treat every kind identically.
type Repository[T any] interface {
	// GetByID returns the entity or a NotFound failure; a miss is never a
	// nil success.
	GetByID(ctx context.Context, id int64) (*T, error)

	Find(ctx context.Context, pred Predicate, order ...SortOrder) ([]*T, error)
	Count(ctx context.Context, pred Predicate) (int64, error)
	Exists(ctx context.Context, pred Predicate) (bool, error)

	// Add assigns identity and creation/update timestamps. It fails with
	// Validation when required fields are absent and System on store failure.
	Add(ctx context.Context, e *T) (*T, error)

	// Update fails with NotFound when the id does not exist and refreshes
	// the update timestamp.
	Update(ctx context.Context, e *T) (*T, error)

	Delete(ctx context.Context, id int64) error

	// DeleteRange removes every entity matching pred and returns the count.
	DeleteRange(ctx context.Context, pred Predicate) (int64, error)

	// GetPaged returns the requested page. Page numbers beyond range yield an
	// empty, not failed, result with the true total count.
	GetPaged(ctx context.Context, pageNumber, pageSize int, pred Predicate, order ...SortOrder) (*PagedResult[*T], error)

	// Aggregations over a numeric column, optionally filtered. An empty
	// selection yields zero.
	Sum(ctx context.Context, column string, pred Predicate) (decimal.Decimal, error)
	Max(ctx context.Context, column string, pred Predicate) (decimal.Decimal, error)
	Min(ctx context.Context, column string, pred Predicate) (decimal.Decimal, error)
}
