// Package persistence implements the store-facing adapter interfaces over GORM.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
	"github.com/ledger-keeper/backend/internal/integration/persistence/model"
)

// persistentModel is the mapping contract every GORM model fulfills so the
// generic repository can convert rows back into domain entities.
type persistentModel[E any] interface {
	ToEntity() *E
	PrimaryKey() int64
}

// validatable lets the repository enforce entity invariants before a write.
type validatable interface {
	Validate() error
}

// identifierPattern restricts column and savepoint names reaching SQL text.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// gormRepository is the single generic repository implementation. One
// instantiation exists per entity kind; each holds only a store handle. The
// optional guard rejects calls once the owning transaction reaches a terminal
// state.
type gormRepository[E any, M any, PM interface {
	*M
	persistentModel[E]
}] struct {
	db         *gorm.DB
	kind       string
	fromEntity func(*E) *M
	notFound   func(id int64) *domainerror.Error
	guard      func() error
}

// NewIncomeRepository creates a repository over the income table.
func NewIncomeRepository(db *gorm.DB) adapter.Repository[entity.IncomeEntry] {
	return newIncomeRepository(db, nil)
}

// NewSpendingRepository creates a repository over the spending table.
func NewSpendingRepository(db *gorm.DB) adapter.Repository[entity.SpendingEntry] {
	return newSpendingRepository(db, nil)
}

// NewCategoryRepository creates a repository over the categories table.
func NewCategoryRepository(db *gorm.DB) adapter.Repository[entity.Category] {
	return newCategoryRepository(db, nil)
}

func newIncomeRepository(db *gorm.DB, guard func() error) adapter.Repository[entity.IncomeEntry] {
	return &gormRepository[entity.IncomeEntry, model.IncomeModel, *model.IncomeModel]{
		db:         db,
		kind:       string(entity.EntryKindIncome),
		fromEntity: model.IncomeFromEntity,
		notFound:   entryNotFound(entity.EntryKindIncome),
		guard:      guard,
	}
}

func newSpendingRepository(db *gorm.DB, guard func() error) adapter.Repository[entity.SpendingEntry] {
	return &gormRepository[entity.SpendingEntry, model.SpendingModel, *model.SpendingModel]{
		db:         db,
		kind:       string(entity.EntryKindSpending),
		fromEntity: model.SpendingFromEntity,
		notFound:   entryNotFound(entity.EntryKindSpending),
		guard:      guard,
	}
}

func newCategoryRepository(db *gorm.DB, guard func() error) adapter.Repository[entity.Category] {
	return &gormRepository[entity.Category, model.CategoryModel, *model.CategoryModel]{
		db:         db,
		kind:       "category",
		fromEntity: model.CategoryFromEntity,
		notFound: func(id int64) *domainerror.Error {
			return domainerror.NewNotFound(
				domainerror.ErrCodeCategoryNotFound,
				domainerror.ErrCategoryNotFound.Error(),
			).WithMeta("id", id)
		},
		guard: guard,
	}
}

func entryNotFound(kind entity.EntryKind) func(id int64) *domainerror.Error {
	return func(id int64) *domainerror.Error {
		return domainerror.NewNotFound(
			domainerror.ErrCodeEntryNotFound,
			domainerror.ErrEntryNotFound.Error(),
		).WithMeta("id", id).WithMeta("kind", string(kind))
	}
}

func (r *gormRepository[E, M, PM]) session(ctx context.Context) (*gorm.DB, error) {
	if r.guard != nil {
		if err := r.guard(); err != nil {
			return nil, err
		}
	}
	return r.db.WithContext(ctx).Model(new(M)), nil
}

func applyPredicate(q *gorm.DB, pred adapter.Predicate) *gorm.DB {
	for _, clause := range pred.Clauses() {
		q = q.Where(clause.Expr, clause.Args...)
	}
	return q
}

func applyOrder(q *gorm.DB, order []adapter.SortOrder) *gorm.DB {
	for _, o := range order {
		if !identifierPattern.MatchString(o.Column) {
			continue
		}
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		q = q.Order(o.Column + " " + dir)
	}
	return q
}

func (r *gormRepository[E, M, PM]) systemError(op string, err error) *domainerror.Error {
	return domainerror.NewSystem(
		domainerror.ErrCodeStoreFailure,
		fmt.Sprintf("store %s failed", op),
		err,
	).WithMeta("kind", r.kind).WithMeta("operation", op)
}

// GetByID retrieves an entity by identity; a missing row is a NotFound
// failure, never a nil success.
func (r *gormRepository[E, M, PM]) GetByID(ctx context.Context, id int64) (*E, error) {
	q, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	var m M
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound(id)
		}
		return nil, r.systemError("get", err).WithMeta("id", id)
	}
	return PM(&m).ToEntity(), nil
}

// Find retrieves every entity matching pred in the requested order.
func (r *gormRepository[E, M, PM]) Find(ctx context.Context, pred adapter.Predicate, order ...adapter.SortOrder) ([]*E, error) {
	q, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []M
	if err := applyOrder(applyPredicate(q, pred), order).Find(&rows).Error; err != nil {
		return nil, r.systemError("find", err)
	}

	entities := make([]*E, len(rows))
	for i := range rows {
		entities[i] = PM(&rows[i]).ToEntity()
	}
	return entities, nil
}

// Count returns the number of entities matching pred.
func (r *gormRepository[E, M, PM]) Count(ctx context.Context, pred adapter.Predicate) (int64, error) {
	q, err := r.session(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := applyPredicate(q, pred).Count(&count).Error; err != nil {
		return 0, r.systemError("count", err)
	}
	return count, nil
}

// Exists reports whether any entity matches pred.
func (r *gormRepository[E, M, PM]) Exists(ctx context.Context, pred adapter.Predicate) (bool, error) {
	count, err := r.Count(ctx, pred)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add persists a new entity. The store assigns identity and creation/update
// timestamps; the returned entity carries them.
func (r *gormRepository[E, M, PM]) Add(ctx context.Context, e *E) (*E, error) {
	if v, ok := any(e).(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, domainerror.From(err)
		}
	}

	q, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	m := r.fromEntity(e)
	if err := q.Create(m).Error; err != nil {
		return nil, r.systemError("add", err)
	}
	return PM(m).ToEntity(), nil
}

// Update rewrites an existing entity and refreshes its update timestamp. A
// missing identity is a NotFound failure.
func (r *gormRepository[E, M, PM]) Update(ctx context.Context, e *E) (*E, error) {
	if v, ok := any(e).(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, domainerror.From(err)
		}
	}

	m := r.fromEntity(e)
	id := PM(m).PrimaryKey()

	q, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := q.Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, r.systemError("update", err).WithMeta("id", id)
	}
	if count == 0 {
		return nil, r.notFound(id)
	}

	q, err = r.session(ctx)
	if err != nil {
		return nil, err
	}
	// Select("*") rewrites zero-valued fields too; id and created_at stay
	// untouched and gorm refreshes updated_at.
	if err := q.Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(m).Error; err != nil {
		return nil, r.systemError("update", err).WithMeta("id", id)
	}

	return r.GetByID(ctx, id)
}

// Delete removes the entity with the given identity.
func (r *gormRepository[E, M, PM]) Delete(ctx context.Context, id int64) error {
	q, err := r.session(ctx)
	if err != nil {
		return err
	}

	res := q.Where("id = ?", id).Delete(new(M))
	if res.Error != nil {
		return r.systemError("delete", res.Error).WithMeta("id", id)
	}
	if res.RowsAffected == 0 {
		return r.notFound(id)
	}
	return nil
}

// DeleteRange removes every entity matching pred and returns the count.
func (r *gormRepository[E, M, PM]) DeleteRange(ctx context.Context, pred adapter.Predicate) (int64, error) {
	q, err := r.session(ctx)
	if err != nil {
		return 0, err
	}

	// gorm refuses an unconditioned batch delete; make "match everything"
	// explicit.
	q = applyPredicate(q, pred)
	if pred.IsEmpty() {
		q = q.Where("1 = 1")
	}

	res := q.Delete(new(M))
	if res.Error != nil {
		return 0, r.systemError("delete_range", res.Error)
	}
	return res.RowsAffected, nil
}

// GetPaged returns one page of entities. Page numbers past the end yield an
// empty page with the true total count, not a failure.
func (r *gormRepository[E, M, PM]) GetPaged(ctx context.Context, pageNumber, pageSize int, pred adapter.Predicate, order ...adapter.SortOrder) (*adapter.PagedResult[*E], error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, domainerror.NewValidation(
			domainerror.ErrCodeInvalidPage,
			domainerror.ErrInvalidPage.Error(),
		).WithMeta("page_number", pageNumber).WithMeta("page_size", pageSize)
	}

	total, err := r.Count(ctx, pred)
	if err != nil {
		return nil, err
	}

	q, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []M
	offset := (pageNumber - 1) * pageSize
	if err := applyOrder(applyPredicate(q, pred), order).Offset(offset).Limit(pageSize).Find(&rows).Error; err != nil {
		return nil, r.systemError("get_paged", err).WithMeta("page_number", pageNumber)
	}

	items := make([]*E, len(rows))
	for i := range rows {
		items[i] = PM(&rows[i]).ToEntity()
	}

	return &adapter.PagedResult[*E]{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}

// Sum aggregates column over the matching rows; an empty selection is zero.
func (r *gormRepository[E, M, PM]) Sum(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	return r.aggregate(ctx, "SUM", column, pred)
}

// Max aggregates column over the matching rows; an empty selection is zero.
func (r *gormRepository[E, M, PM]) Max(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	return r.aggregate(ctx, "MAX", column, pred)
}

// Min aggregates column over the matching rows; an empty selection is zero.
func (r *gormRepository[E, M, PM]) Min(ctx context.Context, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	return r.aggregate(ctx, "MIN", column, pred)
}

func (r *gormRepository[E, M, PM]) aggregate(ctx context.Context, fn, column string, pred adapter.Predicate) (decimal.Decimal, error) {
	if !identifierPattern.MatchString(column) {
		return decimal.Zero, domainerror.NewValidation(
			domainerror.ErrCodeStoreFailure,
			"invalid aggregation column",
		).WithMeta("column", column)
	}

	q, err := r.session(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var row struct {
		Value decimal.Decimal
	}
	sel := fmt.Sprintf("COALESCE(%s(%s), 0) AS value", fn, column)
	if err := applyPredicate(q, pred).Select(sel).Scan(&row).Error; err != nil {
		return decimal.Zero, r.systemError("aggregate", err).WithMeta("aggregate", fn).WithMeta("column", column)
	}
	return row.Value, nil
}
