package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/application/usecase/ledger"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

const dateLayout = "2006-01-02"

// EntryRequest represents the request body for creating or replacing an
// entry. CategoryID is required for spending entries and ignored for income.
type EntryRequest struct {
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,min=1,max=255"`
	CategoryID  int64           `json:"category_id,omitempty"`
}

// ParseDate parses the request date, rejecting anything that is not a
// calendar date.
func (r *EntryRequest) ParseDate() (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, r.Date, time.UTC)
	if err != nil {
		return time.Time{}, domainerror.NewValidation(
			domainerror.ErrCodeInvalidDate,
			"date must be formatted as YYYY-MM-DD",
		).WithMeta("date", r.Date)
	}
	return date, nil
}

// EntryResponse represents a single entry in API responses.
type EntryResponse struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToEntryResponse converts the kind-neutral read model to a response DTO.
func ToEntryResponse(view ledger.EntryView) EntryResponse {
	return EntryResponse{
		ID:          view.ID,
		Kind:        string(view.Kind),
		Date:        view.Date.Format(dateLayout),
		Amount:      view.Amount,
		Description: view.Description,
		CategoryID:  view.CategoryID,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
}

// ToEntryListResponse converts a slice of read models.
func ToEntryListResponse(views []ledger.EntryView) []EntryResponse {
	entries := make([]EntryResponse, len(views))
	for i, view := range views {
		entries[i] = ToEntryResponse(view)
	}
	return entries
}

// PagedEntriesResponse represents one page of entries with pagination
// metadata.
type PagedEntriesResponse struct {
	Entries         []EntryResponse `json:"entries"`
	TotalCount      int64           `json:"total_count"`
	PageNumber      int             `json:"page_number"`
	PageSize        int             `json:"page_size"`
	TotalPages      int             `json:"total_pages"`
	HasPreviousPage bool            `json:"has_previous_page"`
	HasNextPage     bool            `json:"has_next_page"`
}

// ToPagedEntriesResponse converts a page of read models.
func ToPagedEntriesResponse(page *adapter.PagedResult[ledger.EntryView]) PagedEntriesResponse {
	return PagedEntriesResponse{
		Entries:         ToEntryListResponse(page.Items),
		TotalCount:      page.TotalCount,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalPages:      page.TotalPages(),
		HasPreviousPage: page.HasPreviousPage(),
		HasNextPage:     page.HasNextPage(),
	}
}

// StatisticsResponse represents per-kind aggregates over a date range.
type StatisticsResponse struct {
	Kind      string          `json:"kind"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Total     decimal.Decimal `json:"total"`
	Count     int64           `json:"count"`
	Average   decimal.Decimal `json:"average"`
	Largest   decimal.Decimal `json:"largest"`
	Smallest  decimal.Decimal `json:"smallest"`
}

// ToStatisticsResponse converts computed statistics to a response DTO.
func ToStatisticsResponse(stats *ledger.Statistics) StatisticsResponse {
	return StatisticsResponse{
		Kind:      string(stats.Kind),
		StartDate: stats.StartDate.Format(dateLayout),
		EndDate:   stats.EndDate.Format(dateLayout),
		Total:     stats.Total,
		Count:     stats.Count,
		Average:   stats.Average,
		Largest:   stats.Largest,
		Smallest:  stats.Smallest,
	}
}

// BulkDeleteResponse reports how many entries a range delete removed.
type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ImportEntryRequest represents one entry inside an import group.
type ImportEntryRequest struct {
	Kind        string          `json:"kind" binding:"required,oneof=income spending"`
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	CategoryID  int64           `json:"category_id,omitempty"`
}

// ImportGroupRequest represents an all-or-nothing unit within an import.
type ImportGroupRequest struct {
	Label   string               `json:"label" binding:"required"`
	Entries []ImportEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// ImportRequest represents the request body for a bulk import.
type ImportRequest struct {
	Groups []ImportGroupRequest `json:"groups" binding:"required,min=1,dive"`
}

// ToImportInput converts the request into the use case input, parsing dates.
func (r *ImportRequest) ToImportInput() (ledger.ImportEntriesInput, error) {
	input := ledger.ImportEntriesInput{Groups: make([]ledger.ImportGroup, len(r.Groups))}
	for i, group := range r.Groups {
		entries := make([]ledger.ImportEntryInput, len(group.Entries))
		for j, entry := range group.Entries {
			date, err := time.ParseInLocation(dateLayout, entry.Date, time.UTC)
			if err != nil {
				return ledger.ImportEntriesInput{}, domainerror.NewValidation(
					domainerror.ErrCodeInvalidDate,
					"date must be formatted as YYYY-MM-DD",
				).WithMeta("group", group.Label).WithMeta("date", entry.Date)
			}
			entries[j] = ledger.ImportEntryInput{
				Kind:        entity.EntryKind(entry.Kind),
				Date:        date,
				Amount:      entry.Amount,
				Description: entry.Description,
				CategoryID:  entry.CategoryID,
			}
		}
		input.Groups[i] = ledger.ImportGroup{Label: group.Label, Entries: entries}
	}
	return input, nil
}

// SkippedGroupResponse records a group that the import rolled back.
type SkippedGroupResponse struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// ImportResponse summarizes a bulk import.
type ImportResponse struct {
	ImportedCount int                    `json:"imported_count"`
	Skipped       []SkippedGroupResponse `json:"skipped"`
}

// ToImportResponse converts the import outcome to a response DTO.
func ToImportResponse(output *ledger.ImportEntriesOutput) ImportResponse {
	skipped := make([]SkippedGroupResponse, len(output.Skipped))
	for i, group := range output.Skipped {
		skipped[i] = SkippedGroupResponse{Label: group.Label, Reason: group.Reason}
	}
	return ImportResponse{ImportedCount: output.ImportedCount, Skipped: skipped}
}
