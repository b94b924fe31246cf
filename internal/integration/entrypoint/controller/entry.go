// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledger-keeper/backend/internal/application/usecase/ledger"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	"github.com/ledger-keeper/backend/internal/integration/entrypoint/dto"
)

// EntryController handles income and spending entry endpoints.
type EntryController struct {
	createIncome   *ledger.CreateIncomeUseCase
	createSpending *ledger.CreateSpendingUseCase
	updateIncome   *ledger.UpdateIncomeUseCase
	updateSpending *ledger.UpdateSpendingUseCase
	deleteEntry    *ledger.DeleteEntryUseCase
	getEntry       *ledger.GetEntryUseCase
	getByRange     *ledger.GetByDateRangeUseCase
	list           *ledger.ListEntriesUseCase
	statistics     *ledger.GetStatisticsUseCase
	bulkDelete     *ledger.BulkDeleteEntriesUseCase
	importEntries  *ledger.ImportEntriesUseCase
}

// NewEntryController creates a new entry controller instance.
func NewEntryController(
	createIncome *ledger.CreateIncomeUseCase,
	createSpending *ledger.CreateSpendingUseCase,
	updateIncome *ledger.UpdateIncomeUseCase,
	updateSpending *ledger.UpdateSpendingUseCase,
	deleteEntry *ledger.DeleteEntryUseCase,
	getEntry *ledger.GetEntryUseCase,
	getByRange *ledger.GetByDateRangeUseCase,
	list *ledger.ListEntriesUseCase,
	statistics *ledger.GetStatisticsUseCase,
	bulkDelete *ledger.BulkDeleteEntriesUseCase,
	importEntries *ledger.ImportEntriesUseCase,
) *EntryController {
	return &EntryController{
		createIncome:   createIncome,
		createSpending: createSpending,
		updateIncome:   updateIncome,
		updateSpending: updateSpending,
		deleteEntry:    deleteEntry,
		getEntry:       getEntry,
		getByRange:     getByRange,
		list:           list,
		statistics:     statistics,
		bulkDelete:     bulkDelete,
		importEntries:  importEntries,
	}
}

// Create handles POST /entries/:kind requests.
func (c *EntryController) Create(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}

	var req dto.EntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.WriteBadRequest(ctx, "Invalid request body")
		return
	}
	date, err := req.ParseDate()
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	var view ledger.EntryView
	if kind == entity.EntryKindIncome {
		output, err := c.createIncome.Execute(ctx.Request.Context(), ledger.CreateIncomeInput{
			Date:        date,
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			dto.WriteError(ctx, err)
			return
		}
		view = ledger.IncomeView(output.Entry)
	} else {
		output, err := c.createSpending.Execute(ctx.Request.Context(), ledger.CreateSpendingInput{
			Date:        date,
			Amount:      req.Amount,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			dto.WriteError(ctx, err)
			return
		}
		view = ledger.SpendingView(output.Entry)
	}

	ctx.JSON(http.StatusCreated, dto.ToEntryResponse(view))
}

// Update handles PUT /entries/:kind/:id requests.
func (c *EntryController) Update(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req dto.EntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.WriteBadRequest(ctx, "Invalid request body")
		return
	}
	date, err := req.ParseDate()
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	var view ledger.EntryView
	if kind == entity.EntryKindIncome {
		output, err := c.updateIncome.Execute(ctx.Request.Context(), ledger.UpdateIncomeInput{
			ID:          id,
			Date:        date,
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			dto.WriteError(ctx, err)
			return
		}
		view = ledger.IncomeView(output.Entry)
	} else {
		output, err := c.updateSpending.Execute(ctx.Request.Context(), ledger.UpdateSpendingInput{
			ID:          id,
			Date:        date,
			Amount:      req.Amount,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			dto.WriteError(ctx, err)
			return
		}
		view = ledger.SpendingView(output.Entry)
	}

	ctx.JSON(http.StatusOK, dto.ToEntryResponse(view))
}

// Delete handles DELETE /entries/:kind/:id requests.
func (c *EntryController) Delete(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.deleteEntry.Execute(ctx.Request.Context(), ledger.DeleteEntryInput{Kind: kind, ID: id}); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Get handles GET /entries/:kind/:id requests.
func (c *EntryController) Get(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	output, err := c.getEntry.Execute(ctx.Request.Context(), ledger.GetEntryInput{Kind: kind, ID: id})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEntryResponse(output.Entry))
}

// GetByDateRange handles GET /entries/:kind?start_date=&end_date= requests.
func (c *EntryController) GetByDateRange(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	output, err := c.getByRange.Execute(ctx.Request.Context(), ledger.GetByDateRangeInput{
		Kind:      kind,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"entries": dto.ToEntryListResponse(output.Entries)})
}

// List handles GET /entries/:kind/page requests.
func (c *EntryController) List(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}

	pageNumber, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil {
		dto.WriteBadRequest(ctx, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if err != nil {
		dto.WriteBadRequest(ctx, "Invalid page size")
		return
	}
	descending := ctx.DefaultQuery("order", "desc") != "asc"

	output, err := c.list.Execute(ctx.Request.Context(), ledger.ListEntriesInput{
		Kind:       kind,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Descending: descending,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPagedEntriesResponse(output.Page))
}

// Statistics handles GET /entries/:kind/statistics requests.
func (c *EntryController) Statistics(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	output, err := c.statistics.Execute(ctx.Request.Context(), ledger.GetStatisticsInput{
		Kind:      kind,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatisticsResponse(output.Statistics))
}

// BulkDelete handles DELETE /entries/:kind requests with a date range.
func (c *EntryController) BulkDelete(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	output, err := c.bulkDelete.Execute(ctx.Request.Context(), ledger.BulkDeleteEntriesInput{
		Kind:      kind,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkDeleteResponse{DeletedCount: output.DeletedCount})
}

// Import handles POST /entries/import requests.
func (c *EntryController) Import(ctx *gin.Context) {
	var req dto.ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.WriteBadRequest(ctx, "Invalid request body")
		return
	}

	input, err := req.ToImportInput()
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	output, err := c.importEntries.Execute(ctx.Request.Context(), input)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToImportResponse(output))
}

// parseKind reads and validates the :kind URL parameter.
func parseKind(ctx *gin.Context) (entity.EntryKind, bool) {
	kind := entity.EntryKind(ctx.Param("kind"))
	if !kind.IsValid() {
		dto.WriteBadRequest(ctx, "Entry kind must be 'income' or 'spending'")
		return "", false
	}
	return kind, true
}

// parseID reads the :id URL parameter.
func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.WriteBadRequest(ctx, "Invalid entry ID")
		return 0, false
	}
	return id, true
}

// parseDateRange reads the start_date and end_date query parameters.
func parseDateRange(ctx *gin.Context) (start, end time.Time, ok bool) {
	start, err := time.ParseInLocation("2006-01-02", ctx.Query("start_date"), time.UTC)
	if err != nil {
		dto.WriteBadRequest(ctx, "start_date must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err = time.ParseInLocation("2006-01-02", ctx.Query("end_date"), time.UTC)
	if err != nil {
		dto.WriteBadRequest(ctx, "end_date must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
