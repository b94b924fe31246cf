package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledger-keeper/backend/internal/application/usecase/dashboard"
	"github.com/ledger-keeper/backend/internal/integration/entrypoint/dto"
)

// DashboardController handles dashboard endpoints.
type DashboardController struct {
	getSummaryUseCase *dashboard.GetSummaryUseCase
	getTrendsUseCase  *dashboard.GetTrendsUseCase
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getSummaryUseCase *dashboard.GetSummaryUseCase,
	getTrendsUseCase *dashboard.GetTrendsUseCase,
) *DashboardController {
	return &DashboardController{
		getSummaryUseCase: getSummaryUseCase,
		getTrendsUseCase:  getTrendsUseCase,
	}
}

// Summary handles GET /dashboard/summary requests.
func (c *DashboardController) Summary(ctx *gin.Context) {
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	input := dashboard.GetSummaryInput{StartDate: start, EndDate: end}
	if raw := ctx.Query("recent_limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			dto.WriteBadRequest(ctx, "Invalid recent_limit")
			return
		}
		input.RecentLimit = limit
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}

// Trends handles GET /dashboard/trends requests.
func (c *DashboardController) Trends(ctx *gin.Context) {
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	output, err := c.getTrendsUseCase.Execute(ctx.Request.Context(), dashboard.GetTrendsInput{
		StartDate:   start,
		EndDate:     end,
		Granularity: dashboard.Granularity(ctx.DefaultQuery("granularity", "monthly")),
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTrendsResponse(output))
}
