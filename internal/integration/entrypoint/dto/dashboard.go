package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/usecase/dashboard"
)

// SummaryTotalsResponse carries the period totals of the composite summary.
type SummaryTotalsResponse struct {
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	Balance       decimal.Decimal `json:"balance"`
	IncomeCount   int64           `json:"income_count"`
	SpendingCount int64           `json:"spending_count"`
}

// TrendPointResponse represents a single trend data point.
type TrendPointResponse struct {
	Date        string          `json:"date"`
	PeriodLabel string          `json:"period_label"`
	Income      decimal.Decimal `json:"income"`
	Spending    decimal.Decimal `json:"spending"`
	Balance     decimal.Decimal `json:"balance"`
	EntryCount  int             `json:"entry_count"`
}

// SummaryResponse represents the composite dashboard summary.
type SummaryResponse struct {
	Totals        SummaryTotalsResponse `json:"totals"`
	RecentEntries []EntryResponse       `json:"recent_entries"`
	Trends        []TrendPointResponse  `json:"trends"`
}

// TrendsResponse represents a standalone trend series.
type TrendsResponse struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Granularity string               `json:"granularity"`
	Trends      []TrendPointResponse `json:"trends"`
}

// ToSummaryResponse converts the summary output to a response DTO.
func ToSummaryResponse(output *dashboard.GetSummaryOutput) SummaryResponse {
	return SummaryResponse{
		Totals: SummaryTotalsResponse{
			StartDate:     output.Totals.StartDate.Format(dateLayout),
			EndDate:       output.Totals.EndDate.Format(dateLayout),
			TotalIncome:   output.Totals.TotalIncome,
			TotalSpending: output.Totals.TotalSpending,
			Balance:       output.Totals.Balance,
			IncomeCount:   output.Totals.IncomeCount,
			SpendingCount: output.Totals.SpendingCount,
		},
		RecentEntries: ToEntryListResponse(output.RecentEntries),
		Trends:        toTrendPointResponses(output.Trends),
	}
}

// ToTrendsResponse converts the trends output to a response DTO.
func ToTrendsResponse(output *dashboard.GetTrendsOutput) TrendsResponse {
	return TrendsResponse{
		StartDate:   output.Period.StartDate.Format(dateLayout),
		EndDate:     output.Period.EndDate.Format(dateLayout),
		Granularity: string(output.Period.Granularity),
		Trends:      toTrendPointResponses(output.Trends),
	}
}

func toTrendPointResponses(points []dashboard.TrendPoint) []TrendPointResponse {
	out := make([]TrendPointResponse, len(points))
	for i, point := range points {
		out[i] = TrendPointResponse{
			Date:        point.Date.Format(dateLayout),
			PeriodLabel: point.PeriodLabel,
			Income:      point.Income,
			Spending:    point.Spending,
			Balance:     point.Balance,
			EntryCount:  point.EntryCount,
		}
	}
	return out
}
