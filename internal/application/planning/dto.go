package planning

import (
	"github.com/erp/salesledger/internal/domain/planning"
	"github.com/shopspring/decimal"
)

// SuggestionFilter narrows purchase suggestions
type SuggestionFilter struct {
	// Classification restricts results to one class when set
	Classification string
	// OnlyNeeded drops products with nothing to order
	OnlyNeeded bool
}

// ABCEntryResponse is one ranked product
type ABCEntryResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Revenue         decimal.Decimal `json:"revenue"`
	Share           decimal.Decimal `json:"share"`
	CumulativeShare decimal.Decimal `json:"cumulative_share"`
	Classification  string          `json:"classification"`
}

// ABCSummary counts products per class
type ABCSummary struct {
	A            int             `json:"a"`
	B            int             `json:"b"`
	C            int             `json:"c"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// ABCAnalysisResponse is the full classification
type ABCAnalysisResponse struct {
	WindowDays int                `json:"window_days"`
	Summary    ABCSummary         `json:"summary"`
	Items      []ABCEntryResponse `json:"items"`
}

// SuggestionResponse is a reorder recommendation
type SuggestionResponse struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Classification    string          `json:"classification"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	DailyConsumption  decimal.Decimal `json:"daily_consumption"`
	CoverageDays      int             `json:"coverage_days"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

func toABCAnalysisResponse(windowDays int, entries []planning.Classification) *ABCAnalysisResponse {
	resp := &ABCAnalysisResponse{
		WindowDays: windowDays,
		Summary:    ABCSummary{TotalRevenue: decimal.Zero},
		Items:      make([]ABCEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		switch e.Class {
		case planning.ClassA:
			resp.Summary.A++
		case planning.ClassB:
			resp.Summary.B++
		default:
			resp.Summary.C++
		}
		resp.Summary.TotalRevenue = resp.Summary.TotalRevenue.Add(e.Revenue)
		resp.Items = append(resp.Items, ABCEntryResponse{
			ProductID:       e.ProductID,
			ProductName:     e.ProductName,
			Revenue:         e.Revenue,
			Share:           e.Share.Round(2),
			CumulativeShare: e.CumulativeShare.Round(2),
			Classification:  string(e.Class),
		})
	}
	return resp
}

func toSuggestionResponse(s planning.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ProductID:         s.ProductID,
		ProductName:       s.ProductName,
		Classification:    string(s.Class),
		CurrentStock:      s.CurrentStock,
		DailyConsumption:  s.DailyConsumption.Round(4),
		CoverageDays:      s.CoverageDays,
		SuggestedQuantity: s.SuggestedQuantity,
	}
}
