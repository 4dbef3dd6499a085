package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRequest asks for commissions on a completed sale
type SaleRequest struct {
	ID     string            `json:"id" binding:"required,max=64"`
	UserID string            `json:"user_id" binding:"required,max=64"`
	Items  []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest is one line of a sale
type SaleItemRequest struct {
	ID         string          `json:"id" binding:"required,max=64"`
	ProductID  string          `json:"product_id" binding:"required,max=64"`
	CategoryID *int64          `json:"category_id" binding:"omitempty,gt=0"`
	TotalPrice decimal.Decimal `json:"total_price" binding:"decimal_gte0"`
}

// ServiceOrderRequest asks for the commission on a finalized service order
type ServiceOrderRequest struct {
	ID           string           `json:"id" binding:"required,max=64"`
	TechnicianID *string          `json:"technician_id" binding:"omitempty,max=64"`
	BudgetValue  *decimal.Decimal `json:"budget_value" binding:"omitempty,decimal_gte0"`
}

// CreateRuleRequest describes a new commission rule
type CreateRuleRequest struct {
	Type       string          `json:"type" binding:"required,oneof=sale os"`
	UserID     *string         `json:"user_id" binding:"omitempty,min=1,max=64"`
	RoleID     *int64          `json:"role_id" binding:"omitempty,gt=0"`
	CategoryID *int64          `json:"category_id" binding:"omitempty,gt=0"`
	Percentage decimal.Decimal `json:"percentage" binding:"decimal_gte0"`
	FixedValue decimal.Decimal `json:"fixed_value" binding:"decimal_gte0"`
}

// RuleListQuery filters rule listings
type RuleListQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=sale os"`
	UserID string `form:"user_id" binding:"omitempty,max=64"`
}

// PerformanceQuery bounds a salesperson performance report. Dates are
// RFC 3339 timestamps or YYYY-MM-DD days; a bare end day covers the whole day.
type PerformanceQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// Range parses the query bounds
func (q PerformanceQuery) Range() (time.Time, time.Time, error) {
	start, _, err := parseBound(q.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, dayOnly, err := parseBound(q.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if dayOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", s)
	}
	return t, true, nil
}

// CreditRequest adds money to a wallet
type CreditRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Type        string          `json:"type" binding:"omitempty,oneof=cashback credit refund adjustment"`
	ReferenceID string          `json:"reference_id" binding:"omitempty,max=64"`
	Description string          `json:"description" binding:"omitempty,max=255"`
}

// DebitRequest takes money from a wallet
type DebitRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	ReferenceID string          `json:"reference_id" binding:"omitempty,max=64"`
	Description string          `json:"description" binding:"omitempty,max=255"`
}

// TransactionListQuery pages through a wallet ledger
type TransactionListQuery struct {
	ListRequest
	Type string `form:"type" binding:"omitempty,oneof=cashback credit refund adjustment debit"`
}

// SuggestionQuery filters purchase suggestions
type SuggestionQuery struct {
	Classification string `form:"classification" binding:"omitempty,oneof=A B C a b c"`
	OnlyNeeded     bool   `form:"only_needed"`
}

// EventRequest is an event envelope posted by another service
type EventRequest struct {
	ID         string          `json:"id" binding:"omitempty,uuid"`
	Type       string          `json:"type" binding:"required,max=64"`
	OccurredAt *time.Time      `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
}

// EventAccepted acknowledges an ingested event
type EventAccepted struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
}
