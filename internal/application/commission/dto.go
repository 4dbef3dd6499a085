package commission

import (
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarnedResponse represents an earned commission in API responses
type EarnedResponse struct {
	ID               uuid.UUID       `json:"id"`
	UserID           string          `json:"user_id"`
	RuleID           uuid.UUID       `json:"rule_id"`
	SaleID           *string         `json:"sale_id,omitempty"`
	SaleItemID       *string         `json:"sale_item_id,omitempty"`
	ServiceOrderID   *string         `json:"service_order_id,omitempty"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToEarnedResponse converts a domain Earned to a response
func ToEarnedResponse(e *commission.Earned) EarnedResponse {
	return EarnedResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		RuleID:           e.RuleID,
		SaleID:           e.SaleID,
		SaleItemID:       e.SaleItemID,
		ServiceOrderID:   e.ServiceOrderID,
		BaseAmount:       e.BaseAmount,
		CommissionAmount: e.CommissionAmount,
		CreatedAt:        e.CreatedAt,
	}
}

// ToEarnedResponses converts a slice of Earned
func ToEarnedResponses(items []commission.Earned) []EarnedResponse {
	result := make([]EarnedResponse, len(items))
	for i := range items {
		result[i] = ToEarnedResponse(&items[i])
	}
	return result
}

// PerformanceResponse represents a salesperson's totals over a period
type PerformanceResponse struct {
	UserID          string          `json:"user_id"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Entries         int64           `json:"entries"`
}

// ToPerformanceResponse converts a domain Performance
func ToPerformanceResponse(p *commission.Performance) *PerformanceResponse {
	return &PerformanceResponse{
		UserID:          p.UserID,
		Start:           p.Start,
		End:             p.End,
		TotalSales:      p.TotalSales,
		TotalCommission: p.TotalCommission,
		Entries:         p.Entries,
	}
}

// CreateRuleRequest describes a new commission rule
type CreateRuleRequest struct {
	Type       string          `json:"type"`
	UserID     *string         `json:"user_id"`
	RoleID     *int64          `json:"role_id"`
	CategoryID *int64          `json:"category_id"`
	Percentage decimal.Decimal `json:"percentage"`
	FixedValue decimal.Decimal `json:"fixed_value"`
}

// RuleResponse represents a commission rule
type RuleResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	UserID     *string         `json:"user_id,omitempty"`
	RoleID     *int64          `json:"role_id,omitempty"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	FixedValue decimal.Decimal `json:"fixed_value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToRuleResponse converts a domain Rule
func ToRuleResponse(r *commission.Rule) RuleResponse {
	return RuleResponse{
		ID:         r.ID,
		Type:       string(r.Type),
		UserID:     r.UserID,
		RoleID:     r.RoleID,
		CategoryID: r.CategoryID,
		Percentage: r.Percentage,
		FixedValue: r.FixedValue,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
