package commission

import (
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Earned is an append-only record of a commission credited to a user for a
// sale line item or a finalized service order.
type Earned struct {
	shared.BaseEntity
	UserID           string
	RuleID           uuid.UUID
	SaleID           *string
	SaleItemID       *string
	ServiceOrderID   *string
	BaseAmount       decimal.Decimal
	CommissionAmount decimal.Decimal
}

// NewSaleEarned records the commission for one sale line item
func NewSaleEarned(userID string, rule *Rule, saleID string, item SaleItem) *Earned {
	e := &Earned{
		BaseEntity:       shared.NewBaseEntity(),
		UserID:           userID,
		RuleID:           rule.ID,
		SaleID:           &saleID,
		BaseAmount:       item.TotalPrice,
		CommissionAmount: rule.Compute(item.TotalPrice),
	}
	if item.ID != "" {
		itemID := item.ID
		e.SaleItemID = &itemID
	}
	return e
}

// NewServiceOrderEarned records the commission for a finalized service order
func NewServiceOrderEarned(technicianID string, rule *Rule, order ServiceOrder) *Earned {
	orderID := order.ID
	base := order.Base()
	return &Earned{
		BaseEntity:       shared.NewBaseEntity(),
		UserID:           technicianID,
		RuleID:           rule.ID,
		ServiceOrderID:   &orderID,
		BaseAmount:       base,
		CommissionAmount: rule.Compute(base),
	}
}

// Performance aggregates a user's earned commissions over a period
type Performance struct {
	UserID          string
	Start           time.Time
	End             time.Time
	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
	Entries         int64
}

// NewPerformance returns a zero-valued performance for the period
func NewPerformance(userID string, start, end time.Time) *Performance {
	return &Performance{
		UserID:          userID,
		Start:           start,
		End:             end,
		TotalSales:      decimal.Zero,
		TotalCommission: decimal.Zero,
	}
}
