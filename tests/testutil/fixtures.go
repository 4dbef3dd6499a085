package testutil

import (
	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// Sale builds a completed sale sold by userID
func Sale(id, userID string, items ...commission.SaleItem) commission.Sale {
	return commission.Sale{ID: id, UserID: userID, Items: items}
}

// Item builds a sale line. A nil category leaves the line uncategorized.
func Item(id, productID, total string, categoryID *int64) commission.SaleItem {
	return commission.SaleItem{
		ID:         id,
		ProductID:  productID,
		CategoryID: categoryID,
		TotalPrice: decimal.RequireFromString(total),
	}
}

// ServiceOrder builds a finalized order. Empty technician or budget leave
// the field unset.
func ServiceOrder(id, technicianID, budget string) commission.ServiceOrder {
	order := commission.ServiceOrder{ID: id}
	if technicianID != "" {
		order.TechnicianID = &technicianID
	}
	if budget != "" {
		b := decimal.RequireFromString(budget)
		order.BudgetValue = &b
	}
	return order
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
