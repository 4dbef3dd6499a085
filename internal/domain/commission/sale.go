package commission

import (
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sale is the slice of a completed sale the calculator needs
type Sale struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id"`
	Items  []SaleItem `json:"items"`
}

// SaleItem is one line of a sale
type SaleItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	CategoryID *int64          `json:"category_id,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Validate checks the fields the calculator depends on
func (s *Sale) Validate() error {
	if s.ID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Sale ID is required")
	}
	if s.UserID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Sale seller is required")
	}
	for _, item := range s.Items {
		if !shared.FitsMoneyScale(item.TotalPrice) {
			return shared.NewDomainError("INVALID_INPUT", "Sale item total cannot have more than 2 decimal places")
		}
	}
	return nil
}

// ServiceOrder is the slice of a finalized service order the calculator needs
type ServiceOrder struct {
	ID           string           `json:"id"`
	TechnicianID *string          `json:"technician_id,omitempty"`
	BudgetValue  *decimal.Decimal `json:"budget_value,omitempty"`
}

// HasTechnician reports whether a technician is assigned
func (o *ServiceOrder) HasTechnician() bool {
	return o.TechnicianID != nil && *o.TechnicianID != ""
}

// Validate checks the budget fits the stored precision
func (o *ServiceOrder) Validate() error {
	if o.ID == "" {
		return shared.NewDomainError("INVALID_INPUT", "Service order ID is required")
	}
	if o.BudgetValue != nil && !shared.FitsMoneyScale(*o.BudgetValue) {
		return shared.NewDomainError("INVALID_INPUT", "Budget value cannot have more than 2 decimal places")
	}
	return nil
}

// Base is the commission base: the budget value, or zero when absent
func (o *ServiceOrder) Base() decimal.Decimal {
	if o.BudgetValue == nil {
		return decimal.Zero
	}
	return *o.BudgetValue
}
