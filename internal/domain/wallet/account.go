package wallet

import (
	"fmt"
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Account holds a customer's running wallet balance.
// Balance always equals the sum of the customer's signed transaction amounts.
type Account struct {
	CustomerID string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewAccount creates an empty account for a customer
func NewAccount(customerID string) *Account {
	now := time.Now()
	return &Account{
		CustomerID: customerID,
		Balance:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Credit adds amount to the balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Debit subtracts amount from the balance. The balance never goes negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !a.HasSufficientBalance(amount) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Insufficient balance: available %s, requested %s",
				a.Balance.StringFixed(2), amount.StringFixed(2)))
	}
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// HasSufficientBalance checks whether amount can be debited
func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ValidateAmount rejects non-positive amounts and amounts finer than a cent
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be positive")
	}
	if !shared.FitsMoneyScale(amount) {
		return shared.NewDomainError("INVALID_INPUT", "Amount cannot have more than 2 decimal places")
	}
	return nil
}
