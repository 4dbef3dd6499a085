package wallet

import (
	"context"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository persists wallet accounts
type AccountRepository interface {
	// FindByCustomerID returns shared.ErrNotFound when the customer has no account
	FindByCustomerID(ctx context.Context, customerID string) (*Account, error)
	// FindByCustomerIDForUpdate reads the account holding a row lock until the
	// surrounding transaction ends
	FindByCustomerIDForUpdate(ctx context.Context, customerID string) (*Account, error)
	// UpsertCredit adds amount to the balance, creating the row if absent,
	// and returns the account as stored afterwards
	UpsertCredit(ctx context.Context, customerID string, amount decimal.Decimal) (*Account, error)
	// Save writes the balance of an existing account
	Save(ctx context.Context, account *Account) error
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	shared.Filter
	Type TransactionType
}

// Totals holds credit and debit sums for a customer
type Totals struct {
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
}

// TransactionRepository persists wallet transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByCustomerID(ctx context.Context, customerID string, filter TransactionFilter) ([]Transaction, int64, error)
	// SumByCustomerID returns the credit total and the absolute debit total
	SumByCustomerID(ctx context.Context, customerID string) (*Totals, error)
}
