package wallet

import (
	"strings"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a wallet movement
type TransactionType string

const (
	TransactionTypeCashback   TransactionType = "cashback"
	TransactionTypeCredit     TransactionType = "credit"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeDebit      TransactionType = "debit"
)

// IsCredit returns true for the types that increase the balance
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeCashback, TransactionTypeCredit, TransactionTypeRefund, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ParseCreditType normalizes a caller supplied credit type. Empty defaults to credit.
func ParseCreditType(s string) (TransactionType, error) {
	if s == "" {
		return TransactionTypeCredit, nil
	}
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsCredit() {
		return "", shared.NewDomainError("INVALID_INPUT", "Unsupported credit type: "+s)
	}
	return t, nil
}

// Transaction is an append-only wallet ledger row. Amount is signed:
// positive for credits, negative for debits.
type Transaction struct {
	shared.BaseEntity
	CustomerID   string
	Amount       decimal.Decimal
	Type         TransactionType
	ReferenceID  *string
	Description  *string
	BalanceAfter decimal.Decimal
}

// NewCreditTransaction records a credit of amount leaving the account at balanceAfter
func NewCreditTransaction(customerID string, amount decimal.Decimal, txType TransactionType, balanceAfter decimal.Decimal) (*Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if !txType.IsCredit() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Credit transaction requires a credit type")
	}
	return &Transaction{
		BaseEntity:   shared.NewBaseEntity(),
		CustomerID:   customerID,
		Amount:       amount,
		Type:         txType,
		BalanceAfter: balanceAfter,
	}, nil
}

// NewDebitTransaction records a debit of amount; the stored amount is negative
func NewDebitTransaction(customerID string, amount decimal.Decimal, balanceAfter decimal.Decimal) (*Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	return &Transaction{
		BaseEntity:   shared.NewBaseEntity(),
		CustomerID:   customerID,
		Amount:       amount.Neg(),
		Type:         TransactionTypeDebit,
		BalanceAfter: balanceAfter,
	}, nil
}

// WithReference sets the reference ID
func (t *Transaction) WithReference(referenceID string) *Transaction {
	if referenceID != "" {
		t.ReferenceID = &referenceID
	}
	return t
}

// WithDescription sets the description
func (t *Transaction) WithDescription(description string) *Transaction {
	if description != "" {
		t.Description = &description
	}
	return t
}

// IsCredit reports whether the transaction increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// Summary aggregates a customer's wallet
type Summary struct {
	CustomerID    string
	Balance       decimal.Decimal
	TotalCredit   decimal.Decimal
	TotalDebit    decimal.Decimal
	LedgerBalance decimal.Decimal
}
