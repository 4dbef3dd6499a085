package wallet

import (
	"time"

	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCreditRequest describes a credit to a customer's wallet
type AddCreditRequest struct {
	CustomerID  string
	Amount      decimal.Decimal
	Type        string
	ReferenceID string
	Description string
}

// DebitRequest describes a debit from a customer's wallet
type DebitRequest struct {
	CustomerID  string
	Amount      decimal.Decimal
	ReferenceID string
	Description string
}

// TransactionListFilter narrows a transaction listing
type TransactionListFilter struct {
	Type     string
	Page     int
	PageSize int
}

// BalanceResponse is a customer's current balance
type BalanceResponse struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a wallet ledger row
type TransactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	CustomerID   string          `json:"customer_id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	ReferenceID  *string         `json:"reference_id,omitempty"`
	Description  *string         `json:"description,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SummaryResponse aggregates a customer's wallet
type SummaryResponse struct {
	CustomerID    string          `json:"customer_id"`
	Balance       decimal.Decimal `json:"balance"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
}

// ToTransactionResponse converts a domain Transaction
func ToTransactionResponse(t *wallet.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		Amount:       t.Amount,
		Type:         string(t.Type),
		ReferenceID:  t.ReferenceID,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of Transaction
func ToTransactionResponses(items []wallet.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(items))
	for i := range items {
		result[i] = ToTransactionResponse(&items[i])
	}
	return result
}

// ToSummaryResponse converts a domain Summary
func ToSummaryResponse(s *wallet.Summary) *SummaryResponse {
	return &SummaryResponse{
		CustomerID:    s.CustomerID,
		Balance:       s.Balance,
		TotalCredit:   s.TotalCredit,
		TotalDebit:    s.TotalDebit,
		LedgerBalance: s.LedgerBalance,
	}
}
