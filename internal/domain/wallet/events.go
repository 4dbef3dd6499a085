package wallet

import (
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeWallet      = "Wallet"
	EventTypeCashbackGranted = "wallet.cashback_granted"
)

// CashbackGrantedEvent asks the ledger to credit cashback to a customer
type CashbackGrantedEvent struct {
	shared.BaseDomainEvent
	CustomerID  string          `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Description string          `json:"description,omitempty"`
}

// NewCashbackGrantedEvent creates a CashbackGrantedEvent
func NewCashbackGrantedEvent(customerID string, amount decimal.Decimal, referenceID string) *CashbackGrantedEvent {
	return &CashbackGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashbackGranted, AggregateTypeWallet, customerID),
		CustomerID:      customerID,
		Amount:          amount,
		ReferenceID:     referenceID,
	}
}
