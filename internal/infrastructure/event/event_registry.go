package event

import (
	"encoding/json"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/shopspring/decimal"
)

// CashbackPayload is the payload of a wallet.cashback_granted envelope
type CashbackPayload struct {
	CustomerID  string          `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"reference_id"`
	Description string          `json:"description"`
}

// RegisterAllEvents registers the decoders for every event the process consumes
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(commission.EventTypeSaleCompleted, decodeSaleCompleted)
	serializer.Register(commission.EventTypeServiceOrderFinalized, decodeServiceOrderFinalized)
	serializer.Register(wallet.EventTypeCashbackGranted, decodeCashbackGranted)
}

func decodeSaleCompleted(payload json.RawMessage) (shared.DomainEvent, error) {
	var sale commission.Sale
	if err := json.Unmarshal(payload, &sale); err != nil {
		return nil, invalidPayload(err)
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return commission.NewSaleCompletedEvent(sale), nil
}

func decodeServiceOrderFinalized(payload json.RawMessage) (shared.DomainEvent, error) {
	var order commission.ServiceOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, invalidPayload(err)
	}
	if order.ID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Service order ID is required")
	}
	return commission.NewServiceOrderFinalizedEvent(order), nil
}

func decodeCashbackGranted(payload json.RawMessage) (shared.DomainEvent, error) {
	var p CashbackPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, invalidPayload(err)
	}
	if p.CustomerID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cashback amount must be positive")
	}
	event := wallet.NewCashbackGrantedEvent(p.CustomerID, p.Amount, p.ReferenceID)
	event.Description = p.Description
	return event, nil
}

func invalidPayload(err error) error {
	return shared.NewDomainError("INVALID_INPUT", "malformed event payload: "+err.Error())
}
