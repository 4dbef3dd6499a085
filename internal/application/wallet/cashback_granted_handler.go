package wallet

import (
	"context"
	"fmt"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/domain/wallet"
	"go.uber.org/zap"
)

// CashbackGrantedHandler credits cashback to a customer's wallet
type CashbackGrantedHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewCashbackGrantedHandler creates a new handler for cashback granted events
func NewCashbackGrantedHandler(service *Service, logger *zap.Logger) *CashbackGrantedHandler {
	return &CashbackGrantedHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CashbackGrantedHandler) EventTypes() []string {
	return []string{wallet.EventTypeCashbackGranted}
}

// Handle processes a CashbackGrantedEvent
func (h *CashbackGrantedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	granted, ok := event.(*wallet.CashbackGrantedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", wallet.EventTypeCashbackGranted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			wallet.EventTypeCashbackGranted, event.EventType())
	}

	h.logger.Info("processing cashback granted event",
		zap.String("event_id", event.EventID().String()),
		zap.String("customer_id", granted.CustomerID),
		zap.String("amount", granted.Amount.String()),
		zap.String("reference_id", granted.ReferenceID),
	)

	_, err := h.service.AddCredit(ctx, AddCreditRequest{
		CustomerID:  granted.CustomerID,
		Amount:      granted.Amount,
		Type:        string(wallet.TransactionTypeCashback),
		ReferenceID: granted.ReferenceID,
		Description: granted.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to credit cashback for customer %s: %w", granted.CustomerID, err)
	}
	return nil
}

var _ shared.EventHandler = (*CashbackGrantedHandler)(nil)
