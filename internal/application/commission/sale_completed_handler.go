package commission

import (
	"context"
	"fmt"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"go.uber.org/zap"
)

// SaleCompletedHandler calculates commissions when a sale is completed
type SaleCompletedHandler struct {
	service    *Service
	earnedRepo commission.EarnedRepository
	locker     Locker
	logger     *zap.Logger
}

// NewSaleCompletedHandler creates a new handler for sale completed events
func NewSaleCompletedHandler(
	service *Service,
	earnedRepo commission.EarnedRepository,
	locker Locker,
	logger *zap.Logger,
) *SaleCompletedHandler {
	if locker == nil {
		locker = NoOpLocker{}
	}
	return &SaleCompletedHandler{
		service:    service,
		earnedRepo: earnedRepo,
		locker:     locker,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleCompletedHandler) EventTypes() []string {
	return []string{commission.EventTypeSaleCompleted}
}

// Handle processes a SaleCompletedEvent
func (h *SaleCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*commission.SaleCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", commission.EventTypeSaleCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			commission.EventTypeSaleCompleted, event.EventType())
	}
	sale := completed.Sale

	h.logger.Info("processing sale completed event",
		zap.String("event_id", event.EventID().String()),
		zap.String("sale_id", sale.ID),
		zap.String("user_id", sale.UserID),
		zap.Int("items", len(sale.Items)),
	)

	return h.locker.WithLock(ctx, SaleLockKey(sale.ID), func(ctx context.Context) error {
		exists, err := h.earnedRepo.ExistsBySale(ctx, sale.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing commissions: %w", err)
		}
		if exists {
			h.logger.Warn("commissions already recorded for sale, skipping",
				zap.String("sale_id", sale.ID),
			)
			return nil
		}

		if _, err := h.service.CalculateForSale(ctx, sale); err != nil {
			return fmt.Errorf("failed to calculate commissions for sale %s: %w", sale.ID, err)
		}
		return nil
	})
}

var _ shared.EventHandler = (*SaleCompletedHandler)(nil)
