package commission

import (
	"context"
	"fmt"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceOrderFinalizedHandler calculates the technician's commission when a
// service order is finalized
type ServiceOrderFinalizedHandler struct {
	service    *Service
	earnedRepo commission.EarnedRepository
	locker     Locker
	logger     *zap.Logger
}

// NewServiceOrderFinalizedHandler creates a new handler for service order finalized events
func NewServiceOrderFinalizedHandler(
	service *Service,
	earnedRepo commission.EarnedRepository,
	locker Locker,
	logger *zap.Logger,
) *ServiceOrderFinalizedHandler {
	if locker == nil {
		locker = NoOpLocker{}
	}
	return &ServiceOrderFinalizedHandler{
		service:    service,
		earnedRepo: earnedRepo,
		locker:     locker,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ServiceOrderFinalizedHandler) EventTypes() []string {
	return []string{commission.EventTypeServiceOrderFinalized}
}

// Handle processes a ServiceOrderFinalizedEvent
func (h *ServiceOrderFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*commission.ServiceOrderFinalizedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", commission.EventTypeServiceOrderFinalized),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			commission.EventTypeServiceOrderFinalized, event.EventType())
	}
	order := finalized.ServiceOrder

	if !order.HasTechnician() {
		h.logger.Info("service order has no technician, skipping commission",
			zap.String("service_order_id", order.ID),
		)
		return nil
	}

	return h.locker.WithLock(ctx, ServiceOrderLockKey(order.ID), func(ctx context.Context) error {
		exists, err := h.earnedRepo.ExistsByServiceOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing commission: %w", err)
		}
		if exists {
			h.logger.Warn("commission already recorded for service order, skipping",
				zap.String("service_order_id", order.ID),
			)
			return nil
		}

		if _, err := h.service.CalculateForOS(ctx, order); err != nil {
			return fmt.Errorf("failed to calculate commission for service order %s: %w", order.ID, err)
		}
		return nil
	})
}

var _ shared.EventHandler = (*ServiceOrderFinalizedHandler)(nil)
