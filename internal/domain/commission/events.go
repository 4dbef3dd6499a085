package commission

import "github.com/erp/salesledger/internal/domain/shared"

// Aggregate and event type names
const (
	AggregateTypeSale         = "Sale"
	AggregateTypeServiceOrder = "ServiceOrder"

	EventTypeSaleCompleted         = "sale.completed"
	EventTypeServiceOrderFinalized = "service_order.finalized"
)

// SaleCompletedEvent is published when a sale is closed
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	Sale Sale `json:"sale"`
}

// NewSaleCompletedEvent creates a SaleCompletedEvent
func NewSaleCompletedEvent(sale Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID),
		Sale:            sale,
	}
}

// ServiceOrderFinalizedEvent is published when a service order is finalized
type ServiceOrderFinalizedEvent struct {
	shared.BaseDomainEvent
	ServiceOrder ServiceOrder `json:"service_order"`
}

// NewServiceOrderFinalizedEvent creates a ServiceOrderFinalizedEvent
func NewServiceOrderFinalizedEvent(order ServiceOrder) *ServiceOrderFinalizedEvent {
	return &ServiceOrderFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderFinalized, AggregateTypeServiceOrder, order.ID),
		ServiceOrder:    order,
	}
}
