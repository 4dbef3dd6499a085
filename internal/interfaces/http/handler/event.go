package handler

import (
	"errors"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/event"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventHandler ingests events published by other services
type EventHandler struct {
	BaseHandler
	serializer *event.EventSerializer
	publisher  shared.EventPublisher
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(serializer *event.EventSerializer, publisher shared.EventPublisher) *EventHandler {
	return &EventHandler{serializer: serializer, publisher: publisher}
}

// Ingest godoc
// @ID           ingestEvent
// @Summary      Publish an external event on the event bus
// @Description  Supported types are sale.completed, service_order.finalized and wallet.cashback_granted. Redeliveries with the same id are handled once.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body dto.EventRequest true "Event envelope"
// @Success      202 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /events [post]
func (h *EventHandler) Ingest(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	env, err := envelopeFromRequest(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	evt, err := h.serializer.Decode(env)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), evt); err != nil {
		if errors.Is(err, event.ErrBusStopped) {
			h.ErrorWithCode(c, dto.ErrCodeServiceUnavailable, "Event bus is not running")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, dto.EventAccepted{
		EventID:   evt.EventID().String(),
		EventType: evt.EventType(),
	})
}

func envelopeFromRequest(req dto.EventRequest) (event.Envelope, error) {
	env := event.Envelope{Type: req.Type, Payload: req.Payload}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return event.Envelope{}, shared.NewDomainError("INVALID_INPUT", "Event id must be a UUID")
		}
		env.ID = id
	}
	if req.OccurredAt != nil {
		env.OccurredAt = *req.OccurredAt
	}
	return env, nil
}
