package event

import (
	"testing"
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisteredSerializer() *EventSerializer {
	s := NewEventSerializer()
	RegisterAllEvents(s)
	return s
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	s := newRegisteredSerializer()

	assert.Equal(t, []string{
		commission.EventTypeSaleCompleted,
		commission.EventTypeServiceOrderFinalized,
		wallet.EventTypeCashbackGranted,
	}, s.RegisteredTypes())
	assert.True(t, s.IsRegistered(wallet.EventTypeCashbackGranted))
	assert.False(t, s.IsRegistered("sale.cancelled"))
}

func TestEventSerializer_DecodeSaleCompleted(t *testing.T) {
	s := newRegisteredSerializer()
	id := uuid.New()

	event, err := s.DecodeBytes([]byte(`{
		"id": "` + id.String() + `",
		"type": "sale.completed",
		"occurred_at": "2026-03-01T10:00:00Z",
		"payload": {
			"id": "S1",
			"user_id": "U1",
			"items": [{"id": "I1", "product_id": "P1", "category_id": 7, "total_price": "100.00"}]
		}
	}`))
	require.NoError(t, err)

	completed, ok := event.(*commission.SaleCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, id, completed.EventID())
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), completed.OccurredAt().UTC())
	assert.Equal(t, "S1", completed.AggregateID())
	assert.Equal(t, "U1", completed.Sale.UserID)
	require.Len(t, completed.Sale.Items, 1)
	assert.Equal(t, int64(7), *completed.Sale.Items[0].CategoryID)
	assert.True(t, completed.Sale.Items[0].TotalPrice.Equal(decimal.NewFromInt(100)))
}

func TestEventSerializer_DecodeGeneratesMissingIdentity(t *testing.T) {
	s := newRegisteredSerializer()

	event, err := s.Decode(Envelope{
		Type:    commission.EventTypeServiceOrderFinalized,
		Payload: []byte(`{"id": "OS1", "technician_id": "T1", "budget_value": "250.00"}`),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.False(t, event.OccurredAt().IsZero())
	finalized := event.(*commission.ServiceOrderFinalizedEvent)
	assert.True(t, finalized.ServiceOrder.HasTechnician())
}

func TestEventSerializer_DecodeCashback(t *testing.T) {
	s := newRegisteredSerializer()

	event, err := s.Decode(Envelope{
		Type:    wallet.EventTypeCashbackGranted,
		Payload: []byte(`{"customer_id": "C1", "amount": "12.50", "reference_id": "S9", "description": "promo"}`),
	})
	require.NoError(t, err)

	granted := event.(*wallet.CashbackGrantedEvent)
	assert.Equal(t, "C1", granted.CustomerID)
	assert.True(t, granted.Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "S9", granted.ReferenceID)
	assert.Equal(t, "promo", granted.Description)
}

func TestEventSerializer_DecodeInvalid(t *testing.T) {
	s := newRegisteredSerializer()

	tests := []struct {
		name string
		env  Envelope
	}{
		{"unknown type", Envelope{Type: "sale.cancelled", Payload: []byte(`{}`)}},
		{"empty payload", Envelope{Type: commission.EventTypeSaleCompleted}},
		{"malformed payload", Envelope{Type: commission.EventTypeSaleCompleted, Payload: []byte(`[1,2]`)}},
		{"sale without seller", Envelope{Type: commission.EventTypeSaleCompleted, Payload: []byte(`{"id": "S1"}`)}},
		{"order without id", Envelope{Type: commission.EventTypeServiceOrderFinalized, Payload: []byte(`{}`)}},
		{"cashback without customer", Envelope{Type: wallet.EventTypeCashbackGranted, Payload: []byte(`{"amount": "1"}`)}},
		{"cashback non-positive", Envelope{Type: wallet.EventTypeCashbackGranted, Payload: []byte(`{"customer_id": "C1", "amount": "0"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Decode(tt.env)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}

	_, err := s.DecodeBytes([]byte(`not json`))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEventSerializer_Serialize(t *testing.T) {
	s := newRegisteredSerializer()
	event := wallet.NewCashbackGrantedEvent("C1", decimal.NewFromInt(5), "S1")

	data, err := s.Serialize(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"wallet.cashback_granted"`)
	assert.Contains(t, string(data), `"customer_id":"C1"`)
}
