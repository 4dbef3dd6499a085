package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/cache"
	"github.com/erp/salesledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestIdempotentHandler_ProcessesOnce(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("sale.completed")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := newTestEvent("sale.completed")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 1)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsDuplicate)
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("wallet.cashback_granted")
	inner.err = errors.New("database unavailable")
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := newTestEvent("wallet.cashback_granted")

	require.Error(t, handler.Handle(context.Background(), event))

	inner.err = nil
	require.NoError(t, handler.Handle(context.Background(), event), "retry after failure is processed")

	assert.Len(t, inner.getHandled(), 2)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsFailed)
	assert.Equal(t, int64(1), stats.EventsProcessed)
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := new(MockEventHandler)
	event := newTestEvent("sale.completed")

	store.On("MarkProcessed", mock.Anything, "sale.completed:"+event.EventID().String(), 24*time.Hour).
		Return(false, errors.New("redis down"))
	inner.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, int64(1), handler.Metrics().Stats().StoreErrors)
	store.AssertExpectations(t)
	inner.AssertExpectations(t)
}

func TestIdempotentHandler_ReleaseErrorDoesNotMaskHandlerError(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := new(MockEventHandler)
	event := newTestEvent("sale.completed")
	handlerErr := errors.New("rule lookup failed")

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	store.On("Release", mock.Anything, "sale.completed:"+event.EventID().String()).Return(errors.New("redis down"))
	inner.On("Handle", mock.Anything, event).Return(handlerErr)

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	err := handler.Handle(context.Background(), event)

	assert.ErrorIs(t, err, handlerErr)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := newTestHandler("sale.completed")
	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)
	event := newTestEvent("sale.completed")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_SharedMetricsAndWrap(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	metrics := &IdempotencyMetrics{}

	sale := newTestHandler("sale.completed")
	order := newTestHandler("service_order.finalized")
	wrapped := WrapHandlersWithIdempotency([]shared.EventHandler{sale, order}, store, zap.NewNop(),
		WithIdempotencyMetrics(metrics),
	)
	require.Len(t, wrapped, 2)
	assert.Equal(t, []string{"sale.completed"}, wrapped[0].EventTypes())
	assert.Same(t, sale, wrapped[0].(*IdempotentHandler).Unwrap())

	require.NoError(t, wrapped[0].Handle(context.Background(), newTestEvent("sale.completed")))
	require.NoError(t, wrapped[1].Handle(context.Background(), newTestEvent("service_order.finalized")))

	assert.Equal(t, int64(2), metrics.Stats().EventsProcessed)
}

func TestIdempotencyConfigFrom(t *testing.T) {
	cfg := IdempotencyConfigFrom(config.EventConfig{IdempotencyEnabled: true, IdempotencyTTL: time.Hour})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Hour, cfg.TTL)

	cfg = IdempotencyConfigFrom(config.EventConfig{IdempotencyEnabled: false})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.TTL)
}

func TestIdempotentHandler_WithBus(t *testing.T) {
	bus := startedBus(t)
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := newTestHandler("sale.completed")
	bus.Subscribe(NewIdempotentHandler(inner, store, zap.NewNop()))

	event := newTestEvent("sale.completed")
	require.NoError(t, bus.Publish(context.Background(), event, event))
	assert.Len(t, inner.getHandled(), 1)
}
