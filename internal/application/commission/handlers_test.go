package commission

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type recordingLocker struct {
	keys []string
	err  error
}

func (l *recordingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

func TestSaleCompletedHandler_EventTypes(t *testing.T) {
	deps := newTestService()
	handler := NewSaleCompletedHandler(deps.svc, deps.earned, nil, newTestLogger())

	assert.Equal(t, []string{commission.EventTypeSaleCompleted}, handler.EventTypes())
}

func TestSaleCompletedHandler_Handle(t *testing.T) {
	ctx := context.Background()
	sale := commission.Sale{
		ID:     "S1",
		UserID: "U1",
		Items:  []commission.SaleItem{{ID: "I1", TotalPrice: decimal.NewFromInt(100)}},
	}

	t.Run("calculates under the sale lock", func(t *testing.T) {
		deps := newTestService()
		locker := &recordingLocker{}
		handler := NewSaleCompletedHandler(deps.svc, deps.earned, locker, newTestLogger())
		rule := mustRule(t, commission.RuleTypeSale, strPtr("U1"), "10", "0")

		deps.earned.On("ExistsBySale", ctx, "S1").Return(false, nil)
		deps.roles.On("RoleOf", ctx, "U1").Return(nil, nil)
		deps.rules.On("FindMostSpecific", ctx, mock.Anything).Return(rule, nil)
		deps.earned.On("Create", ctx, mock.Anything).Return(nil)

		err := handler.Handle(ctx, commission.NewSaleCompletedEvent(sale))

		assert.NoError(t, err)
		assert.Equal(t, []string{"commission:sale:S1"}, locker.keys)
		deps.earned.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("skips a sale that already has commissions", func(t *testing.T) {
		deps := newTestService()
		handler := NewSaleCompletedHandler(deps.svc, deps.earned, nil, newTestLogger())

		deps.earned.On("ExistsBySale", ctx, "S1").Return(true, nil)

		err := handler.Handle(ctx, commission.NewSaleCompletedEvent(sale))

		assert.NoError(t, err)
		deps.roles.AssertNotCalled(t, "RoleOf", mock.Anything, mock.Anything)
	})

	t.Run("lock failure is returned", func(t *testing.T) {
		deps := newTestService()
		lockErr := shared.ErrConcurrencyConflict
		handler := NewSaleCompletedHandler(deps.svc, deps.earned, &recordingLocker{err: lockErr}, newTestLogger())

		err := handler.Handle(ctx, commission.NewSaleCompletedEvent(sale))

		assert.ErrorIs(t, err, lockErr)
	})

	t.Run("wrong event type", func(t *testing.T) {
		deps := newTestService()
		handler := NewSaleCompletedHandler(deps.svc, deps.earned, nil, newTestLogger())

		err := handler.Handle(ctx, commission.NewServiceOrderFinalizedEvent(commission.ServiceOrder{ID: "OS1"}))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})

	t.Run("existence check failure", func(t *testing.T) {
		deps := newTestService()
		handler := NewSaleCompletedHandler(deps.svc, deps.earned, nil, newTestLogger())
		deps.earned.On("ExistsBySale", ctx, "S1").Return(false, errors.New("db down"))

		err := handler.Handle(ctx, commission.NewSaleCompletedEvent(sale))

		assert.ErrorContains(t, err, "db down")
	})
}

func TestServiceOrderFinalizedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("no technician", func(t *testing.T) {
		deps := newTestService()
		locker := &recordingLocker{}
		handler := NewServiceOrderFinalizedHandler(deps.svc, deps.earned, locker, newTestLogger())

		err := handler.Handle(ctx, commission.NewServiceOrderFinalizedEvent(commission.ServiceOrder{ID: "OS1"}))

		assert.NoError(t, err)
		assert.Empty(t, locker.keys)
	})

	t.Run("records technician commission", func(t *testing.T) {
		deps := newTestService()
		locker := &recordingLocker{}
		handler := NewServiceOrderFinalizedHandler(deps.svc, deps.earned, locker, newTestLogger())
		budget := decimal.NewFromInt(200)
		rule := mustRule(t, commission.RuleTypeServiceOrder, nil, "10", "0")

		deps.earned.On("ExistsByServiceOrder", ctx, "OS2").Return(false, nil)
		deps.rules.On("FindMostSpecific", ctx, mock.Anything).Return(rule, nil)
		deps.earned.On("Create", ctx, mock.MatchedBy(func(e *commission.Earned) bool {
			return e.UserID == "T1" && e.CommissionAmount.Equal(decimal.NewFromInt(20))
		})).Return(nil)

		err := handler.Handle(ctx, commission.NewServiceOrderFinalizedEvent(commission.ServiceOrder{
			ID: "OS2", TechnicianID: strPtr("T1"), BudgetValue: &budget,
		}))

		assert.NoError(t, err)
		assert.Equal(t, []string{"commission:os:OS2"}, locker.keys)
		deps.earned.AssertExpectations(t)
	})
}
