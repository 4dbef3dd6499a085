package integration

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appcommission "github.com/erp/salesledger/internal/application/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/erp/salesledger/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommission_RulePrecedenceOnPostgres(t *testing.T) {
	s := newServices(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	require.NoError(t, s.db.DB.Create(&models.UserModel{ID: "U1", RoleID: testutil.Ptr(int64(7))}).Error)
	for _, req := range []appcommission.CreateRuleRequest{
		{Type: "sale", CategoryID: testutil.Ptr(int64(3)), Percentage: decimal.NewFromInt(2)},
		{Type: "sale", RoleID: testutil.Ptr(int64(7)), Percentage: decimal.NewFromInt(5)},
		{Type: "sale", UserID: testutil.Ptr("U1"), Percentage: decimal.NewFromInt(10), FixedValue: decimal.RequireFromString("1.5")},
	} {
		_, err := s.commission.CreateRule(ctx, req)
		require.NoError(t, err)
	}

	earned, err := s.commission.CalculateForSale(ctx, testutil.Sale("S1", "U1",
		testutil.Item("I1", "P1", "200", testutil.Ptr(int64(3))),
		testutil.Item("I2", "P2", "33.33", nil),
	))
	require.NoError(t, err)
	require.Len(t, earned, 2)
	// 10% + 1.50 from the user rule beats role and category
	assert.Equal(t, "21.5", earned[0].CommissionAmount.String())
	assert.Equal(t, "4.83", earned[1].CommissionAmount.String())

	perf, err := s.commission.GetSalespersonPerformance(ctx, "U1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "233.33", perf.TotalSales.String())
	assert.Equal(t, "26.33", perf.TotalCommission.String())
	assert.Equal(t, int64(2), perf.Entries)
}

func TestCommission_ConcurrentSaleCalculationsRecordOnce(t *testing.T) {
	s := newServices(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	_, err := s.commission.CreateRule(ctx, appcommission.CreateRuleRequest{
		Type: "sale", UserID: testutil.Ptr("U1"), Percentage: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	sale := testutil.Sale("S1", "U1", testutil.Item("I1", "P1", "100", nil), testutil.Item("I2", "P1", "50", nil))

	var ok, duplicate atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.commission.CalculateForSale(ctx, sale)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, shared.ErrAlreadyExists):
				duplicate.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load(), "the unique sale item index admits one writer")
	assert.Equal(t, int32(7), duplicate.Load())

	exists, err := s.earnedRepo.ExistsBySale(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, exists)

	var rows int64
	require.NoError(t, s.db.DB.Model(&models.CommissionEarnedModel{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestCommission_ServiceOrderOncePerOrder(t *testing.T) {
	s := newServices(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	_, err := s.commission.CreateRule(ctx, appcommission.CreateRuleRequest{
		Type: "os", UserID: testutil.Ptr("T1"), Percentage: decimal.NewFromInt(10), FixedValue: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	order := testutil.ServiceOrder("OS1", "T1", "150")
	earned, err := s.commission.CalculateForOS(ctx, order)
	require.NoError(t, err)
	require.NotNil(t, earned)
	assert.Equal(t, "35", earned.CommissionAmount.String())

	_, err = s.commission.CalculateForOS(ctx, order)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
