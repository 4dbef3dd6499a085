package commission

import (
	"context"
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRuleRepository is a mock implementation of commission.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindMostSpecific(ctx context.Context, match commission.MatchContext) (*commission.Rule, error) {
	args := m.Called(ctx, match)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Rule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindAll(ctx context.Context, filter commission.RuleFilter) ([]commission.Rule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.Rule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *commission.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEarnedRepository is a mock implementation of commission.EarnedRepository
type MockEarnedRepository struct {
	mock.Mock
}

func (m *MockEarnedRepository) Create(ctx context.Context, earned *commission.Earned) error {
	args := m.Called(ctx, earned)
	return args.Error(0)
}

func (m *MockEarnedRepository) SumByUser(ctx context.Context, userID string, start, end time.Time) (*commission.Performance, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Performance), args.Error(1)
}

func (m *MockEarnedRepository) FindByUser(ctx context.Context, userID string, filter shared.Filter) ([]commission.Earned, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]commission.Earned), args.Get(1).(int64), args.Error(2)
}

func (m *MockEarnedRepository) ExistsBySale(ctx context.Context, saleID string) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEarnedRepository) ExistsByServiceOrder(ctx context.Context, serviceOrderID string) (bool, error) {
	args := m.Called(ctx, serviceOrderID)
	return args.Bool(0), args.Error(1)
}

// MockRoleResolver is a mock implementation of commission.RoleResolver
type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) RoleOf(ctx context.Context, userID string) (*int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

var (
	_ commission.RuleRepository   = (*MockRuleRepository)(nil)
	_ commission.EarnedRepository = (*MockEarnedRepository)(nil)
	_ commission.RoleResolver     = (*MockRoleResolver)(nil)
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type testDeps struct {
	rules  *MockRuleRepository
	earned *MockEarnedRepository
	roles  *MockRoleResolver
	svc    *Service
}

func newTestService() *testDeps {
	rules := new(MockRuleRepository)
	earned := new(MockEarnedRepository)
	roles := new(MockRoleResolver)
	svc := NewService(rules, earned, roles, NewNoOpTransactionScope(rules, earned), newTestLogger())
	return &testDeps{rules: rules, earned: earned, roles: roles, svc: svc}
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
