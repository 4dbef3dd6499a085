package commission

import (
	"context"
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines persistence for commission rules
type RuleRepository interface {
	// FindMostSpecific returns the single applicable rule with the highest
	// specificity for the match context, or shared.ErrNotFound.
	FindMostSpecific(ctx context.Context, match MatchContext) (*Rule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	FindAll(ctx context.Context, filter RuleFilter) ([]Rule, error)
	Save(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EarnedRepository defines persistence for earned commissions
type EarnedRepository interface {
	Create(ctx context.Context, earned *Earned) error
	// SumByUser aggregates earned rows with created_at in [start, end]
	SumByUser(ctx context.Context, userID string, start, end time.Time) (*Performance, error)
	FindByUser(ctx context.Context, userID string, filter shared.Filter) ([]Earned, int64, error)
	ExistsBySale(ctx context.Context, saleID string) (bool, error)
	ExistsByServiceOrder(ctx context.Context, serviceOrderID string) (bool, error)
}

// RoleResolver looks up a user's role. A nil role with a nil error means the
// user has no role and only role-wildcard rules apply.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (*int64, error)
}
