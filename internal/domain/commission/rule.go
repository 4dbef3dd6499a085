package commission

import (
	"sort"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RuleType distinguishes rules applied to sales from rules applied to service orders
type RuleType string

const (
	RuleTypeSale         RuleType = "sale"
	RuleTypeServiceOrder RuleType = "os"
)

// IsValid returns true if the rule type is known
func (t RuleType) IsValid() bool {
	return t == RuleTypeSale || t == RuleTypeServiceOrder
}

var hundred = decimal.NewFromInt(100)

// Specificity weights. Sorting by the summed weight reproduces
// "user first, then role, then category, nulls last".
const (
	weightUser     = 4
	weightRole     = 2
	weightCategory = 1
)

// Rule is a commission configuration scoped by user, role and category.
// A nil scope field matches anything.
type Rule struct {
	shared.BaseEntity
	Type       RuleType
	UserID     *string
	RoleID     *int64
	CategoryID *int64
	Percentage decimal.Decimal
	FixedValue decimal.Decimal
}

// NewRule creates a validated commission rule
func NewRule(ruleType RuleType, userID *string, roleID, categoryID *int64, percentage, fixedValue decimal.Decimal) (*Rule, error) {
	if !ruleType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rule type must be 'sale' or 'os'")
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage must be between 0 and 100")
	}
	if fixedValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fixed value cannot be negative")
	}
	if !shared.FitsMoneyScale(percentage) || !shared.FitsMoneyScale(fixedValue) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage and fixed value cannot have more than 2 decimal places")
	}
	if userID != nil && *userID == "" {
		userID = nil
	}
	if ruleType == RuleTypeServiceOrder && (roleID != nil || categoryID != nil) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Service order rules are scoped by user only")
	}

	return &Rule{
		BaseEntity: shared.NewBaseEntity(),
		Type:       ruleType,
		UserID:     userID,
		RoleID:     roleID,
		CategoryID: categoryID,
		Percentage: percentage,
		FixedValue: fixedValue,
	}, nil
}

// Compute returns base * percentage / 100 + fixed value, rounded to cents
func (r *Rule) Compute(base decimal.Decimal) decimal.Decimal {
	return base.Mul(r.Percentage).Div(hundred).Add(r.FixedValue).Round(2)
}

// MatchContext is what a rule is matched against
type MatchContext struct {
	Type       RuleType
	UserID     string
	RoleID     *int64
	CategoryID *int64
}

// Specificity returns the rule's specificity score for ctx and whether the rule
// applies at all. A scoped field only applies when it equals the context value.
func (r *Rule) Specificity(ctx MatchContext) (int, bool) {
	if r.Type != ctx.Type {
		return 0, false
	}
	score := 0
	if r.UserID != nil {
		if *r.UserID != ctx.UserID {
			return 0, false
		}
		score += weightUser
	}
	if r.RoleID != nil {
		if ctx.RoleID == nil || *r.RoleID != *ctx.RoleID {
			return 0, false
		}
		score += weightRole
	}
	if r.CategoryID != nil {
		if ctx.CategoryID == nil || *r.CategoryID != *ctx.CategoryID {
			return 0, false
		}
		score += weightCategory
	}
	return score, true
}

// SelectMostSpecific picks the applicable rule with the highest specificity.
// Ties go to the oldest rule, then the lowest ID. Returns nil when nothing applies.
func SelectMostSpecific(rules []Rule, ctx MatchContext) *Rule {
	type candidate struct {
		rule  *Rule
		score int
	}
	candidates := make([]candidate, 0, len(rules))
	for i := range rules {
		if score, ok := rules[i].Specificity(ctx); ok {
			candidates = append(candidates, candidate{rule: &rules[i], score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.rule.CreatedAt.Equal(b.rule.CreatedAt) {
			return a.rule.CreatedAt.Before(b.rule.CreatedAt)
		}
		return a.rule.ID.String() < b.rule.ID.String()
	})
	return candidates[0].rule
}

// RuleFilter narrows rule listings
type RuleFilter struct {
	Type   RuleType
	UserID string
}
