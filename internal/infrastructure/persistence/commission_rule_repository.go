package persistence

import (
	"context"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specificity ordering: a concrete value beats a wildcard at each level, user
// first. Older rules win ties, then the lowest id, so the pick is stable.
const (
	saleRuleOrder = "user_id IS NULL, role_id IS NULL, category_id IS NULL, created_at, id"
	osRuleOrder   = "user_id IS NULL, created_at, id"
)

// GormCommissionRuleRepository implements commission.RuleRepository using GORM
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewGormCommissionRuleRepository creates a new GormCommissionRuleRepository
func NewGormCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

// FindMostSpecific returns the best matching rule for the context or shared.ErrNotFound.
// Sale rules match on user, role and category; service order rules on user only.
func (r *GormCommissionRuleRepository) FindMostSpecific(ctx context.Context, match commission.MatchContext) (*commission.Rule, error) {
	query := r.db.WithContext(ctx).
		Where("type = ?", string(match.Type)).
		Where("(user_id = ? OR user_id IS NULL)", match.UserID)

	order := osRuleOrder
	if match.Type == commission.RuleTypeSale {
		query = query.Scopes(wildcardOrEqual("role_id", match.RoleID), wildcardOrEqual("category_id", match.CategoryID))
		order = saleRuleOrder
	}

	var model models.CommissionRuleModel
	if err := query.Order(order).Limit(1).Find(&model).Error; err != nil {
		return nil, translateError("find commission rule", err)
	}
	if model.ID == uuid.Nil {
		return nil, shared.ErrNotFound
	}
	return model.ToDomain(), nil
}

// wildcardOrEqual matches rows whose column is NULL or equals value. A nil value
// only matches the wildcard: a user without a role never hits a role-scoped rule.
func wildcardOrEqual(column string, value *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db.Where(column + " IS NULL")
		}
		return db.Where("("+column+" = ? OR "+column+" IS NULL)", *value)
	}
}

// FindByID finds a rule by its ID
func (r *GormCommissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Rule, error) {
	var model models.CommissionRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find commission rule", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists rules, oldest first
func (r *GormCommissionRuleRepository) FindAll(ctx context.Context, filter commission.RuleFilter) ([]commission.Rule, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionRuleModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var rows []models.CommissionRuleModel
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, translateError("list commission rules", err)
	}

	rules := make([]commission.Rule, len(rows))
	for i := range rows {
		rules[i] = *rows[i].ToDomain()
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormCommissionRuleRepository) Save(ctx context.Context, rule *commission.Rule) error {
	model := models.CommissionRuleModelFromDomain(rule)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError("save commission rule", err)
	}
	return nil
}

// Delete removes a rule. Earned rows keep their rule_id for provenance.
func (r *GormCommissionRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CommissionRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete commission rule", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCommissionRuleRepository implements commission.RuleRepository
var _ commission.RuleRepository = (*GormCommissionRuleRepository)(nil)
