package models

import (
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRuleModel is the persistence model for commission rules
type CommissionRuleModel struct {
	BaseModel
	Type       string          `gorm:"type:varchar(10);not null;index:idx_commission_rules_lookup,priority:1"`
	UserID     *string         `gorm:"type:varchar(64);index:idx_commission_rules_lookup,priority:2"`
	RoleID     *int64          `gorm:"index:idx_commission_rules_lookup,priority:3"`
	CategoryID *int64          `gorm:"index:idx_commission_rules_lookup,priority:4"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FixedValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToDomain converts the persistence model to a domain rule
func (m *CommissionRuleModel) ToDomain() *commission.Rule {
	return &commission.Rule{
		BaseEntity: m.BaseModel.ToDomain(),
		Type:       commission.RuleType(m.Type),
		UserID:     m.UserID,
		RoleID:     m.RoleID,
		CategoryID: m.CategoryID,
		Percentage: m.Percentage,
		FixedValue: m.FixedValue,
	}
}

// CommissionRuleModelFromDomain converts a domain rule to the persistence model
func CommissionRuleModelFromDomain(r *commission.Rule) *CommissionRuleModel {
	m := &CommissionRuleModel{
		Type:       string(r.Type),
		UserID:     r.UserID,
		RoleID:     r.RoleID,
		CategoryID: r.CategoryID,
		Percentage: r.Percentage,
		FixedValue: r.FixedValue,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// CommissionEarnedModel is the persistence model for earned commissions.
// The row is append-only, so it carries no updated_at.
type CommissionEarnedModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID           string          `gorm:"type:varchar(64);not null;index:idx_commission_earned_user,priority:1"`
	RuleID           uuid.UUID       `gorm:"type:uuid;not null"`
	SaleID           *string         `gorm:"type:varchar(64);index"`
	SaleItemID       *string         `gorm:"type:varchar(64);uniqueIndex"`
	ServiceOrderID   *string         `gorm:"type:varchar(64);uniqueIndex"`
	BaseAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt        time.Time       `gorm:"not null;index:idx_commission_earned_user,priority:2"`
}

// TableName returns the table name for GORM
func (CommissionEarnedModel) TableName() string {
	return "commission_earned"
}

// ToDomain converts the persistence model to a domain record
func (m *CommissionEarnedModel) ToDomain() *commission.Earned {
	e := &commission.Earned{
		UserID:           m.UserID,
		RuleID:           m.RuleID,
		SaleID:           m.SaleID,
		SaleItemID:       m.SaleItemID,
		ServiceOrderID:   m.ServiceOrderID,
		BaseAmount:       m.BaseAmount,
		CommissionAmount: m.CommissionAmount,
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	e.UpdatedAt = m.CreatedAt
	return e
}

// CommissionEarnedModelFromDomain converts a domain record to the persistence model
func CommissionEarnedModelFromDomain(e *commission.Earned) *CommissionEarnedModel {
	return &CommissionEarnedModel{
		ID:               e.ID,
		UserID:           e.UserID,
		RuleID:           e.RuleID,
		SaleID:           e.SaleID,
		SaleItemID:       e.SaleItemID,
		ServiceOrderID:   e.ServiceOrderID,
		BaseAmount:       e.BaseAmount,
		CommissionAmount: e.CommissionAmount,
		CreatedAt:        e.CreatedAt,
	}
}
