package models

import (
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for mutable entities.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// CoreModels returns the models whose tables this service owns, in
// dependency order. Tests pass them to AutoMigrate.
func CoreModels() []any {
	return []any{
		&CommissionRuleModel{},
		&CommissionEarnedModel{},
		&WalletAccountModel{},
		&WalletTransactionModel{},
	}
}

// ExternalModels returns the read-only models of tables owned elsewhere
func ExternalModels() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&SaleModel{},
		&SaleItemModel{},
	}
}
