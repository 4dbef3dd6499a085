package persistence

import (
	"context"
	"errors"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleResolver reads a user's role from the shared users table
type GormRoleResolver struct {
	db *gorm.DB
}

// NewGormRoleResolver creates a new GormRoleResolver
func NewGormRoleResolver(db *gorm.DB) *GormRoleResolver {
	return &GormRoleResolver{db: db}
}

// RoleOf returns the user's role id, or nil when the user has none.
// An unknown user yields shared.ErrNotFound.
func (r *GormRoleResolver) RoleOf(ctx context.Context, userID string) (*int64, error) {
	var user models.UserModel
	err := r.db.WithContext(ctx).Select("id", "role_id").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, translateError("resolve user role", err)
	}
	return user.RoleID, nil
}

// Ensure GormRoleResolver implements commission.RoleResolver
var _ commission.RoleResolver = (*GormRoleResolver)(nil)
