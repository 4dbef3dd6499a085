package persistence

import (
	"context"
	"time"

	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletAccountRepository implements wallet.AccountRepository using GORM.
// Mutating methods are meant to run on a transaction handle.
type GormWalletAccountRepository struct {
	db *gorm.DB
}

// NewGormWalletAccountRepository creates a new GormWalletAccountRepository
func NewGormWalletAccountRepository(db *gorm.DB) *GormWalletAccountRepository {
	return &GormWalletAccountRepository{db: db}
}

// FindByCustomerID reads an account without locking it
func (r *GormWalletAccountRepository) FindByCustomerID(ctx context.Context, customerID string) (*wallet.Account, error) {
	var model models.WalletAccountModel
	if err := r.db.WithContext(ctx).First(&model, "customer_id = ?", customerID).Error; err != nil {
		return nil, translateError("find wallet account", err)
	}
	return model.ToDomain(), nil
}

// FindByCustomerIDForUpdate reads an account with SELECT ... FOR UPDATE.
// Concurrent debits for the same customer queue on the row lock.
func (r *GormWalletAccountRepository) FindByCustomerIDForUpdate(ctx context.Context, customerID string) (*wallet.Account, error) {
	var model models.WalletAccountModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "customer_id = ?", customerID).Error; err != nil {
		return nil, translateError("lock wallet account", err)
	}
	return model.ToDomain(), nil
}

// UpsertCredit adds amount to the balance in a single statement:
// INSERT ... ON CONFLICT (customer_id) DO UPDATE SET balance = balance + amount.
// The row stays locked by the surrounding transaction, so the read-back
// returns the balance this credit produced.
func (r *GormWalletAccountRepository) UpsertCredit(ctx context.Context, customerID string, amount decimal.Decimal) (*wallet.Account, error) {
	now := time.Now()
	model := &models.WalletAccountModel{
		CustomerID: customerID,
		Balance:    amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("wallet_accounts.balance + ?", amount),
				"updated_at": now,
			}),
		}).
		Create(model).Error
	if err != nil {
		return nil, translateError("upsert wallet credit", err)
	}
	return r.FindByCustomerID(ctx, customerID)
}

// Save writes the balance of an account, creating the row if it is missing
func (r *GormWalletAccountRepository) Save(ctx context.Context, account *wallet.Account) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletAccountModel{}).
		Where("customer_id = ?", account.CustomerID).
		Updates(map[string]any{
			"balance":    account.Balance,
			"updated_at": account.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("save wallet account", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(models.WalletAccountModelFromDomain(account)).Error; err != nil {
		return translateError("create wallet account", err)
	}
	return nil
}

// Ensure GormWalletAccountRepository implements wallet.AccountRepository
var _ wallet.AccountRepository = (*GormWalletAccountRepository)(nil)
