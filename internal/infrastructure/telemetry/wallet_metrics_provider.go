package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormWalletMetricsProvider reads wallet aggregates straight from wallet_accounts
type GormWalletMetricsProvider struct {
	db *gorm.DB
}

// NewGormWalletMetricsProvider creates a GormWalletMetricsProvider
func NewGormWalletMetricsProvider(db *gorm.DB) *GormWalletMetricsProvider {
	return &GormWalletMetricsProvider{db: db}
}

// OutstandingBalance returns the sum of all balances
func (p *GormWalletMetricsProvider) OutstandingBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := p.db.WithContext(ctx).
		Table("wallet_accounts").
		Select("COALESCE(SUM(balance), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// AccountCount returns the number of accounts
func (p *GormWalletMetricsProvider) AccountCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Table("wallet_accounts").Count(&count).Error
	return count, err
}

var _ WalletMetricsProvider = (*GormWalletMetricsProvider)(nil)
