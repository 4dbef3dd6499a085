package persistence

import (
	"context"

	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormWalletTransactionRepository implements wallet.TransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create appends a ledger row
func (r *GormWalletTransactionRepository) Create(ctx context.Context, tx *wallet.Transaction) error {
	if err := r.db.WithContext(ctx).Create(models.WalletTransactionModelFromDomain(tx)).Error; err != nil {
		return translateError("insert wallet transaction", err)
	}
	return nil
}

// FindByCustomerID returns one page of a customer's ledger and the total count
func (r *GormWalletTransactionRepository) FindByCustomerID(ctx context.Context, customerID string, filter wallet.TransactionFilter) ([]wallet.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).Where("customer_id = ?", customerID)
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError("count wallet transactions", err)
	}

	var rows []models.WalletTransactionModel
	if err := query.Order(orderByCreated(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError("list wallet transactions", err)
	}

	txs := make([]wallet.Transaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, total, nil
}

type totalsRow struct {
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
}

// SumByCustomerID returns the credit total and the absolute debit total
func (r *GormWalletTransactionRepository) SumByCustomerID(ctx context.Context, customerID string) (*wallet.Totals, error) {
	var row totalsRow
	err := r.db.WithContext(ctx).
		Model(&models.WalletTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS total_credit, "+
			"COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) AS total_debit").
		Where("customer_id = ?", customerID).
		Scan(&row).Error
	if err != nil {
		return nil, translateError("sum wallet transactions", err)
	}
	return &wallet.Totals{TotalCredit: row.TotalCredit, TotalDebit: row.TotalDebit}, nil
}

// Ensure GormWalletTransactionRepository implements wallet.TransactionRepository
var _ wallet.TransactionRepository = (*GormWalletTransactionRepository)(nil)
