package persistence

import (
	"context"

	appcommission "github.com/erp/salesledger/internal/application/commission"
	appwallet "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/wallet"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application transaction scopes using
// GORM transactions. If fn returns an error the transaction is rolled back,
// otherwise it commits. One value serves both the commission and wallet
// services; each sees only its own repositories.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// CommissionScope returns the scope used by the commission service
func (s *GormTransactionScope) CommissionScope() appcommission.TransactionScope {
	return commissionScope{db: s.db}
}

// WalletScope returns the scope used by the wallet service
func (s *GormTransactionScope) WalletScope() appwallet.TransactionScope {
	return walletScope{db: s.db}
}

// txRepositories binds every repository to the same transaction handle
type txRepositories struct {
	tx *gorm.DB
}

func (r txRepositories) RuleRepo() commission.RuleRepository {
	return NewGormCommissionRuleRepository(r.tx)
}

func (r txRepositories) EarnedRepo() commission.EarnedRepository {
	return NewGormCommissionEarnedRepository(r.tx)
}

func (r txRepositories) AccountRepo() wallet.AccountRepository {
	return NewGormWalletAccountRepository(r.tx)
}

func (r txRepositories) TransactionRepo() wallet.TransactionRepository {
	return NewGormWalletTransactionRepository(r.tx)
}

type commissionScope struct {
	db *gorm.DB
}

func (s commissionScope) Execute(ctx context.Context, fn func(repos appcommission.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepositories{tx: tx})
	})
}

type walletScope struct {
	db *gorm.DB
}

func (s walletScope) Execute(ctx context.Context, fn func(repos appwallet.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepositories{tx: tx})
	})
}

var (
	_ appcommission.TransactionScope          = commissionScope{}
	_ appwallet.TransactionScope              = walletScope{}
	_ appcommission.TransactionalRepositories = txRepositories{}
	_ appwallet.TransactionalRepositories     = txRepositories{}
)
