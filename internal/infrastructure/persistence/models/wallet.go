package models

import (
	"time"

	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletAccountModel is the persistence model for a customer's wallet.
// customer_id is the primary key: one account per customer.
type WalletAccountModel struct {
	CustomerID string          `gorm:"type:varchar(64);primary_key"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WalletAccountModel) TableName() string {
	return "wallet_accounts"
}

// ToDomain converts the persistence model to a domain account
func (m *WalletAccountModel) ToDomain() *wallet.Account {
	return &wallet.Account{
		CustomerID: m.CustomerID,
		Balance:    m.Balance,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// WalletAccountModelFromDomain converts a domain account to the persistence model
func WalletAccountModelFromDomain(a *wallet.Account) *WalletAccountModel {
	return &WalletAccountModel{
		CustomerID: a.CustomerID,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// WalletTransactionModel is the persistence model for wallet ledger rows
type WalletTransactionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	CustomerID   string          `gorm:"type:varchar(64);not null;index:idx_wallet_tx_customer,priority:1"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Type         string          `gorm:"type:varchar(20);not null"`
	ReferenceID  *string         `gorm:"type:varchar(64);index"`
	Description  *string         `gorm:"type:varchar(255)"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time       `gorm:"not null;index:idx_wallet_tx_customer,priority:2"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain transaction
func (m *WalletTransactionModel) ToDomain() *wallet.Transaction {
	t := &wallet.Transaction{
		CustomerID:   m.CustomerID,
		Amount:       m.Amount,
		Type:         wallet.TransactionType(m.Type),
		ReferenceID:  m.ReferenceID,
		Description:  m.Description,
		BalanceAfter: m.BalanceAfter,
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.CreatedAt
	return t
}

// WalletTransactionModelFromDomain converts a domain transaction to the persistence model
func WalletTransactionModelFromDomain(t *wallet.Transaction) *WalletTransactionModel {
	return &WalletTransactionModel{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		Amount:       t.Amount,
		Type:         string(t.Type),
		ReferenceID:  t.ReferenceID,
		Description:  t.Description,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}
