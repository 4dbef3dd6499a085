package wallet

import (
	"context"

	"github.com/erp/salesledger/internal/domain/wallet"
)

// TransactionScope runs wallet work inside one database transaction. The
// account update and its ledger row commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the wallet repositories bound to the
// current transaction
type TransactionalRepositories interface {
	AccountRepo() wallet.AccountRepository
	TransactionRepo() wallet.TransactionRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests.
type NoOpTransactionScope struct {
	accountRepo     wallet.AccountRepository
	transactionRepo wallet.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(accountRepo wallet.AccountRepository, transactionRepo wallet.TransactionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AccountRepo returns the account repository
func (s *NoOpTransactionScope) AccountRepo() wallet.AccountRepository {
	return s.accountRepo
}

// TransactionRepo returns the transaction repository
func (s *NoOpTransactionScope) TransactionRepo() wallet.TransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
