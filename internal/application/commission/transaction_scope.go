package commission

import (
	"context"

	"github.com/erp/salesledger/internal/domain/commission"
)

// TransactionScope runs commission work inside one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the commission repositories bound to the
// current transaction
type TransactionalRepositories interface {
	RuleRepo() commission.RuleRepository
	EarnedRepo() commission.EarnedRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests.
type NoOpTransactionScope struct {
	ruleRepo   commission.RuleRepository
	earnedRepo commission.EarnedRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(ruleRepo commission.RuleRepository, earnedRepo commission.EarnedRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		ruleRepo:   ruleRepo,
		earnedRepo: earnedRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RuleRepo returns the rule repository
func (s *NoOpTransactionScope) RuleRepo() commission.RuleRepository {
	return s.ruleRepo
}

// EarnedRepo returns the earned commission repository
func (s *NoOpTransactionScope) EarnedRepo() commission.EarnedRepository {
	return s.earnedRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
