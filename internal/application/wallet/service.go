package wallet

import (
	"context"
	"errors"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/domain/wallet"
	"github.com/erp/salesledger/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service is the customer wallet ledger. Every balance change and its ledger
// row are written in one transaction; debits hold a row lock on the account.
type Service struct {
	accountRepo     wallet.AccountRepository
	transactionRepo wallet.TransactionRepository
	txScope         TransactionScope
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewService creates a new wallet Service
func NewService(
	accountRepo wallet.AccountRepository,
	transactionRepo wallet.TransactionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// AddCredit increases the balance, creating the account if needed, and
// appends a positive ledger row.
func (s *Service) AddCredit(ctx context.Context, req AddCreditRequest) (_ *TransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "add_credit", attribute.String("customer_id", req.CustomerID))
	defer func() { telemetry.EndSpan(span, err) }()

	if req.CustomerID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	if err := wallet.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	txType, err := wallet.ParseCreditType(req.Type)
	if err != nil {
		return nil, err
	}

	var created *wallet.Transaction
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().UpsertCredit(ctx, req.CustomerID, req.Amount)
		if err != nil {
			return err
		}

		tx, err := wallet.NewCreditTransaction(req.CustomerID, req.Amount, txType, account.Balance)
		if err != nil {
			return err
		}
		tx.WithReference(req.ReferenceID).WithDescription(req.Description)

		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		s.logger.Error("wallet credit failed",
			zap.String("customer_id", req.CustomerID),
			zap.String("amount", req.Amount.String()),
			zap.Error(err),
		)
		s.recordOperation(ctx, "credit", string(txType), telemetry.OutcomeFailed, req.Amount)
		return nil, err
	}

	s.recordOperation(ctx, "credit", string(txType), telemetry.OutcomeSuccess, req.Amount)
	s.logger.Info("wallet credited",
		zap.String("customer_id", req.CustomerID),
		zap.String("type", string(txType)),
		zap.String("amount", req.Amount.String()),
		zap.String("balance_after", created.BalanceAfter.String()),
	)
	resp := ToTransactionResponse(created)
	return &resp, nil
}

// Debit decreases the balance. It fails with INSUFFICIENT_BALANCE, leaving the
// balance untouched, when the account holds less than the amount.
func (s *Service) Debit(ctx context.Context, req DebitRequest) (_ *TransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "debit", attribute.String("customer_id", req.CustomerID))
	defer func() { telemetry.EndSpan(span, err) }()

	if req.CustomerID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID is required")
	}
	if err := wallet.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	var created *wallet.Transaction
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByCustomerIDForUpdate(ctx, req.CustomerID)
		if errors.Is(err, shared.ErrNotFound) {
			account = wallet.NewAccount(req.CustomerID)
		} else if err != nil {
			return err
		}

		if err := account.Debit(req.Amount); err != nil {
			return err
		}
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}

		tx, err := wallet.NewDebitTransaction(req.CustomerID, req.Amount, account.Balance)
		if err != nil {
			return err
		}
		tx.WithReference(req.ReferenceID).WithDescription(req.Description)

		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientBalance) {
			s.logger.Warn("wallet debit rejected",
				zap.String("customer_id", req.CustomerID),
				zap.String("amount", req.Amount.String()),
				zap.Error(err),
			)
			s.recordOperation(ctx, "debit", string(wallet.TransactionTypeDebit), telemetry.OutcomeRejected, req.Amount)
		} else {
			s.logger.Error("wallet debit failed",
				zap.String("customer_id", req.CustomerID),
				zap.Error(err),
			)
			s.recordOperation(ctx, "debit", string(wallet.TransactionTypeDebit), telemetry.OutcomeFailed, req.Amount)
		}
		return nil, err
	}

	s.recordOperation(ctx, "debit", string(wallet.TransactionTypeDebit), telemetry.OutcomeSuccess, req.Amount)
	s.logger.Info("wallet debited",
		zap.String("customer_id", req.CustomerID),
		zap.String("amount", req.Amount.String()),
		zap.String("balance_after", created.BalanceAfter.String()),
	)
	resp := ToTransactionResponse(created)
	return &resp, nil
}

// GetBalance returns the customer's balance, zero for unknown customers
func (s *Service) GetBalance(ctx context.Context, customerID string) (*BalanceResponse, error) {
	account, err := s.accountRepo.FindByCustomerID(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		account = wallet.NewAccount(customerID)
	} else if err != nil {
		return nil, err
	}
	return &BalanceResponse{
		CustomerID: customerID,
		Balance:    account.Balance,
	}, nil
}

// ListTransactions returns a page of the customer's ledger, newest first
func (s *Service) ListTransactions(ctx context.Context, customerID string, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	var txType wallet.TransactionType
	if filter.Type != "" {
		txType = wallet.TransactionType(filter.Type)
		if !txType.IsCredit() && txType != wallet.TransactionTypeDebit {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown transaction type: "+filter.Type)
		}
	}

	repoFilter := wallet.TransactionFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderDir: "desc"}.Normalize(),
		Type:   txType,
	}
	items, total, err := s.transactionRepo.FindByCustomerID(ctx, customerID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(items), total, nil
}

// GetSummary returns the balance next to the credit and debit totals. The
// ledger balance is credits minus debits and equals the balance.
func (s *Service) GetSummary(ctx context.Context, customerID string) (*SummaryResponse, error) {
	balance, err := s.GetBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	totals, err := s.transactionRepo.SumByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := &wallet.Summary{
		CustomerID:    customerID,
		Balance:       balance.Balance,
		TotalCredit:   totals.TotalCredit,
		TotalDebit:    totals.TotalDebit,
		LedgerBalance: totals.TotalCredit.Sub(totals.TotalDebit),
	}
	if !summary.LedgerBalance.Equal(summary.Balance) {
		s.logger.Warn("wallet balance does not match ledger",
			zap.String("customer_id", customerID),
			zap.String("balance", summary.Balance.String()),
			zap.String("ledger_balance", summary.LedgerBalance.String()),
		)
	}
	return ToSummaryResponse(summary), nil
}

func (s *Service) recordOperation(ctx context.Context, op, txType string, outcome telemetry.Outcome, amount decimal.Decimal) {
	if s.businessMetrics == nil {
		return
	}
	s.businessMetrics.RecordWalletOperation(ctx, op, txType, outcome, amount)
}
