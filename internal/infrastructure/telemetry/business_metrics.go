package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Outcome labels the result of a wallet operation
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// WalletMetricsProvider reads wallet aggregates for the periodic gauges
type WalletMetricsProvider interface {
	// OutstandingBalance is the sum of all wallet balances
	OutstandingBalance(ctx context.Context) (decimal.Decimal, error)
	// AccountCount is the number of wallet accounts
	AccountCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig configures BusinessMetrics
type BusinessMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	WalletProvider WalletMetricsProvider
}

// BusinessMetrics records commission, wallet and planning activity
type BusinessMetrics struct {
	logger *zap.Logger

	commissionEarnedTotal *Counter
	commissionAmountTotal *FloatCounter
	walletOperationsTotal *Counter
	walletAmountTotal     *FloatCounter
	planningRunsTotal     *Counter
	planningProducts      *Histogram
	walletOutstanding     *FloatGauge
	walletAccounts        *FloatGauge

	walletProvider WalletMetricsProvider
	stopChan       chan struct{}
	stopOnce       sync.Once
	collectOnce    sync.Once
}

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError is a metrics setup error
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewBusinessMetrics creates the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:         logger,
		walletProvider: cfg.WalletProvider,
		stopChan:       make(chan struct{}),
	}

	var err error
	if bm.commissionEarnedTotal, err = NewCounter(cfg.Meter, "ledger_commission_earned_total",
		"Earned commission records created", "{records}"); err != nil {
		return nil, err
	}
	if bm.commissionAmountTotal, err = NewFloatCounter(cfg.Meter, "ledger_commission_amount_total",
		"Sum of earned commission amounts", "{currency}"); err != nil {
		return nil, err
	}
	if bm.walletOperationsTotal, err = NewCounter(cfg.Meter, "ledger_wallet_operations_total",
		"Wallet credit and debit attempts", "{operations}"); err != nil {
		return nil, err
	}
	if bm.walletAmountTotal, err = NewFloatCounter(cfg.Meter, "ledger_wallet_amount_total",
		"Sum of applied wallet movements", "{currency}"); err != nil {
		return nil, err
	}
	if bm.planningRunsTotal, err = NewCounter(cfg.Meter, "ledger_planning_runs_total",
		"Planning reports computed", "{runs}"); err != nil {
		return nil, err
	}
	if bm.planningProducts, err = NewHistogram(cfg.Meter, "ledger_planning_products",
		"Products returned per planning report", "{products}", PlanningSizeBuckets...); err != nil {
		return nil, err
	}
	if bm.walletOutstanding, err = NewFloatGauge(cfg.Meter, "ledger_wallet_outstanding_balance",
		"Sum of all wallet balances", "{currency}"); err != nil {
		return nil, err
	}
	if bm.walletAccounts, err = NewFloatGauge(cfg.Meter, "ledger_wallet_accounts",
		"Number of wallet accounts", "{accounts}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordCommissionEarned counts one earned record and its amount
func (bm *BusinessMetrics) RecordCommissionEarned(ctx context.Context, ruleType string, amount decimal.Decimal) {
	bm.commissionEarnedTotal.Inc(ctx, AttrRuleType.String(ruleType))
	bm.commissionAmountTotal.Add(ctx, amount.InexactFloat64(), AttrRuleType.String(ruleType))
}

// RecordWalletOperation counts a wallet operation; the amount only counts when applied
func (bm *BusinessMetrics) RecordWalletOperation(ctx context.Context, op, txType string, outcome Outcome, amount decimal.Decimal) {
	bm.walletOperationsTotal.Inc(ctx,
		AttrOperation.String(op),
		AttrTxType.String(txType),
		AttrOutcome.String(string(outcome)),
	)
	if outcome == OutcomeSuccess {
		bm.walletAmountTotal.Add(ctx, amount.InexactFloat64(),
			AttrOperation.String(op),
			AttrTxType.String(txType),
		)
	}
}

// RecordPlanningRun counts a computed planning report and its size
func (bm *BusinessMetrics) RecordPlanningRun(ctx context.Context, report string, products int) {
	bm.planningRunsTotal.Inc(ctx, AttrReport.String(report))
	bm.planningProducts.Record(ctx, float64(products), AttrReport.String(report))
}

// StartPeriodicCollection samples the wallet gauges every interval until
// Stop is called or ctx ends. Non-blocking.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.CollectWalletMetrics(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.CollectWalletMetrics(ctx)
		}
	}
}

// CollectWalletMetrics samples the wallet gauges once
func (bm *BusinessMetrics) CollectWalletMetrics(ctx context.Context) {
	if bm.walletProvider == nil {
		return
	}
	if total, err := bm.walletProvider.OutstandingBalance(ctx); err != nil {
		bm.logger.Warn("Failed to read outstanding wallet balance", zap.Error(err))
	} else {
		bm.walletOutstanding.Record(ctx, total.InexactFloat64())
	}
	if count, err := bm.walletProvider.AccountCount(ctx); err != nil {
		bm.logger.Warn("Failed to count wallet accounts", zap.Error(err))
	} else {
		bm.walletAccounts.Record(ctx, float64(count))
	}
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
