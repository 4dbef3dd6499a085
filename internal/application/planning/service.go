package planning

import (
	"context"
	"strings"
	"time"

	"github.com/erp/salesledger/internal/domain/planning"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds the planning windows and policies
type Config struct {
	RevenueWindowDays     int
	ConsumptionWindowDays int
	Thresholds            planning.Thresholds
	Coverage              planning.CoveragePolicy
}

// DefaultConfig returns a 90 day revenue window, a 30 day consumption window,
// 80/95 thresholds and 45/30/15 coverage days
func DefaultConfig() Config {
	return Config{
		RevenueWindowDays:     90,
		ConsumptionWindowDays: 30,
		Thresholds:            planning.DefaultThresholds(),
		Coverage:              planning.DefaultCoveragePolicy(),
	}
}

// Service computes ABC analysis and purchase suggestions on demand. Results
// are never cached.
type Service struct {
	analytics       planning.AnalyticsRepository
	cfg             Config
	now             func() time.Time
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewService creates a new planning Service
func NewService(analytics planning.AnalyticsRepository, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analytics: analytics,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// GetABCAnalysis classifies products by revenue over the trailing window
func (s *Service) GetABCAnalysis(ctx context.Context) (*ABCAnalysisResponse, error) {
	entries, err := s.classify(ctx)
	if err != nil {
		return nil, err
	}
	s.recordRun(ctx, "abc", len(entries))
	return toABCAnalysisResponse(s.cfg.RevenueWindowDays, entries), nil
}

// GetPurchaseSuggestions classifies products and sizes a reorder for each one
// from its consumption rate and current stock
func (s *Service) GetPurchaseSuggestions(ctx context.Context, filter SuggestionFilter) (_ []SuggestionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "planning", "purchase_suggestions")
	defer func() { telemetry.EndSpan(span, err) }()

	var only planning.Class
	if filter.Classification != "" {
		only = planning.Class(strings.ToUpper(filter.Classification))
		if !only.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Classification must be A, B or C")
		}
	}

	var (
		entries []planning.Classification
		stock   []planning.StockConsumption
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.classify(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		since := s.now().AddDate(0, 0, -s.cfg.ConsumptionWindowDays)
		stock, err = s.analytics.StockAndConsumption(gctx, since, s.cfg.ConsumptionWindowDays)
		return err
	})
	if err = g.Wait(); err != nil {
		s.logger.Error("failed to load planning data", zap.Error(err))
		return nil, err
	}

	suggestions := planning.Suggest(entries, stock, s.cfg.Coverage)
	result := make([]SuggestionResponse, 0, len(suggestions))
	for _, sg := range suggestions {
		if only != "" && sg.Class != only {
			continue
		}
		if filter.OnlyNeeded && !sg.SuggestedQuantity.IsPositive() {
			continue
		}
		result = append(result, toSuggestionResponse(sg))
	}

	s.recordRun(ctx, "purchase_suggestions", len(result))
	s.logger.Debug("purchase suggestions computed",
		zap.Int("classified", len(entries)),
		zap.Int("returned", len(result)),
	)
	return result, nil
}

func (s *Service) classify(ctx context.Context) ([]planning.Classification, error) {
	since := s.now().AddDate(0, 0, -s.cfg.RevenueWindowDays)
	revenues, err := s.analytics.ProductRevenueWindow(ctx, since)
	if err != nil {
		return nil, err
	}
	return planning.Classify(revenues, s.cfg.Thresholds), nil
}

func (s *Service) recordRun(ctx context.Context, report string, products int) {
	if s.businessMetrics == nil {
		return
	}
	s.businessMetrics.RecordPlanningRun(ctx, report, products)
}
