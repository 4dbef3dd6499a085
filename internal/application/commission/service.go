package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service resolves commission rules and records earned commissions
type Service struct {
	ruleRepo        commission.RuleRepository
	earnedRepo      commission.EarnedRepository
	roles           commission.RoleResolver
	txScope         TransactionScope
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewService creates a new commission Service
func NewService(
	ruleRepo commission.RuleRepository,
	earnedRepo commission.EarnedRepository,
	roles commission.RoleResolver,
	txScope TransactionScope,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ruleRepo:   ruleRepo,
		earnedRepo: earnedRepo,
		roles:      roles,
		txScope:    txScope,
		logger:     logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CalculateForSale records one commission per line item that has an applicable
// rule. Items without a rule are skipped. All inserts share one transaction.
func (s *Service) CalculateForSale(ctx context.Context, sale commission.Sale) (_ []EarnedResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission", "calculate_for_sale",
		attribute.String("sale_id", sale.ID),
		attribute.Int("items", len(sale.Items)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := sale.Validate(); err != nil {
		return nil, err
	}

	roleID, err := s.roles.RoleOf(ctx, sale.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve role of seller %s: %w", sale.UserID, err)
	}

	created := make([]*commission.Earned, 0, len(sale.Items))
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range sale.Items {
			rule, err := repos.RuleRepo().FindMostSpecific(ctx, commission.MatchContext{
				Type:       commission.RuleTypeSale,
				UserID:     sale.UserID,
				RoleID:     roleID,
				CategoryID: item.CategoryID,
			})
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Debug("no commission rule applies to sale item",
					zap.String("sale_id", sale.ID),
					zap.String("sale_item_id", item.ID),
				)
				continue
			}
			if err != nil {
				return err
			}

			earned := commission.NewSaleEarned(sale.UserID, rule, sale.ID, item)
			if err := repos.EarnedRepo().Create(ctx, earned); err != nil {
				return err
			}
			created = append(created, earned)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("commission calculation for sale failed",
			zap.String("sale_id", sale.ID),
			zap.String("user_id", sale.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	result := make([]EarnedResponse, 0, len(created))
	for _, e := range created {
		s.recordEarned(ctx, commission.RuleTypeSale, e)
		result = append(result, ToEarnedResponse(e))
	}

	s.logger.Info("commission calculated for sale",
		zap.String("sale_id", sale.ID),
		zap.String("user_id", sale.UserID),
		zap.Int("items", len(sale.Items)),
		zap.Int("earned", len(result)),
	)
	return result, nil
}

// CalculateForOS records the technician's commission for a finalized service
// order. Returns nil without error when there is no technician or no rule.
func (s *Service) CalculateForOS(ctx context.Context, order commission.ServiceOrder) (_ *EarnedResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission", "calculate_for_os", attribute.String("service_order_id", order.ID))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := order.Validate(); err != nil {
		return nil, err
	}
	if !order.HasTechnician() {
		return nil, nil
	}
	technicianID := *order.TechnicianID

	rule, err := s.ruleRepo.FindMostSpecific(ctx, commission.MatchContext{
		Type:   commission.RuleTypeServiceOrder,
		UserID: technicianID,
	})
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("no commission rule applies to service order",
			zap.String("service_order_id", order.ID),
			zap.String("technician_id", technicianID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	earned := commission.NewServiceOrderEarned(technicianID, rule, order)
	if err := s.earnedRepo.Create(ctx, earned); err != nil {
		s.logger.Error("failed to record service order commission",
			zap.String("service_order_id", order.ID),
			zap.Error(err),
		)
		return nil, err
	}
	s.recordEarned(ctx, commission.RuleTypeServiceOrder, earned)

	s.logger.Info("commission calculated for service order",
		zap.String("service_order_id", order.ID),
		zap.String("technician_id", technicianID),
		zap.String("commission_amount", earned.CommissionAmount.String()),
	)
	resp := ToEarnedResponse(earned)
	return &resp, nil
}

// GetSalespersonPerformance sums a user's earned commissions with created_at in [start, end]
func (s *Service) GetSalespersonPerformance(ctx context.Context, userID string, start, end time.Time) (*PerformanceResponse, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID is required")
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_INPUT", "End must not be before start")
	}

	perf, err := s.earnedRepo.SumByUser(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return ToPerformanceResponse(perf), nil
}

// ListEarned returns a page of the user's earned commissions, newest first
func (s *Service) ListEarned(ctx context.Context, userID string, filter shared.Filter) ([]EarnedResponse, int64, error) {
	filter = filter.Normalize()
	items, total, err := s.earnedRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToEarnedResponses(items), total, nil
}

// CreateRule stores a new commission rule
func (s *Service) CreateRule(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	rule, err := commission.NewRule(commission.RuleType(req.Type), req.UserID, req.RoleID, req.CategoryID, req.Percentage, req.FixedValue)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// GetRule returns a rule by ID
func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// ListRules returns the rules matching the filter
func (s *Service) ListRules(ctx context.Context, filter commission.RuleFilter) ([]RuleResponse, error) {
	rules, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]RuleResponse, len(rules))
	for i := range rules {
		result[i] = ToRuleResponse(&rules[i])
	}
	return result, nil
}

// DeleteRule removes a rule. Earned rows keep their rule_id.
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, id)
}

func (s *Service) recordEarned(ctx context.Context, ruleType commission.RuleType, e *commission.Earned) {
	if s.businessMetrics == nil {
		return
	}
	s.businessMetrics.RecordCommissionEarned(ctx, string(ruleType), e.CommissionAmount)
}
