package handler

import (
	commissionapp "github.com/erp/salesledger/internal/application/commission"
	"github.com/erp/salesledger/internal/domain/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CommissionHandler handles commission calculation, reporting and rule endpoints
type CommissionHandler struct {
	BaseHandler
	service *commissionapp.Service
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(service *commissionapp.Service) *CommissionHandler {
	return &CommissionHandler{service: service}
}

// CalculateForSale godoc
// @ID           calculateSaleCommissions
// @Summary      Calculate commissions for a completed sale
// @Description  Records one commission per item that has an applicable rule. Items without a rule are skipped.
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        request body dto.SaleRequest true "Completed sale"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /commissions/sales [post]
func (h *CommissionHandler) CalculateForSale(c *gin.Context) {
	var req dto.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale := commission.Sale{
		ID:     req.ID,
		UserID: req.UserID,
		Items:  make([]commission.SaleItem, len(req.Items)),
	}
	for i, item := range req.Items {
		sale.Items[i] = commission.SaleItem{
			ID:         item.ID,
			ProductID:  item.ProductID,
			CategoryID: item.CategoryID,
			TotalPrice: item.TotalPrice,
		}
	}

	earned, err := h.service.CalculateForSale(c.Request.Context(), sale)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, earned)
}

// CalculateForOS godoc
// @ID           calculateServiceOrderCommission
// @Summary      Calculate the technician commission of a finalized service order
// @Description  Data is null when the order has no technician or no rule applies.
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        request body dto.ServiceOrderRequest true "Finalized service order"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /commissions/service-orders [post]
func (h *CommissionHandler) CalculateForOS(c *gin.Context) {
	var req dto.ServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	earned, err := h.service.CalculateForOS(c.Request.Context(), commission.ServiceOrder{
		ID:           req.ID,
		TechnicianID: req.TechnicianID,
		BudgetValue:  req.BudgetValue,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if earned == nil {
		h.Success(c, nil)
		return
	}
	h.Created(c, earned)
}

// GetPerformance godoc
// @ID           getSalespersonPerformance
// @Summary      Sum a salesperson's commissions over a period
// @Tags         commissions
// @Produce      json
// @Param        user_id path  string true "Salesperson ID"
// @Param        start   query string true "RFC 3339 timestamp or YYYY-MM-DD"
// @Param        end     query string true "RFC 3339 timestamp or YYYY-MM-DD (whole day)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /commissions/users/{user_id}/performance [get]
func (h *CommissionHandler) GetPerformance(c *gin.Context) {
	var query dto.PerformanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := query.Range()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	perf, err := h.service.GetSalespersonPerformance(c.Request.Context(), c.Param("user_id"), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perf)
}

// ListEarned godoc
// @ID           listEarnedCommissions
// @Summary      List a salesperson's earned commissions, newest first
// @Tags         commissions
// @Produce      json
// @Param        user_id   path  string true  "Salesperson ID"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response
// @Router       /commissions/users/{user_id}/earned [get]
func (h *CommissionHandler) ListEarned(c *gin.Context) {
	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	filter := shared.Filter{Page: query.Page, PageSize: query.PageSize, OrderDir: query.OrderDir}.Normalize()

	items, total, err := h.service.ListEarned(c.Request.Context(), c.Param("user_id"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CreateRule godoc
// @ID           createCommissionRule
// @Summary      Create a commission rule
// @Tags         commission-rules
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateRuleRequest true "Rule"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /commissions/rules [post]
func (h *CommissionHandler) CreateRule(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), commissionapp.CreateRuleRequest{
		Type:       req.Type,
		UserID:     req.UserID,
		RoleID:     req.RoleID,
		CategoryID: req.CategoryID,
		Percentage: req.Percentage,
		FixedValue: req.FixedValue,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// ListRules godoc
// @ID           listCommissionRules
// @Summary      List commission rules
// @Tags         commission-rules
// @Produce      json
// @Param        type    query string false "sale or os"
// @Param        user_id query string false "Rules scoped to this user"
// @Success      200 {object} dto.Response
// @Router       /commissions/rules [get]
func (h *CommissionHandler) ListRules(c *gin.Context) {
	var query dto.RuleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	rules, err := h.service.ListRules(c.Request.Context(), commission.RuleFilter{
		Type:   commission.RuleType(query.Type),
		UserID: query.UserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}

// GetRule godoc
// @ID           getCommissionRule
// @Summary      Get a commission rule
// @Tags         commission-rules
// @Produce      json
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /commissions/rules/{id} [get]
func (h *CommissionHandler) GetRule(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rule, err := h.service.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// DeleteRule godoc
// @ID           deleteCommissionRule
// @Summary      Delete a commission rule
// @Description  Commissions already earned keep their rule id.
// @Tags         commission-rules
// @Param        id path string true "Rule ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /commissions/rules/{id} [delete]
func (h *CommissionHandler) DeleteRule(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRule(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
