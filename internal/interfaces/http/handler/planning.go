package handler

import (
	planningapp "github.com/erp/salesledger/internal/application/planning"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PlanningHandler serves the ABC classification and purchase suggestions
type PlanningHandler struct {
	BaseHandler
	service *planningapp.Service
}

// NewPlanningHandler creates a new PlanningHandler
func NewPlanningHandler(service *planningapp.Service) *PlanningHandler {
	return &PlanningHandler{service: service}
}

// GetABCAnalysis godoc
// @ID           getABCAnalysis
// @Summary      Classify products A/B/C by revenue share
// @Tags         planning
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /planning/abc [get]
func (h *PlanningHandler) GetABCAnalysis(c *gin.Context) {
	analysis, err := h.service.GetABCAnalysis(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analysis)
}

// GetPurchaseSuggestions godoc
// @ID           getPurchaseSuggestions
// @Summary      Suggest reorder quantities from consumption and stock
// @Tags         planning
// @Produce      json
// @Param        classification query string false "A, B or C"
// @Param        only_needed    query bool   false "Drop products with nothing to order"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /planning/purchase-suggestions [get]
func (h *PlanningHandler) GetPurchaseSuggestions(c *gin.Context) {
	var query dto.SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	suggestions, err := h.service.GetPurchaseSuggestions(c.Request.Context(), planningapp.SuggestionFilter{
		Classification: query.Classification,
		OnlyNeeded:     query.OnlyNeeded,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestions)
}
