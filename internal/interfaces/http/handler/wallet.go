package handler

import (
	walletapp "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles customer wallet endpoints
type WalletHandler struct {
	BaseHandler
	service *walletapp.Service
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(service *walletapp.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

// GetBalance godoc
// @ID           getWalletBalance
// @Summary      Get a customer's wallet balance
// @Description  Customers without a wallet have a zero balance.
// @Tags         wallets
// @Produce      json
// @Param        customer_id path string true "Customer ID"
// @Success      200 {object} dto.Response
// @Router       /wallets/{customer_id}/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.service.GetBalance(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetSummary godoc
// @ID           getWalletSummary
// @Summary      Get a customer's balance with credit and debit totals
// @Tags         wallets
// @Produce      json
// @Param        customer_id path string true "Customer ID"
// @Success      200 {object} dto.Response
// @Router       /wallets/{customer_id}/summary [get]
func (h *WalletHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListTransactions godoc
// @ID           listWalletTransactions
// @Summary      List a customer's wallet ledger, newest first
// @Tags         wallets
// @Produce      json
// @Param        customer_id path  string true  "Customer ID"
// @Param        type        query string false "Transaction type"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /wallets/{customer_id}/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	var query dto.TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	page := shared.Filter{Page: query.Page, PageSize: query.PageSize}.Normalize()

	items, total, err := h.service.ListTransactions(c.Request.Context(), c.Param("customer_id"), walletapp.TransactionListFilter{
		Type:     query.Type,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, page.Page, page.PageSize)
}

// AddCredit godoc
// @ID           creditWallet
// @Summary      Credit a customer's wallet
// @Description  Creates the wallet on first credit. Type defaults to credit.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        customer_id path string            true "Customer ID"
// @Param        request     body dto.CreditRequest true "Credit"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /wallets/{customer_id}/credit [post]
func (h *WalletHandler) AddCredit(c *gin.Context) {
	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.service.AddCredit(c.Request.Context(), walletapp.AddCreditRequest{
		CustomerID:  c.Param("customer_id"),
		Amount:      req.Amount,
		Type:        req.Type,
		ReferenceID: req.ReferenceID,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Debit godoc
// @ID           debitWallet
// @Summary      Debit a customer's wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        customer_id path string           true "Customer ID"
// @Param        request     body dto.DebitRequest true "Debit"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response "Insufficient balance"
// @Failure      429 {object} dto.Response
// @Router       /wallets/{customer_id}/debit [post]
func (h *WalletHandler) Debit(c *gin.Context) {
	var req dto.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.service.Debit(c.Request.Context(), walletapp.DebitRequest{
		CustomerID:  c.Param("customer_id"),
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}
