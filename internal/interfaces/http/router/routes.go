package router

import (
	"github.com/erp/salesledger/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the handlers mounted under the API group
type Handlers struct {
	Commission *handler.CommissionHandler
	Wallet     *handler.WalletHandler
	Planning   *handler.PlanningHandler
	Event      *handler.EventHandler
}

// Options tunes route level middleware
type Options struct {
	// DebitLimiter guards the wallet debit route; nil leaves it unlimited
	DebitLimiter gin.HandlerFunc
}

// Groups returns the domain route groups of the service
func Groups(h Handlers, opts Options) []RouteRegistrar {
	commissions := NewDomainGroup("commissions", "/commissions")
	commissions.POST("/sales", h.Commission.CalculateForSale)
	commissions.POST("/service-orders", h.Commission.CalculateForOS)
	commissions.GET("/users/:user_id/performance", h.Commission.GetPerformance)
	commissions.GET("/users/:user_id/earned", h.Commission.ListEarned)
	commissions.Group("rules", "/rules").
		POST("", h.Commission.CreateRule).
		GET("", h.Commission.ListRules).
		GET("/:id", h.Commission.GetRule).
		DELETE("/:id", h.Commission.DeleteRule)

	debit := []gin.HandlerFunc{h.Wallet.Debit}
	if opts.DebitLimiter != nil {
		debit = append([]gin.HandlerFunc{opts.DebitLimiter}, debit...)
	}
	wallets := NewDomainGroup("wallets", "/wallets/:customer_id").
		GET("/balance", h.Wallet.GetBalance).
		GET("/summary", h.Wallet.GetSummary).
		GET("/transactions", h.Wallet.ListTransactions).
		POST("/credit", h.Wallet.AddCredit).
		POST("/debit", debit...)

	planning := NewDomainGroup("planning", "/planning").
		GET("/abc", h.Planning.GetABCAnalysis).
		GET("/purchase-suggestions", h.Planning.GetPurchaseSuggestions)

	events := NewDomainGroup("events", "/events").
		POST("", h.Event.Ingest)

	return []RouteRegistrar{commissions, wallets, planning, events}
}

// RegisterHealth mounts the liveness and readiness probes on r
func RegisterHealth(r gin.IRoutes, h *handler.HealthHandler) {
	r.GET("/health", h.Health)
	r.GET("/health/ready", h.Ready)
}
