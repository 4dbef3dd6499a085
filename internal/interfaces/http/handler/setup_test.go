package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	appcommission "github.com/erp/salesledger/internal/application/commission"
	appplanning "github.com/erp/salesledger/internal/application/planning"
	appwallet "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/infrastructure/cache"
	"github.com/erp/salesledger/internal/infrastructure/event"
	"github.com/erp/salesledger/internal/infrastructure/persistence"
	"github.com/erp/salesledger/internal/infrastructure/persistence/models"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/erp/salesledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine     *gin.Engine
	db         *gorm.DB
	bus        *event.InMemoryEventBus
	idemMetric *event.IdempotencyMetrics
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.CoreModels()...))
	require.NoError(t, db.AutoMigrate(models.ExternalModels()...))
	return db
}

// newTestServer wires the real services over SQLite the way cmd/server does,
// minus redis and telemetry exporters.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	middleware.SetupValidator()

	log := zap.NewNop()
	db := newTestDB(t)
	scope := persistence.NewGormTransactionScope(db)
	earnedRepo := persistence.NewGormCommissionEarnedRepository(db)

	commissionSvc := appcommission.NewService(
		persistence.NewGormCommissionRuleRepository(db),
		earnedRepo,
		persistence.NewGormRoleResolver(db),
		scope.CommissionScope(),
		log,
	)
	walletSvc := appwallet.NewService(
		persistence.NewGormWalletAccountRepository(db),
		persistence.NewGormWalletTransactionRepository(db),
		scope.WalletScope(),
		log,
	)
	planningSvc := appplanning.NewService(persistence.NewGormAnalyticsRepository(db), appplanning.DefaultConfig(), log)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	bus := event.NewInMemoryEventBus(log)
	metrics := &event.IdempotencyMetrics{}
	store := cache.NewInMemoryIdempotencyStore()
	bus.Subscribe(event.NewIdempotentHandler(
		appcommission.NewSaleCompletedHandler(commissionSvc, earnedRepo, nil, log), store, log,
		event.WithIdempotencyMetrics(metrics)))
	bus.Subscribe(event.NewIdempotentHandler(
		appcommission.NewServiceOrderFinalizedHandler(commissionSvc, earnedRepo, nil, log), store, log,
		event.WithIdempotencyMetrics(metrics)))
	bus.Subscribe(event.NewIdempotentHandler(
		appwallet.NewCashbackGrantedHandler(walletSvc, log), store, log,
		event.WithIdempotencyMetrics(metrics)))
	require.NoError(t, bus.Start(t.Context()))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")

	commissions := NewCommissionHandler(commissionSvc)
	api.POST("/commissions/sales", commissions.CalculateForSale)
	api.POST("/commissions/service-orders", commissions.CalculateForOS)
	api.GET("/commissions/users/:user_id/performance", commissions.GetPerformance)
	api.GET("/commissions/users/:user_id/earned", commissions.ListEarned)
	api.POST("/commissions/rules", commissions.CreateRule)
	api.GET("/commissions/rules", commissions.ListRules)
	api.GET("/commissions/rules/:id", commissions.GetRule)
	api.DELETE("/commissions/rules/:id", commissions.DeleteRule)

	wallets := NewWalletHandler(walletSvc)
	api.GET("/wallets/:customer_id/balance", wallets.GetBalance)
	api.GET("/wallets/:customer_id/summary", wallets.GetSummary)
	api.GET("/wallets/:customer_id/transactions", wallets.ListTransactions)
	api.POST("/wallets/:customer_id/credit", wallets.AddCredit)
	api.POST("/wallets/:customer_id/debit", wallets.Debit)

	planning := NewPlanningHandler(planningSvc)
	api.GET("/planning/abc", planning.GetABCAnalysis)
	api.GET("/planning/purchase-suggestions", planning.GetPurchaseSuggestions)

	api.POST("/events", NewEventHandler(serializer, bus).Ingest)

	health := NewHealthHandler(db, nil, metrics, "test")
	engine.GET("/health", health.Health)
	engine.GET("/health/ready", health.Ready)

	return &testServer{engine: engine, db: db, bus: bus, idemMetric: metrics}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes a response whose data is unmarshaled into out
func envelope(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()

	var raw struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return raw.Response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := envelope(t, w, nil)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}

func ptr[T any](v T) *T {
	return &v
}
