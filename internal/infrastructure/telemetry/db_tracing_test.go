package telemetry_test

import (
	"context"
	"testing"

	"github.com/erp/salesledger/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type walletAccountRow struct {
	CustomerID string          `gorm:"primaryKey"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2)"`
}

func (walletAccountRow) TableName() string { return "wallet_accounts" }

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&walletAccountRow{}))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := openSQLite(t)
	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, plugin.Register(db))
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	sr := setupTestTracer(t)
	db := openSQLite(t)
	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{Enabled: true, DBName: "ledger"}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	ctx, span := telemetry.StartServiceSpan(context.Background(), "test", "query")
	require.NoError(t, db.WithContext(ctx).Create(&walletAccountRow{CustomerID: "C1", Balance: decimal.NewFromInt(5)}).Error)
	span.End()

	assert.GreaterOrEqual(t, len(sr.Ended()), 2)
}

func TestGormWalletMetricsProvider(t *testing.T) {
	db := openSQLite(t)
	provider := telemetry.NewGormWalletMetricsProvider(db)
	ctx := context.Background()

	total, err := provider.OutstandingBalance(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	require.NoError(t, db.Create(&walletAccountRow{CustomerID: "C1", Balance: decimal.RequireFromString("10.50")}).Error)
	require.NoError(t, db.Create(&walletAccountRow{CustomerID: "C2", Balance: decimal.RequireFromString("4.50")}).Error)

	total, err = provider.OutstandingBalance(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(15)), total.String())

	count, err := provider.AccountCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
