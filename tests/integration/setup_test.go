package integration

import (
	"testing"

	appcommission "github.com/erp/salesledger/internal/application/commission"
	appplanning "github.com/erp/salesledger/internal/application/planning"
	appwallet "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type services struct {
	db         *TestDB
	commission *appcommission.Service
	wallet     *appwallet.Service
	planning   *appplanning.Service
	earnedRepo *persistence.GormCommissionEarnedRepository
}

func newServices(t *testing.T) *services {
	t.Helper()
	tdb := NewTestDB(t)
	log := zap.NewNop()
	scope := persistence.NewGormTransactionScope(tdb.DB)
	earnedRepo := persistence.NewGormCommissionEarnedRepository(tdb.DB)

	return &services{
		db: tdb,
		commission: appcommission.NewService(
			persistence.NewGormCommissionRuleRepository(tdb.DB),
			earnedRepo,
			persistence.NewGormRoleResolver(tdb.DB),
			scope.CommissionScope(),
			log,
		),
		wallet: appwallet.NewService(
			persistence.NewGormWalletAccountRepository(tdb.DB),
			persistence.NewGormWalletTransactionRepository(tdb.DB),
			scope.WalletScope(),
			log,
		),
		planning:   appplanning.NewService(persistence.NewGormAnalyticsRepository(tdb.DB), appplanning.DefaultConfig(), log),
		earnedRepo: earnedRepo,
	}
}
