package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"ERP_APP_NAME",
	"ERP_APP_ENV",
	"ERP_APP_PORT",
	"ERP_DATABASE_HOST",
	"ERP_DATABASE_PORT",
	"ERP_DATABASE_USER",
	"ERP_DATABASE_PASSWORD",
	"ERP_DATABASE_DBNAME",
	"ERP_DATABASE_SSLMODE",
	"ERP_DATABASE_MAX_OPEN_CONNS",
	"ERP_DATABASE_MAX_IDLE_CONNS",
	"ERP_REDIS_ENABLED",
	"ERP_REDIS_PORT",
	"ERP_HTTP_CORS_ALLOW_ORIGINS",
	"ERP_HTTP_RATE_LIMIT_STORE",
	"ERP_EVENT_IDEMPOTENCY_STORE",
	"ERP_EVENT_IDEMPOTENCY_TTL",
	"ERP_COMMISSION_SALE_LOCK_TTL",
	"ERP_PLANNING_THRESHOLD_A",
	"ERP_PLANNING_THRESHOLD_B",
	"ERP_PLANNING_COVERAGE_DAYS_A",
	"ERP_PLANNING_REVENUE_WINDOW_DAYS",
	"ERP_TELEMETRY_SAMPLING_RATIO",
	"ERP_TELEMETRY_DB_LOG_FULL_SQL",
	"ERP_PROFILER_ENABLED",
	"ERP_PROFILER_SERVER_ADDRESS",
}

// clearEnv blanks every managed variable for the duration of the test.
// Viper treats an empty variable as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "salesledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "salesledger", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)

		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())

		assert.True(t, cfg.Event.IdempotencyEnabled)
		assert.Equal(t, "memory", cfg.Event.IdempotencyStore)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
		assert.Equal(t, 30*time.Second, cfg.Commission.SaleLockTTL)

		assert.Equal(t, 90, cfg.Planning.RevenueWindowDays)
		assert.Equal(t, 30, cfg.Planning.ConsumptionWindowDays)
		assert.Equal(t, 80.0, cfg.Planning.ThresholdA)
		assert.Equal(t, 95.0, cfg.Planning.ThresholdB)
		assert.Equal(t, 45, cfg.Planning.CoverageDaysA)
		assert.Equal(t, 30, cfg.Planning.CoverageDaysB)
		assert.Equal(t, 15, cfg.Planning.CoverageDaysC)

		assert.Equal(t, "salesledger", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_NAME", "test-app")
		t.Setenv("ERP_APP_ENV", "testing")
		t.Setenv("ERP_APP_PORT", "9000")
		t.Setenv("ERP_DATABASE_HOST", "testdb.local")
		t.Setenv("ERP_DATABASE_PORT", "5433")
		t.Setenv("ERP_DATABASE_PASSWORD", "testpass")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ERP_REDIS_ENABLED", "true")
		t.Setenv("ERP_REDIS_PORT", "6380")
		t.Setenv("ERP_EVENT_IDEMPOTENCY_STORE", "redis")
		t.Setenv("ERP_EVENT_IDEMPOTENCY_TTL", "2h")
		t.Setenv("ERP_COMMISSION_SALE_LOCK_TTL", "5s")
		t.Setenv("ERP_PLANNING_REVENUE_WINDOW_DAYS", "60")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
		assert.Equal(t, "redis", cfg.Event.IdempotencyStore)
		assert.Equal(t, 2*time.Hour, cfg.Event.IdempotencyTTL)
		assert.Equal(t, 5*time.Second, cfg.Commission.SaleLockTTL)
		assert.Equal(t, 60, cfg.Planning.RevenueWindowDays)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_StoreValidation(t *testing.T) {
	t.Run("redis idempotency store requires redis", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_EVENT_IDEMPOTENCY_STORE", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "event.idempotency_store")
	})

	t.Run("unknown rate limit store is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_HTTP_RATE_LIMIT_STORE", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "memory or redis")
	})
}

func TestLoad_PlanningValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "threshold A above threshold B",
			env:  map[string]string{"ERP_PLANNING_THRESHOLD_A": "96"},
			want: "threshold_a < threshold_b",
		},
		{
			name: "threshold B above 100",
			env:  map[string]string{"ERP_PLANNING_THRESHOLD_B": "101"},
			want: "threshold_b <= 100",
		},
		{
			name: "negative coverage",
			env:  map[string]string{"ERP_PLANNING_COVERAGE_DAYS_A": "-5"},
			want: "coverage days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("requires database password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects sslmode disable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects wildcard CORS origin", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("rejects full SQL logging", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("accepts a hardened configuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ERP_APP_ENV", "production")
		t.Setenv("ERP_DATABASE_PASSWORD", "secret")
		t.Setenv("ERP_DATABASE_SSLMODE", "require")
		t.Setenv("ERP_HTTP_CORS_ALLOW_ORIGINS", "https://erp.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://erp.example.com"}, cfg.HTTP.CORSAllowOrigins)
	})
}

func TestLoad_ProfilerRequiresAddress(t *testing.T) {
	clearEnv(t)
	t.Setenv("ERP_PROFILER_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiler.server_address")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "ledger",
		Password: "p@ss word",
		DBName:   "salesledger",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://ledger:p%40ss%20word@db:5432/salesledger?sslmode=disable", d.DSN())
}
