package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBDurationBuckets are query latency boundaries in seconds
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetrics counts queries by operation, times them, and samples the
// connection pool on an interval.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	poolConns      *FloatGauge
	poolConnsMax   *FloatGauge

	slowThreshold time.Duration
	poolInterval  time.Duration
	logger        *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBMetrics creates the database instruments on meter
func NewDBMetrics(meter metric.Meter, slowThreshold, poolInterval time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	if poolInterval <= 0 {
		poolInterval = 15 * time.Second
	}

	queryTotal, err := NewCounter(meter, "db_query_total", "Database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, "db_query_duration_seconds", "Database query latency", "s", DBDurationBuckets...)
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db_slow_query_total", "Database queries slower than the threshold", "{query}")
	if err != nil {
		return nil, err
	}
	poolConns, err := NewFloatGauge(meter, "db_pool_connections", "Connections in the pool by state", "{connection}")
	if err != nil {
		return nil, err
	}
	poolConnsMax, err := NewFloatGauge(meter, "db_pool_connections_max", "Maximum open connections", "{connection}")
	if err != nil {
		return nil, err
	}

	return &DBMetrics{
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		slowQueryTotal: slowQueryTotal,
		poolConns:      poolConns,
		poolConnsMax:   poolConnsMax,
		slowThreshold:  slowThreshold,
		poolInterval:   poolInterval,
		logger:         logger,
		stopCh:         make(chan struct{}),
	}, nil
}

// RecordQuery records one finished statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.Record(ctx, duration.Seconds(), AttrDBOperation.String(operation))
	if duration > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// StartPoolStatsCollection samples sqlDB.Stats until ctx ends or Stop is called
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context, sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.poolInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx, sqlDB)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx, sqlDB)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	m.logger.Info("Started database pool stats collection", zap.Duration("interval", m.poolInterval))
}

func (m *DBMetrics) collectPoolStats(ctx context.Context, sqlDB *sql.DB) {
	stats := sqlDB.Stats()
	m.poolConnsMax.Record(ctx, float64(stats.MaxOpenConnections))
	m.poolConns.Record(ctx, float64(stats.Idle), AttrDBState.String("idle"))
	m.poolConns.Record(ctx, float64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConns.Record(ctx, float64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool collection. Safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

type metricsStartKey struct{}

// Register installs query timing callbacks on db
func (m *DBMetrics) Register(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, metricsStartKey{}, time.Now())
		}
	}
	after := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			ctx := db.Statement.Context
			if ctx == nil {
				return
			}
			start, ok := ctx.Value(metricsStartKey{}).(time.Time)
			if !ok {
				return
			}
			op := operation
			if op == "" {
				op = detectOperation(db.Statement.SQL.String())
			}
			m.RecordQuery(ctx, op, db.Statement.Table, time.Since(start))
		}
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("ledger_metrics:before_create", before),
		cb.Query().Before("gorm:query").Register("ledger_metrics:before_query", before),
		cb.Update().Before("gorm:update").Register("ledger_metrics:before_update", before),
		cb.Delete().Before("gorm:delete").Register("ledger_metrics:before_delete", before),
		cb.Raw().Before("gorm:raw").Register("ledger_metrics:before_raw", before),
		cb.Row().Before("gorm:row").Register("ledger_metrics:before_row", before),
		cb.Create().After("gorm:create").Register("ledger_metrics:after_create", after("INSERT")),
		cb.Query().After("gorm:query").Register("ledger_metrics:after_query", after("SELECT")),
		cb.Update().After("gorm:update").Register("ledger_metrics:after_update", after("UPDATE")),
		cb.Delete().After("gorm:delete").Register("ledger_metrics:after_delete", after("DELETE")),
		cb.Raw().After("gorm:raw").Register("ledger_metrics:after_raw", after("")),
		cb.Row().After("gorm:row").Register("ledger_metrics:after_row", after("")),
	)
}

func detectOperation(query string) string {
	query = strings.ToUpper(strings.TrimSpace(query))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "WITH"} {
		if strings.HasPrefix(query, op) {
			if op == "WITH" {
				return "SELECT"
			}
			return op
		}
	}
	return "OTHER"
}
