package observability

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec
	themeReconciled    *CounterVec
	auditRuns          *CounterVec

	eventsPublished *CounterVec
	workflowStarts  *CounterVec
	activityLatency *HistogramVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when disabled,
// and every Metrics method is a no-op on a nil receiver.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Metrics enabled")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New returns an independent registry.
func New() *Metrics {
	ops := []string{"op", "status"}
	return &Metrics{
		apiRequests: NewCounterVec("standup_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"standup_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("standup_api_inflight_requests", "In-flight API requests."),

		aggregateOps:       NewCounterVec("standup_aggregate_operations_total", "Aggregate write attempts by op/status.", ops),
		aggregateLatency:   NewHistogramVec("standup_aggregate_operation_duration_seconds", "Aggregate write latency by op/status.", ops, nil),
		aggregateConflicts: NewCounterVec("standup_aggregate_conflicts_total", "Aggregate writes that lost a race.", []string{"op"}),
		aggregateRetries:   NewCounterVec("standup_aggregate_retries_total", "Aggregate writes that failed transiently.", []string{"op"}),
		themeReconciled:    NewCounterVec("standup_theme_reconciled_total", "Theme counters repaired by the consistency checker.", []string{"op"}),
		auditRuns:          NewCounterVec("standup_audit_runs_total", "Consistency audit runs by status.", []string{"status"}),

		eventsPublished: NewCounterVec("standup_events_published_total", "Memory events published by type/status.", []string{"event", "status"}),
		workflowStarts:  NewCounterVec("standup_workflow_starts_total", "Temporal workflow starts by workflow/status.", []string{"workflow", "status"}),
		activityLatency: NewHistogramVec(
			"standup_activity_duration_seconds",
			"Temporal activity duration in seconds by activity/status.",
			[]string{"activity", "status"},
			[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		),

		dbStats:   NewGaugeVec("standup_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:   NewGauge("standup_redis_up", "Redis reachability (1=up, 0=down)."),
		redisPing: NewGauge("standup_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: 10 * time.Second,
	}
}

// SetScrapeInterval controls how often the background collectors sample.
func (m *Metrics) SetScrapeInterval(d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.scrapeInterval = d
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.themeReconciled, m.auditRuns,
		m.eventsPublished, m.workflowStarts, m.activityLatency,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(op)
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(op)
}

func (m *Metrics) AddThemeReconciled(op string, repaired int) {
	if m == nil || repaired <= 0 {
		return
	}
	m.themeReconciled.Add(float64(repaired), op)
}

func (m *Metrics) IncAuditRun(status string) {
	if m == nil {
		return
	}
	m.auditRuns.Inc(status)
}

func (m *Metrics) IncEventPublished(event, status string) {
	if m == nil {
		return
	}
	m.eventsPublished.Inc(event, status)
}

func (m *Metrics) IncWorkflowStart(workflow, status string) {
	if m == nil {
		return
	}
	m.workflowStarts.Inc(workflow, status)
}

func (m *Metrics) ObserveActivity(activity, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.activityLatency.Observe(dur.Seconds(), activity, status)
}

// StartDBCollector samples database/sql pool stats until ctx ends.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go m.every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		stats := sqlDB.Stats()
		m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
		m.dbStats.Set(float64(stats.InUse), "in_use")
		m.dbStats.Set(float64(stats.Idle), "idle")
		m.dbStats.Set(float64(stats.WaitCount), "wait_count")
		m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
		m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
	})
}

// StartRedisCollector pings rdb until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go m.every(ctx, func() {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			if log != nil && ctx.Err() == nil {
				log.Warn("metrics: redis ping failed", "error", err)
			}
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(start).Seconds())
	})
}

func (m *Metrics) every(ctx context.Context, fn func()) {
	ticker := time.NewTicker(m.scrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// StatusClass buckets an HTTP status code for low-cardinality labels.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
