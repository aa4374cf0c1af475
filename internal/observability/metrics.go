package observability

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/focusgate-backend/internal/platform/envutil"
	"github.com/yungbote/focusgate-backend/internal/platform/logger"
)

// Metrics is a small Prometheus text-format registry. A nil *Metrics is valid
// and records nothing, so callers never need to check METRICS_ENABLED.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	ruleWrites    *CounterVec
	classifyCalls *CounterVec
	classifyTime  *HistogramVec
	pgStats       *GaugeVec
	redisUp       *Gauge
	redisPing     *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool { return envutil.Bool("METRICS_ENABLED", false) }

func Current() *Metrics { return instance }

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("fg_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("fg_api_request_duration_seconds", "API request latency in seconds.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}),
		apiInflight: NewGauge("fg_api_inflight_requests", "In-flight API requests."),
		ruleWrites: NewCounterVec("fg_rule_writes_total", "Domain rule writes by target and outcome.", []string{"target", "outcome"}),
		classifyCalls: NewCounterVec("fg_classifier_requests_total", "Calls to the external text classifier.", []string{"status"}),
		classifyTime: NewHistogramVec("fg_classifier_request_duration_seconds", "Classifier latency in seconds.",
			[]string{"status"}, []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}),
		pgStats:   NewGaugeVec("fg_postgres_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("fg_redis_up", "1 when the last redis ping succeeded."),
		redisPing: NewGauge("fg_redis_ping_seconds", "Duration of the last redis ping."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
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
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.ruleWrites, m.classifyCalls, m.classifyTime,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
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
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// IncRuleWrite counts one classified insert attempt.
func (m *Metrics) IncRuleWrite(target, outcome string) {
	if m != nil {
		m.ruleWrites.Inc(target, outcome)
	}
}

func (m *Metrics) ObserveClassifier(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.classifyCalls.Inc(status)
	m.classifyTime.Observe(dur.Seconds(), status)
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second)
	if d < time.Second {
		return time.Second
	}
	return d
}

// StartPostgresCollector samples sql.DBStats until ctx is done.
func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db handle unavailable", "error", err)
		}
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
			}
		}
	}()
}

// StartRedisCollector pings rdb on every scrape interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
