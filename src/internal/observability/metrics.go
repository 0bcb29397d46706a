package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

// Metrics collects the Prometheus metrics of the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	movementsTotal  *prometheus.CounterVec
	movementAmount  *prometheus.CounterVec
	conflictRetries prometheus.Counter
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accounts_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		movementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_ledger_movements_total",
			Help: "Movement attempts by type and outcome.",
		}, []string{"type", "outcome"}),
		movementAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_ledger_movement_amount_total",
			Help: "Sum of committed movement amounts by type.",
		}, []string{"type"}),
		conflictRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accounts_ledger_conflict_retries_total",
			Help: "Ledger transactions retried after a concurrent update.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accounts_job_runs_total",
			Help: "Scheduled job runs by job and status.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accounts_job_duration_seconds",
			Help:    "Scheduled job duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.movementsTotal,
		m.movementAmount,
		m.conflictRetries,
		m.jobRuns,
		m.jobDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveMovement(kind domain.MovementKind, outcome string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.movementsTotal.WithLabelValues(string(kind), outcome).Inc()
	if outcome == "committed" {
		m.movementAmount.WithLabelValues(string(kind)).Add(amount.InexactFloat64())
	}
}

func (m *Metrics) ObserveConflictRetry() {
	if m == nil {
		return
	}
	m.conflictRetries.Inc()
}

// TrackJob records one run of a scheduled job. Call the returned func with
// the run's error when the job finishes.
func (m *Metrics) TrackJob(job string) func(error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		status := "success"
		if err != nil {
			status = "failure"
		}
		m.jobRuns.WithLabelValues(job, status).Inc()
		m.jobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
