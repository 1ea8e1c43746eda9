// Package metrics holds the Prometheus collectors for the API, the
// matchmaking scorer and the background reminder job. All recording methods
// are safe on a nil *Metrics so callers never need to check.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hackmap"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	matchmakingDuration prometheus.Histogram
	matchmakingTeams    prometheus.Histogram

	emails        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	reminderRuns  *prometheus.CounterVec

	dbConnectRetries prometheus.Counter
	breakerState     *prometheus.GaugeVec
	cacheLookups     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		matchmakingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matchmaking",
			Name:      "duration_seconds",
			Help:      "Time spent loading candidates and scoring teams.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		matchmakingTeams: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matchmaking",
			Name:      "candidate_teams",
			Help:      "Number of candidate teams considered per request.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "email",
			Name:      "sent_total",
			Help:      "Emails handed to the mailer by template and result.",
		}, []string{"template", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "In-app notifications created by type.",
		}, []string{"type"}),
		reminderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "runs_total",
			Help:      "Deadline reminder runs by outcome.",
		}, []string{"outcome"}),
		dbConnectRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connect_retries_total",
			Help:      "Failed database connection attempts that were retried.",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"name"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by key space and result.",
		}, []string{"space", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.matchmakingDuration,
		m.matchmakingTeams,
		m.emails,
		m.notifications,
		m.reminderRuns,
		m.dbConnectRetries,
		m.breakerState,
		m.cacheLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveMatchmaking(candidates int, d time.Duration) {
	if m == nil {
		return
	}
	m.matchmakingDuration.Observe(d.Seconds())
	m.matchmakingTeams.Observe(float64(candidates))
}

func (m *Metrics) EmailSent(template string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.emails.WithLabelValues(template, result).Inc()
}

func (m *Metrics) NotificationCreated(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReminderRun(outcome string) {
	if m == nil {
		return
	}
	m.reminderRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DBConnectRetry(int, error) {
	if m == nil {
		return
	}
	m.dbConnectRetries.Inc()
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) CacheLookup(space string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(space, result).Inc()
}
