package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Turn outcome labels.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDropped = "dropped"
)

// Collector owns the Prometheus instruments for the brand agent.
type Collector struct {
	turnsTotal   *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec

	questionsLogged prometheus.Counter
	factsRetrieved  prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	wsConnections       prometheus.Gauge

	logger *zap.Logger
}

// NewCollector registers the instruments under namespace on the default
// registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of conversation turns processed",
		},
		[]string{"agent", "status"},
	)

	c.turnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Turn processing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	c.questionsLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unanswered_questions_logged_total",
			Help:      "Total number of questions queued for owner review",
		},
	)

	c.factsRetrieved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "facts_retrieved",
			Help:      "Number of facts surviving the distance cutoff per query",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Currently open chat WebSocket connections",
		},
	)

	return c
}

// RecordTurn records one processed turn with its routed agent and outcome.
func (c *Collector) RecordTurn(agent, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.turnsTotal.WithLabelValues(agent, status).Inc()
	if status != StatusDropped {
		c.turnDuration.WithLabelValues(agent).Observe(duration.Seconds())
	}
}

// RecordQuestionLogged counts a question queued for owner review.
func (c *Collector) RecordQuestionLogged() {
	if c == nil {
		return
	}
	c.questionsLogged.Inc()
}

// RecordFactsRetrieved observes how many facts survived the cutoff.
func (c *Collector) RecordFactsRetrieved(n int) {
	if c == nil {
		return
	}
	c.factsRetrieved.Observe(float64(n))
}

// RecordHTTPRequest records one HTTP request.
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// WSConnectionOpened increments the open-connection gauge.
func (c *Collector) WSConnectionOpened() {
	if c == nil {
		return
	}
	c.wsConnections.Inc()
}

// WSConnectionClosed decrements the open-connection gauge.
func (c *Collector) WSConnectionClosed() {
	if c == nil {
		return
	}
	c.wsConnections.Dec()
}
