package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instruments for the HTTP surface, the record store
// and the price model.
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	modelReloads       *prometheus.CounterVec
	recordOps          *prometheus.CounterVec
}

// New registers and returns the service metrics on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housing_http_requests_total",
		Help: "Counts HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "housing_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housing_price_predictions_total",
		Help: "Price predictions by outcome.",
	}, []string{"outcome"})

	predictionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "housing_price_prediction_duration_seconds",
		Help:    "Time spent scaling, predicting and inverse-scaling a price.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	modelReloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housing_model_reloads_total",
		Help: "Model artifact reloads by outcome.",
	}, []string{"outcome"})

	recordOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housing_record_operations_total",
		Help: "Housing record store operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		predictions,
		predictionDuration,
		modelReloads,
		recordOps,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Metrics{
		httpRequests:       httpRequests,
		httpDuration:       httpDuration,
		predictions:        predictions,
		predictionDuration: predictionDuration,
		modelReloads:       modelReloads,
		recordOps:          recordOps,
	}, nil
}

// ObserveHTTPRequest records a request and its latency.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	method = sanitizeLabel(method)
	route = sanitizeLabel(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePrediction records one price prediction.
func (m *Metrics) ObservePrediction(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(sanitizeLabel(outcome)).Inc()
	m.predictionDuration.Observe(duration.Seconds())
}

// RecordModelReload counts an artifact reload attempt.
func (m *Metrics) RecordModelReload(outcome string) {
	if m == nil {
		return
	}
	m.modelReloads.WithLabelValues(sanitizeLabel(outcome)).Inc()
}

// RecordOperation counts a record store operation.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.recordOps.WithLabelValues(sanitizeLabel(operation), sanitizeLabel(outcome)).Inc()
}

// GinMiddleware observes every request handled by the engine.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func sanitizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
