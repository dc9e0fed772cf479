package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decode operation metrics
	decodeOperationsTotal   *prometheus.CounterVec
	decodeOperationDuration *prometheus.HistogramVec
	decodedEntriesTotal     prometheus.Counter
	decodedRecordsTotal     prometheus.Counter

	// Capture store metrics
	captureOperationsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdwire_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cdwire_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cdwire_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdwire_decode_operations_total",
				Help: "Total number of decode operations",
			},
			[]string{"operation", "status"},
		),

		decodeOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cdwire_decode_operation_duration_seconds",
				Help:    "Decode operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		decodedEntriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cdwire_decoded_entries_total",
				Help: "Total number of collection entries decoded",
			},
		),

		decodedRecordsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cdwire_decoded_records_total",
				Help: "Total number of composite records inspected",
			},
		),

		captureOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdwire_capture_operations_total",
				Help: "Total number of capture store operations",
			},
			[]string{"operation", "status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdwire_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecodeOperation records a decode operation
func (m *Metrics) RecordDecodeOperation(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.decodeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.decodeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddDecodedEntries adds to the decoded entry counter
func (m *Metrics) AddDecodedEntries(n int) {
	if m == nil {
		return
	}
	m.decodedEntriesTotal.Add(float64(n))
}

// AddDecodedRecords adds to the inspected record counter
func (m *Metrics) AddDecodedRecords(n int) {
	if m == nil {
		return
	}
	m.decodedRecordsTotal.Add(float64(n))
}

// RecordCaptureOperation records a capture store operation
func (m *Metrics) RecordCaptureOperation(operation string, success bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.captureOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.status, duration)
	}
}
