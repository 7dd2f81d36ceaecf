package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	DecisionsTotal           *prometheus.CounterVec
	LoansCreatedTotal        prometheus.Counter
	CustomersRegisteredTotal prometheus.Counter
	LoansRetiredTotal        prometheus.Counter
	IngestedRowsTotal        *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		DecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_decisions_total",
				Help: "Total number of credit decisions, by outcome.",
			},
			[]string{"outcome"},
		),
		LoansCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_loans_created_total",
				Help: "Total number of loans persisted after approval.",
			},
		),
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_registered_total",
				Help: "Total number of customers registered.",
			},
		),
		LoansRetiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_loans_retired_total",
				Help: "Total number of loans retired by the batch job.",
			},
		),
		IngestedRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_ingested_rows_total",
				Help: "Total number of ingested historical rows, by entity and status.",
			},
			[]string{"entity", "status"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordDecision(outcome string) {
	Business.DecisionsTotal.WithLabelValues(outcome).Inc()
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

func RecordLoansRetired(count int) {
	Business.LoansRetiredTotal.Add(float64(count))
}

func RecordIngestedRow(entity, status string) {
	Business.IngestedRowsTotal.WithLabelValues(entity, status).Inc()
}
