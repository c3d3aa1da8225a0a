package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	catalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_loads_total",
			Help: "Catalog loads by the source that answered.",
		},
		[]string{"source"},
	)
	replicationInsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_replication_inserts_total",
			Help: "Snapshot rows pushed to the remote store, by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(catalogLoadsTotal)
	prometheus.MustRegister(replicationInsertsTotal)
}

// RecordRequest records metrics for a single HTTP request
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordCatalogLoad counts a catalog load answered by source
func RecordCatalogLoad(source string) {
	catalogLoadsTotal.WithLabelValues(source).Inc()
}

// RecordReplicationInsert counts one replicated row
func RecordReplicationInsert(ok bool) {
	result := "inserted"
	if !ok {
		result = "failed"
	}
	replicationInsertsTotal.WithLabelValues(result).Inc()
}

// classifyStatus buckets an HTTP status code into its class
func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the HTTP handler exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
