package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "storefront"

var (
	metricsOnce         sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	cmsRequestsTotal    *prometheus.CounterVec
	cmsRequestDuration  *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served",
		}, []string{"route", "method", "status"})

		httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"})

		cmsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cms",
			Name:      "requests_total",
			Help:      "Total content API reads by resource and outcome",
		}, []string{"resource", "outcome"})

		cmsRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cms",
			Name:      "request_duration_seconds",
			Help:      "Duration of content API reads",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"})
	})
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	initMetrics()
	return promhttp.Handler()
}

// ObserveCMSRequest records one content API read. outcome is "ok", "not_found" or "error".
func ObserveCMSRequest(resource, outcome string, elapsed time.Duration) {
	initMetrics()
	cmsRequestsTotal.WithLabelValues(resource, outcome).Inc()
	cmsRequestDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}
