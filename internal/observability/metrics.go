package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// geocoding service.
type Metrics struct {
	GeocodeRequests *prometheus.CounterVec   // labels: version={v1,v2}, method={geocode,reverse}, outcome={success,empty,error}
	GeocodeCache    *prometheus.CounterVec   // labels: method={geocode,reverse}, result={hit,miss}
	APIDuration     *prometheus.HistogramVec // labels: version={v1,v2}, method={geocode,reverse}
	HTTPRequests    *prometheus.CounterVec   // labels: route, code
	VersionEnabled  *prometheus.GaugeVec     // labels: version; 1 when the adapter is configured
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "baidu_geocode",
			Name:      "requests_total",
			Help:      "Baidu API requests by version, method, and outcome.",
		}, []string{"version", "method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "baidu_geocode",
			Name:      "cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "baidu_geocode",
			Name:      "api_duration_seconds",
			Help:      "Baidu API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"version", "method"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "baidu_geocode",
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		VersionEnabled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "baidu_geocode",
			Name:      "version_enabled",
			Help:      "1 when the API version adapter is configured, 0 otherwise.",
		}, []string{"version"}),
	}

	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.APIDuration,
		m.HTTPRequests,
		m.VersionEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "baidu_geocode", Name: "requests_total"}, []string{"version", "method", "outcome"}),
		GeocodeCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "baidu_geocode", Name: "cache_total"}, []string{"method", "result"}),
		APIDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "baidu_geocode", Name: "api_duration_seconds"}, []string{"version", "method"}),
		HTTPRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "baidu_geocode", Name: "http_requests_total"}, []string{"route", "code"}),
		VersionEnabled:  prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "baidu_geocode", Name: "version_enabled"}, []string{"version"}),
	}
}
