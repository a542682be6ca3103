package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	gateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "edgeauth_decisions_total", Help: "gate invocations by outcome"},
		[]string{"outcome"},
	)

	keySetFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "edgeauth_jwks_fetch_total", Help: "key set fetches by result"},
		[]string{"result"},
	)

	keySetCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "edgeauth_jwks_cache_total", Help: "key set cache lookups by result"},
		[]string{"result"},
	)

	verifySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edgeauth_verify_seconds",
			Help:    "time spent resolving keys and verifying a token.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5},
		},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		gateDecisions,
		keySetFetches,
		keySetCacheLookups,
		verifySeconds,
	)
}
