package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollect_CountsRequests(t *testing.T) {
	h := Collect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))

	before := testutil.ToFloat64(totalHttpRequests.WithLabelValues("302", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/app", nil))
	after := testutil.ToFloat64(totalHttpRequests.WithLabelValues("302", http.MethodGet))
	require.Equal(t, before+1, after)
}

func TestCollect_SkipsSelfScrape(t *testing.T) {
	h := Collect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	AddMetricsSkipPaths("/healthz")

	for _, p := range []string{"/metrics", "/ping", "/healthz"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	require.Zero(t, testutil.ToFloat64(totalHttpRequests.WithLabelValues("418", http.MethodGet)))
}

func TestSetPathNormalizer(t *testing.T) {
	SetPathNormalizer(func(*http.Request) string { return "/assets" })
	t.Cleanup(func() { SetPathNormalizer(func(r *http.Request) string { return r.URL.Path }) })

	h := Collect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/assets", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/a.js", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/b.js", nil))
	after := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/assets", http.MethodGet))
	require.Equal(t, before+2, after)
}

func TestGateCounters(t *testing.T) {
	before := testutil.ToFloat64(gateDecisions.WithLabelValues(OutcomeRedirectMissing))
	GateDecision(OutcomeRedirectMissing)
	require.Equal(t, before+1, testutil.ToFloat64(gateDecisions.WithLabelValues(OutcomeRedirectMissing)))

	hits := testutil.ToFloat64(keySetCacheLookups.WithLabelValues("hit"))
	KeySetCacheLookup(true)
	require.Equal(t, hits+1, testutil.ToFloat64(keySetCacheLookups.WithLabelValues("hit")))

	fails := testutil.ToFloat64(keySetFetches.WithLabelValues(FetchParseError))
	KeySetFetch(FetchParseError)
	require.Equal(t, fails+1, testutil.ToFloat64(keySetFetches.WithLabelValues(FetchParseError)))

	ObserveVerify(time.Millisecond)
	require.Equal(t, 1, testutil.CollectAndCount(verifySeconds))
}
