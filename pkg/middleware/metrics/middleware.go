package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Collect produces the HTTP middleware that records the counters/histogram.
func Collect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		startTime := time.Now()

		defer func() {
			// Skip self-scrape and any additional caller-configured paths
			if isSkipPath(r) {
				return
			}

			code := strconv.Itoa(ww.Status())
			uri := normalizePath(r) // path only; avoid cardinality explosion
			method := r.Method

			totalHttpRequestsToUri.WithLabelValues(code, uri, method).Inc()
			totalHttpRequests.WithLabelValues(code, method).Inc()
			responseTime.Observe(time.Since(startTime).Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}
