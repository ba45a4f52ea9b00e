package middleware

import (
	"net/http"
	"strconv"

	"github.com/Bahjat/udyam-scraper/internal/platform/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics counts requests by method, route pattern, and status. It must wrap
// the ServeMux directly: the mux records the matched pattern on the request
// it receives, and any middleware in between would hand it a copy.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrap(w)
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
	})
}
