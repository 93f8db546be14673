package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// unmatchedRoute is the path label for requests that match no route.
const unmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies labeled by the chi route pattern,
// and logs every request at debug level.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, req)

		path := unmatchedRoute
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		if path == "/metrics" {
			return
		}

		elapsed := time.Since(start)
		m.HTTPRequestDuration.WithLabelValues(path, req.Method).Observe(elapsed.Seconds())
		m.HTTPRequestsTotal.WithLabelValues(path, req.Method, strconv.Itoa(rec.statusCode/100)+"xx").Inc()

		logrus.WithFields(logrus.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"query":    req.URL.RawQuery,
			"status":   rec.statusCode,
			"duration": elapsed,
		}).Debug("HTTP request")
	})
}
