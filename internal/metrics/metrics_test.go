package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/v1/rates/stored/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/api/v1/rates/stored/USD", "/api/v1/rates/stored/EUR", "/metrics"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/v1/rates/stored/{code}", http.MethodGet, "4xx")))
	require.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
}

func TestMiddleware_UnmatchedPathsShareOneLabel(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/v1/rates", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/wp-login.php", "/.env", "/admin/config.json"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	require.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "4xx")))
	require.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
}
