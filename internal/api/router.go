package api

import (
	_ "evdsrates/docs"
	"evdsrates/internal/metrics"
	"evdsrates/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(m.Middleware)

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1/rates", func(r chi.Router) {
		r.Get("/", rateHandler.GetRates)
		r.Post("/sync", rateHandler.SyncRates)
		r.Get("/currencies", rateHandler.GetSupportedCodes)
		r.Get("/stored/{code:[A-Za-z]{3}}", rateHandler.GetStored)
		r.Get("/stored/{code:[A-Za-z]{3}}/latest", rateHandler.GetLatest)
	})
	return router
}
