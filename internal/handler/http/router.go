package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/service"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/health"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	orderService *service.OrderService,
	lineService *service.LineService,
	stockService *service.StockService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("orderline"))
	r.Use(middleware.Tracing("orderline"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	orderHandler := NewOrderHandler(orderService, logger)
	lineHandler := NewLineHandler(lineService, logger)
	stockHandler := NewStockHandler(stockService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Post("/{id}/lines", lineHandler.CreateLine)
			r.Get("/{id}/lines", lineHandler.ListLines)
		})

		r.Route("/lines", func(r chi.Router) {
			r.Get("/{id}", lineHandler.GetLine)
			r.Put("/{id}", lineHandler.UpdateLine)
			r.Delete("/{id}", lineHandler.DeleteLine)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Put("/", stockHandler.InitializeStock)
			r.Get("/low", stockHandler.ListLowStock)
			r.Get("/{variantID}", stockHandler.GetStock)
		})
	})

	return r
}
