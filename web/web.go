// Package web provides the JSON API consumed by the role-segmented front
// ends (customer portal, field app, admin consoles). It is a thin layer:
// decode, call the billing service, encode. Authentication is handled by
// the product gateway in front of this service.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wisptel/netbill/adapters/metrics"
	"github.com/wisptel/netbill/app"
	"github.com/wisptel/netbill/ports"
)

// Handler provides the billing API endpoints.
type Handler struct {
	billing  *app.BillingService
	settings *app.SettingsService
	plans    ports.PlanStore
	bills    ports.BillStore
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Billing  *app.BillingService
	Settings *app.SettingsService
	Plans    ports.PlanStore
	Bills    ports.BillStore
	Metrics  *metrics.Collector // optional
	Logger   zerolog.Logger
}

// New creates a new web handler.
func New(deps Deps) *Handler {
	return &Handler{
		billing:  deps.Billing,
		settings: deps.Settings,
		plans:    deps.Plans,
		bills:    deps.Bills,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Router builds the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.instrument)
	}

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/plans", h.listPlans)
		r.Post("/quotes", h.createQuote)
		r.Route("/customers/{customerID}", func(r chi.Router) {
			r.Post("/renewals", h.createRenewal)
			r.Get("/bills", h.listBills)
		})
		r.Post("/bills/{billID}/payments", h.recordPayment)
		r.Get("/settings", h.listSettings)
		r.Put("/settings/{key}", h.putSetting)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// instrument records request count and duration per route.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		status := strconv.Itoa(ww.Status())
		h.metrics.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		h.metrics.RequestDuration.WithLabelValues(r.Method, route, status).
			Observe(time.Since(start).Seconds())
	})
}
