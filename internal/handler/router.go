package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/workforce-api/internal/middleware"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the router's collaborators beyond the handler
type RouterConfig struct {
	// Authenticate guards every /api route
	Authenticate   func(http.Handler) http.Handler
	AllowedOrigins []string
	// Store backs /health; nil reports healthy without a check
	Store Pinger
}

// Router wires routes and middleware
type Router struct {
	handler *Handler
	cfg     RouterConfig
	logger  *slog.Logger
}

// NewRouter creates a new router
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) *Router {
	return &Router{
		handler: h,
		cfg:     cfg,
		logger:  logger,
	}
}

// Setup registers every route
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   rt.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Recoverer(rt.logger))

	r.Get("/health", rt.health)
	r.Handle("/metrics", promhttp.Handler())

	h := rt.handler
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentType)
		if rt.cfg.Authenticate != nil {
			r.Use(rt.cfg.Authenticate)
		}

		r.Get("/areas", h.ListAreas)
		r.Get("/scope", h.Scope)
		r.Get("/overview", h.Overview)
		r.Get("/utilization", h.Utilizations)

		r.Route("/employees/{id}", func(r chi.Router) {
			r.Get("/directory", h.Directory)
			r.Get("/directorate", h.Directorate)
			r.Get("/chain", h.Chain)
			r.Get("/utilization", h.Utilization)
			r.Put("/distributions", h.SaveDistributions)
			r.Delete("/distributions", h.ClearDistributions)
		})

		r.Post("/distributions/copy", h.CopyDistributions)
		r.Post("/distributions/fill-remaining", h.FillRemaining)
		r.Get("/export/distributions", h.ExportDistributions)

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Post("/", h.CreateActivity)
			r.Put("/{id}", h.UpdateActivity)
			r.Delete("/{id}", h.DeleteActivity)
		})
	})

	return r
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.cfg.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.cfg.Store.Ping(ctx); err != nil {
			rt.logger.Warn("health check failed", slog.Any("error", err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
