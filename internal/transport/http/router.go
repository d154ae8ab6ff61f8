package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campuscoffee/internal/platform/metrics"
	"campuscoffee/internal/platform/middleware"
	"campuscoffee/pkg/platform/httputil"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar mounts a module's routes. handler.Handler satisfies it.
type RouteRegistrar interface {
	Register(r chi.Router)
	RegisterAdmin(r chi.Router, adminToken string)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs. Health, Metrics and Gatherer may be
// nil; the corresponding endpoints or middleware are then skipped.
type Deps struct {
	Logger         *slog.Logger
	Pos            RouteRegistrar
	Health         HealthChecker
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AdminToken     string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter wires the global middleware chain and every endpoint. The admin
// routes exist only when an admin token is configured.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader, middleware.AdminTokenHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.LatencyMiddleware(d.Metrics))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	r.Get("/healthz", healthHandler(d.Health, d.Logger))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	d.Pos.Register(r)
	if d.AdminToken != "" {
		d.Pos.RegisterAdmin(r, d.AdminToken)
	}
	return r
}

func healthHandler(hc HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hc != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := hc.Ping(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"request_id", middleware.GetRequestID(ctx),
					"error", err.Error(),
				)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
