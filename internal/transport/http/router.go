package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cruddur/internal/platform/metrics"
	"cruddur/internal/platform/middleware"
	"cruddur/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Registrar mounts a module's routes under /api.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig holds what the router needs besides the module handlers.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	HealthChecks   map[string]HealthCheck
}

// NewRouter wires the shared middleware chain, CORS for /api, the health check
// and the metrics endpoint. Handlers delegate to services and carry no
// business logic.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(corsOptions(cfg)))
		api.Get("/health-check", healthHandler(cfg.Logger, cfg.HealthChecks))
		for _, m := range modules {
			m.Register(api)
		}
	})

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// corsOptions restricts /api to the configured origins. go-chi/cors treats an
// empty origin list as "allow all", so that case gets an explicit deny.
func corsOptions(cfg RouterConfig) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodOptions, http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.Logger.Warn("no CORS origins configured, cross-origin requests to /api will be refused",
			"hint", "set FRONTEND_URL, BACKEND_URL or CORS_ALLOW_ANY_ORIGIN")
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return opts
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := map[string]any{"success": true, "ver": 1}
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"dependency", name,
					"error", err,
					"request_id", middleware.GetRequestID(ctx),
				)
				failed[name] = "unavailable"
			}
		}
		if len(failed) > 0 {
			status = http.StatusServiceUnavailable
			body["success"] = false
			body["failed"] = failed
		}
		httputil.WriteJSON(w, status, body)
	}
}
