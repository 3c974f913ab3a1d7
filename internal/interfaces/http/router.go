package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/interfaces/http/handlers"
	"github.com/turtacn/SakuraScope/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	AnalysisHandler  *handlers.AnalysisHandler
	ScreeningHandler *handlers.ScreeningHandler
	HealthHandler    *handlers.HealthHandler
	// CacheHandler is set only when the analysis result cache is enabled.
	CacheHandler *handlers.CacheHandler

	Logger  logging.Logger
	Logging middleware.LoggingConfig
	// Metrics records per-route request metrics; MetricsHandler serves
	// MetricsPath ("/metrics" when empty).
	Metrics        middleware.HTTPMetrics
	MetricsHandler http.Handler
	MetricsPath    string

	// RequestTimeout bounds /api/v1 requests; 0 disables it.
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.AllowContentType("application/json"))
		if cfg.RequestTimeout > 0 {
			api.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		registerAnalysisRoutes(api, cfg.AnalysisHandler)
		registerScreeningRoutes(api, cfg.ScreeningHandler)
		registerCacheRoutes(api, cfg.CacheHandler)
	})

	return r
}

func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Post("/analyze", h.Analyze)
	r.Post("/analyze/batch", h.Batch)
	r.Route("/heuristics", func(hr chi.Router) {
		hr.Post("/distribution", h.Distribution)
		hr.Post("/merchant", h.Merchant)
	})
}

func registerScreeningRoutes(r chi.Router, h *handlers.ScreeningHandler) {
	if h == nil {
		return
	}
	r.Post("/screen", h.Screen)
}

func registerCacheRoutes(r chi.Router, h *handlers.CacheHandler) {
	if h == nil {
		return
	}
	r.Delete("/cache/analysis", h.InvalidateAll)
	r.Delete("/cache/analysis/{asin}", h.Invalidate)
}

//Personal.AI order the ending
