package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"abtest/internal/metrics"
)

// NewRouter wires the JSON API routes and middleware
func NewRouter(h *Handler, m *metrics.Metrics, allowedOrigins []string, logger *log.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger.WithPrefix("http"), m))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Analysis-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/calculate", h.Calculate)
		r.Post("/sample-size", h.SampleSize)
	})

	return r
}

// requestLogger logs each request and records its latency
func requestLogger(logger *log.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			if m != nil {
				m.ObserveRequest(route, ww.Status(), elapsed)
			}
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"elapsed", elapsed,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
