package ui

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware and static assets
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("Error creating static filesystem", "err", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// requestLogger logs each request and records its latency
func (s *Server) requestLogger() gin.HandlerFunc {
	httpLogger := s.logger.WithPrefix("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, c.Writer.Status(), elapsed)
		}
		httpLogger.Info("request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"elapsed", elapsed,
		)
	}
}
