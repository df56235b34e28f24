package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"abtest/domain/abtest"
	"abtest/internal/api"
	"abtest/internal/metrics"
)

//go:embed templates/*.html content/*.md static
var embeddedFiles embed.FS

// Server represents the web server for the calculator UI
type Server struct {
	router    *gin.Engine
	service   *api.Service
	metrics   *metrics.Metrics
	params    abtest.Params
	templates *template.Template
	concepts  template.HTML
	logger    *log.Logger
}

// NewServer creates a web server instance; ginMode is "debug", "release" or "test"
func NewServer(service *api.Service, m *metrics.Metrics, params abtest.Params, ginMode string, logger *log.Logger) (*Server, error) {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	concepts, err := renderConcepts()
	if err != nil {
		return nil, fmt.Errorf("failed to render concepts page: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		metrics:   m,
		params:    params,
		templates: templates,
		concepts:  concepts,
		logger:    logger.WithPrefix("ui"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Pages
	s.router.GET("/", s.handleIndex)
	s.router.POST("/calculate", s.handleCalculateForm)
	s.router.GET("/concepts", s.handleConcepts)

	// API endpoints
	s.router.POST("/api/calculate", s.handleCalculateJSON)
	s.router.POST("/api/sample-size", s.handleSampleSize)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting web server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
