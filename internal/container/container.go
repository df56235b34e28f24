package container

import (
	"fmt"

	"github.com/charmbracelet/log"

	"abtest/internal/api"
	"abtest/internal/config"
	"abtest/internal/engine"
	"abtest/internal/logging"
	"abtest/internal/metrics"
)

// Container holds all application dependencies shared by the entry points
type Container struct {
	Config *config.Config
	Logger *log.Logger

	Engine  *engine.Engine
	Metrics *metrics.Metrics
	Service *api.Service
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return NewWithLogger(cfg, logging.New(cfg.Logging.Level))
}

// NewWithLogger creates a container that logs to the given logger
func NewWithLogger(cfg *config.Config, logger *log.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	analysisEngine, err := engine.New(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis engine: %w", err)
	}

	m := metrics.New()
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Engine:  analysisEngine,
		Metrics: m,
		Service: api.NewService(analysisEngine, m, logger),
	}

	logger.Debug("Container initialized",
		"alpha", cfg.Analysis.Alpha,
		"power", cfg.Analysis.Power,
		"confidence", cfg.Analysis.ConfidenceLevel)
	return c, nil
}

// APIHandler creates the net/http handler set for the standalone JSON API
func (c *Container) APIHandler() *api.Handler {
	return api.NewHandler(c.Service, c.Logger)
}
