package main

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"abtest/internal/config"
	"abtest/internal/container"
	"abtest/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}

	// Initialize dependency container
	c, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize container", "err", err)
	}

	// Initialize web server
	server, err := ui.NewServer(c.Service, c.Metrics, appConfig.Analysis, appConfig.Server.GinMode, c.Logger)
	if err != nil {
		c.Logger.Fatal("Failed to initialize server", "err", err)
	}

	c.Logger.Info("Analysis parameters",
		"alpha", appConfig.Analysis.Alpha,
		"power", appConfig.Analysis.Power,
		"confidence", appConfig.Analysis.ConfidenceLevel)

	if err := server.Start(":" + appConfig.Server.Port); err != nil && err != http.ErrServerClosed {
		c.Logger.Fatal("Server failed", "err", err)
	}
}
