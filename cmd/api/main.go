package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"abtest/internal/api"
	"abtest/internal/config"
	"abtest/internal/container"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize container", "err", err)
	}
	logger := c.Logger

	router := api.NewRouter(c.APIHandler(), c.Metrics, appConfig.API.CORSAllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + appConfig.API.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Starting API server", "addr", srv.Addr,
			"alpha", appConfig.Analysis.Alpha, "power", appConfig.Analysis.Power)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "err", err)
	}
	logger.Info("API server stopped")
}
