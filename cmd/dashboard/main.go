package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"kirin-dashboard/internal/app"
	"kirin-dashboard/internal/config"
	"kirin-dashboard/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.New()

	flags := pflag.NewFlagSet("kirin-dashboard", pflag.ContinueOnError)
	flags.StringVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port to listen on")
	flags.StringVar(&cfg.CMSAPIURL, "api-url", cfg.CMSAPIURL, "base URL of the CMS API")
	flags.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "serve the embedded demo content instead of the CMS API")
	flags.BoolVar(&cfg.EnableDrafts, "drafts", cfg.EnableDrafts, "persist editor drafts in PostgreSQL")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	cfg.CMSAPIURL = strings.TrimRight(cfg.CMSAPIURL, "/")

	logger.Init(cfg.LogLevel)
	logger.Info("Starting Kirin dashboard", nil)
	if envErr != nil {
		logger.Info("No .env file found, using environment variables", nil)
	}

	application, err := app.New(cfg, app.Options{})
	if err != nil {
		logger.Error(err, "Failed to initialize application", nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Failed to start server", nil)
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		logger.Error(err, "Server error occurred, initiating shutdown", nil)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Server forced to shutdown", nil)
		os.Exit(1)
	}

	logger.Info("Server exited gracefully", nil)
}
