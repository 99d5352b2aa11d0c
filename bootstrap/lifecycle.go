package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"article-summarizer/logger"
	"article-summarizer/telemetry"
)

// Run is the main application entry point. It initializes telemetry and the
// dependency graph, starts the HTTP server, then waits for a shutdown
// signal.
func Run(ctx context.Context) error {
	telCfg := telemetry.ConfigFromEnv()
	telShutdown, err := telemetry.InitProvider(ctx, telCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		telCfg.Enabled = false
		telShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telShutdown(shutdownCtx); err != nil {
			fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
		}
	}()

	log := logger.FromEnv(telCfg.ServiceName, telCfg.Enabled)

	log.Info("Starting article summarizer service",
		"otel_enabled", telCfg.Enabled,
		"service", telCfg.ServiceName)

	deps, cleanup, err := BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps, telCfg.Enabled, telCfg.ServiceName)
	StartHTTPServer(httpServer, deps, log)

	log.Info("Article summarizer service started successfully",
		"port", deps.Config.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down article summarizer service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	log.Info("Article summarizer service stopped")
	return nil
}
