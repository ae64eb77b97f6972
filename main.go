package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentdesk/orchestrator/internal/agent"
	"github.com/agentdesk/orchestrator/internal/config"
	"github.com/agentdesk/orchestrator/internal/policy"
	store "github.com/agentdesk/orchestrator/internal/repository"
	"github.com/agentdesk/orchestrator/internal/service"
	"github.com/agentdesk/orchestrator/internal/tasks"
	"github.com/agentdesk/orchestrator/internal/tools"
	transport "github.com/agentdesk/orchestrator/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting orchestrator",
		"http_port", cfg.HTTPPort,
		"database", cfg.DatabaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize tool dispatch policy
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}

	// The pipeline is built once and shared read-only across runs.
	pipeline := agent.Default(tools.DefaultRegistry, policyEngine)

	// Background task runner
	taskRunner := tasks.NewRunner(logger, 64)
	defer taskRunner.Close()

	// Initialize service and server
	svc := service.New(db, pipeline, taskRunner, cfg, logger)
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("orchestrator started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down orchestrator")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server gracefully", "error", err)
	}

	logger.Info("orchestrator stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
