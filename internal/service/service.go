// Package service implements the orchestrator's business logic: the
// conversation operations, the run coordinator and the streaming adapter.
package service

import (
	"log/slog"

	"github.com/agentdesk/orchestrator/internal/agent"
	"github.com/agentdesk/orchestrator/internal/config"
	store "github.com/agentdesk/orchestrator/internal/repository"
	"github.com/agentdesk/orchestrator/internal/tasks"
)

type Service struct {
	store    store.Store
	pipeline *agent.Pipeline
	tasks    *tasks.Runner
	config   *config.Config
	logger   *slog.Logger
}

func New(st store.Store, pipeline *agent.Pipeline, taskRunner *tasks.Runner, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		pipeline: pipeline,
		tasks:    taskRunner,
		config:   cfg,
		logger:   logger,
	}
}
