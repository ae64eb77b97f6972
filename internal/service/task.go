package service

import (
	"github.com/agentdesk/orchestrator/internal/domain"
	"github.com/agentdesk/orchestrator/internal/tasks"
)

// EnqueuePing schedules the ping health-check task.
func (s *Service) EnqueuePing() *tasks.Task {
	return s.tasks.Enqueue("ping", tasks.Ping)
}

// GetTask returns the current state of a background task.
func (s *Service) GetTask(taskID string) (*tasks.Task, error) {
	t, ok := s.tasks.Get(taskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}
