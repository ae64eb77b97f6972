// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/agentdesk/orchestrator/internal/domain"
)

// Store defines the interface for data persistence. List operations return
// rows ordered by creation time, oldest first.
type Store interface {
	// Conversation operations
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)

	// Telemetry operations
	LogTraceStep(ctx context.Context, step *domain.TraceStep) error
	ListTraceSteps(ctx context.Context, conversationID string) ([]domain.TraceStep, error)
	LogToolCall(ctx context.Context, call *domain.ToolCall) error
	ListToolCalls(ctx context.Context, conversationID string) ([]domain.ToolCall, error)

	Close() error
}
