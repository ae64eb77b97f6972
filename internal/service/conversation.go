package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentdesk/orchestrator/internal/domain"
)

// CreateConversation creates a new conversation.
func (s *Service) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	conv := &domain.Conversation{
		ID:        "conv_" + uuid.New().String()[:8],
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation retrieves a conversation.
func (s *Service) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, domain.ErrConversationNotFound
	}
	return conv, nil
}

// GetHistory retrieves a conversation with its messages, oldest first.
func (s *Service) GetHistory(ctx context.Context, conversationID string) (*domain.Conversation, []domain.Message, error) {
	conv, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return conv, messages, nil
}

// AddMessage appends one message to an existing conversation.
func (s *Service) AddMessage(ctx context.Context, conversationID string, role domain.Role, content string) (*domain.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	msg := &domain.Message{
		ID:             "msg_" + uuid.New().String()[:8],
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// GetTelemetry retrieves the trace steps and tool calls recorded for a
// conversation, each ordered by creation time.
func (s *Service) GetTelemetry(ctx context.Context, conversationID string) ([]domain.TraceStep, []domain.ToolCall, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, nil, err
	}

	steps, err := s.store.ListTraceSteps(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list trace steps: %w", err)
	}
	calls, err := s.store.ListToolCalls(ctx, conversationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tool calls: %w", err)
	}
	return steps, calls, nil
}
