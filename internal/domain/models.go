// Package domain defines the core domain models for the orchestrator.
package domain

import (
	"encoding/json"
	"time"
)

// Conversation is a persistent chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single turn inside a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// TraceStep is one durable audit-log row describing a run milestone.
// Rows are written once and never mutated; they disappear only when the
// owning conversation is deleted.
type TraceStep struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	StepType       StepType  `json:"step_type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToolCall is one durable audit-log row describing a tool invocation.
type ToolCall struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	ToolName       string          `json:"tool_name"`
	InputPayload   json.RawMessage `json:"input_payload,omitempty"`
	OutputPayload  json.RawMessage `json:"output_payload,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
