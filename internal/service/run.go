package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentdesk/orchestrator/internal/agent"
	"github.com/agentdesk/orchestrator/internal/domain"
)

// EmitFunc delivers one wire event to the connected client. A returned
// error means the client can no longer be reached and aborts the run.
type EmitFunc func(event domain.StreamEvent) error

// Run executes the pipeline synchronously for one user message. The
// conversation must already exist. The user message is persisted first,
// every stage output is recorded as telemetry in stage order, and the
// assistant message is persisted only for a fully successful run.
func (s *Service) Run(ctx context.Context, conversationID, userMessage string) (string, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return "", err
	}
	if err := s.persistMessage(ctx, conversationID, domain.RoleUser, userMessage); err != nil {
		return "", err
	}

	s.traceStep(ctx, conversationID, domain.StepAgentStart, userMessage)

	st := agent.NewRunState(conversationID, userMessage)
	err := s.pipeline.Stream(ctx, st, func(node string, st *agent.RunState) error {
		switch node {
		case agent.NodePlanner:
			s.traceStep(ctx, conversationID, domain.StepPlanner, st.Plan)
		case agent.NodeTool:
			s.traceStep(ctx, conversationID, domain.StepToolCall, st.ToolName)
			s.logToolCall(ctx, st)
		case agent.NodeSupervisor:
			s.traceStep(ctx, conversationID, domain.StepFinal, st.FinalAnswer)
		}
		return nil
	})
	if err != nil {
		s.traceStep(ctx, conversationID, domain.StepAgentError, err.Error())
		return "", fmt.Errorf("pipeline run: %w", err)
	}

	if err := s.persistMessage(ctx, conversationID, domain.RoleAssistant, st.FinalAnswer); err != nil {
		s.traceStep(ctx, conversationID, domain.StepAgentError, err.Error())
		return "", err
	}
	s.traceStep(ctx, conversationID, domain.StepAgentEnd, st.FinalAnswer)

	return st.FinalAnswer, nil
}

// RunStream executes the pipeline for one user message while relaying
// progress to the client through emit. The user message is persisted
// before the first event; the assistant message is persisted only after
// every token has been delivered. Any failure produces exactly one error
// event plus an agent_error trace step, and the stream ends.
func (s *Service) RunStream(ctx context.Context, conversationID, userMessage string, emit EmitFunc) error {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.persistMessage(ctx, conversationID, domain.RoleUser, userMessage); err != nil {
		return err
	}

	if err := s.runStream(ctx, conversationID, userMessage, emit); err != nil {
		// One error event, best effort: the failure may be the client
		// connection itself.
		if emitErr := emit(domain.StreamEvent{
			Name: domain.EventError,
			Data: map[string]any{"error": err.Error()},
		}); emitErr != nil {
			s.logger.Warn("failed to emit error event", "conversation_id", conversationID, "error", emitErr)
		}
		s.traceStep(ctx, conversationID, domain.StepAgentError, err.Error())
		return err
	}
	return nil
}

func (s *Service) runStream(ctx context.Context, conversationID, userMessage string, emit EmitFunc) error {
	if err := emit(domain.StreamEvent{
		Name: domain.EventAgentStart,
		Data: map[string]any{"conversation_id": conversationID},
	}); err != nil {
		return err
	}
	s.traceStep(ctx, conversationID, domain.StepAgentStart, userMessage)

	st := agent.NewRunState(conversationID, userMessage)
	err := s.pipeline.Stream(ctx, st, func(node string, st *agent.RunState) error {
		if err := emit(domain.StreamEvent{
			Name: domain.EventNode,
			Data: map[string]any{"node": node},
		}); err != nil {
			return err
		}
		s.traceStep(ctx, conversationID, domain.StepNode, node)

		switch node {
		case agent.NodePlanner:
			if err := emit(domain.StreamEvent{
				Name: domain.EventPlanner,
				Data: map[string]any{"plan": st.Plan},
			}); err != nil {
				return err
			}
			s.traceStep(ctx, conversationID, domain.StepPlanner, st.Plan)

		case agent.NodeTool:
			if err := emit(domain.StreamEvent{
				Name: domain.EventToolCall,
				Data: map[string]any{
					"tool_name": st.ToolName,
					"input":     st.ToolInput,
					"output":    st.ToolOutput,
				},
			}); err != nil {
				return err
			}
			s.traceStep(ctx, conversationID, domain.StepToolCall, st.ToolName)
			s.logToolCall(ctx, st)

		case agent.NodeSupervisor:
			if err := emit(domain.StreamEvent{
				Name: domain.EventFinal,
				Data: map[string]any{"final_answer": st.FinalAnswer},
			}); err != nil {
				return err
			}
			s.traceStep(ctx, conversationID, domain.StepFinal, st.FinalAnswer)
			return s.streamTokens(ctx, conversationID, st.FinalAnswer, emit)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Persist before announcing completion so a client seeing agent_end can
	// immediately re-read a consistent history.
	if err := s.persistMessage(ctx, conversationID, domain.RoleAssistant, st.FinalAnswer); err != nil {
		return err
	}
	s.traceStep(ctx, conversationID, domain.StepAgentEnd, st.FinalAnswer)

	return emit(domain.StreamEvent{
		Name: domain.EventAgentEnd,
		Data: map[string]any{"conversation_id": conversationID},
	})
}

// streamTokens decomposes the final answer into word tokens and emits one
// token event per word, pausing between tokens to simulate incremental
// generation. Every Nth partial is sampled into a stream_chunk trace step.
func (s *Service) streamTokens(ctx context.Context, conversationID, answer string, emit EmitFunc) error {
	tokens := strings.Split(answer, " ")
	for i, tok := range tokens {
		partial := strings.Join(tokens[:i+1], " ")
		if err := emit(domain.StreamEvent{
			Name: domain.EventToken,
			Data: map[string]any{"delta": tok + " ", "partial": partial},
		}); err != nil {
			return err
		}
		if (i+1)%s.config.StreamChunkInterval == 0 {
			s.traceStep(ctx, conversationID, domain.StepStreamChunk, partial)
		}
		if s.config.TokenDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.TokenDelay):
			}
		}
	}
	return nil
}

func (s *Service) persistMessage(ctx context.Context, conversationID string, role domain.Role, content string) error {
	msg := &domain.Message{
		ID:             "msg_" + uuid.New().String()[:8],
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to persist %s message: %w", role, err)
	}
	return nil
}

// traceStep appends one telemetry row. Telemetry is best-effort: a failed
// write is logged and the run continues, it is not on a two-phase commit
// with message persistence.
func (s *Service) traceStep(ctx context.Context, conversationID string, stepType domain.StepType, content string) {
	step := &domain.TraceStep{
		ID:             "step_" + uuid.New().String()[:8],
		ConversationID: conversationID,
		StepType:       stepType,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.store.LogTraceStep(ctx, step); err != nil {
		s.logger.Error("failed to log trace step", "conversation_id", conversationID, "step_type", stepType, "error", err)
	}
}

func (s *Service) logToolCall(ctx context.Context, st *agent.RunState) {
	input, _ := json.Marshal(st.ToolInput)
	output, _ := json.Marshal(st.ToolOutput)
	call := &domain.ToolCall{
		ID:             "tc_" + uuid.New().String()[:8],
		ConversationID: st.ConversationID,
		ToolName:       st.ToolName,
		InputPayload:   input,
		OutputPayload:  output,
		CreatedAt:      time.Now(),
	}
	if err := s.store.LogToolCall(ctx, call); err != nil {
		s.logger.Error("failed to log tool call", "conversation_id", st.ConversationID, "tool_name", st.ToolName, "error", err)
	}
}
