package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdesk/orchestrator/internal/agent"
	"github.com/agentdesk/orchestrator/internal/config"
	"github.com/agentdesk/orchestrator/internal/domain"
	"github.com/agentdesk/orchestrator/internal/policy"
	store "github.com/agentdesk/orchestrator/internal/repository"
	"github.com/agentdesk/orchestrator/internal/tasks"
	"github.com/agentdesk/orchestrator/internal/tools"
	"github.com/agentdesk/orchestrator/tests/helpers"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	cfg := &config.Config{StreamChunkInterval: 10, TokenDelay: 0}
	runner := tasks.NewRunner(logger, 8)
	t.Cleanup(runner.Close)

	svc := New(db, agent.Default(tools.DefaultRegistry, engine), runner, cfg, logger)
	return svc, db
}

func createConversation(t *testing.T, svc *Service) *domain.Conversation {
	t.Helper()
	conv, err := svc.CreateConversation(context.Background(), "test")
	require.NoError(t, err)
	return conv
}

func collectEvents(events *[]domain.StreamEvent) EmitFunc {
	return func(ev domain.StreamEvent) error {
		*events = append(*events, ev)
		return nil
	}
}

func TestRunIsDeterministicAcrossInputs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	a, err := svc.Run(ctx, conv.ID, "hello")
	require.NoError(t, err)
	b, err := svc.Run(ctx, conv.ID, "what is PTO?")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a, "Key rules:")
}

func TestRunAppendsUserThenAssistant(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	answer, err := svc.Run(ctx, conv.ID, "what is PTO?")
	require.NoError(t, err)

	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "what is PTO?", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, answer, messages[1].Content)
}

func TestRunRecordsTelemetry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	_, err := svc.Run(ctx, conv.ID, "hello")
	require.NoError(t, err)

	steps, err := db.ListTraceSteps(ctx, conv.ID)
	require.NoError(t, err)

	var types []domain.StepType
	for _, s := range steps {
		types = append(types, s.StepType)
	}
	assert.Equal(t, []domain.StepType{
		domain.StepAgentStart,
		domain.StepPlanner,
		domain.StepToolCall,
		domain.StepFinal,
		domain.StepAgentEnd,
	}, types)

	calls, err := db.ListToolCalls(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, tools.PolicyKBSearch, calls[0].ToolName)
}

func TestRunUnknownConversationHasNoSideEffects(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, "conv_missing", "hello")
	require.ErrorIs(t, err, domain.ErrConversationNotFound)

	messages, err := db.ListMessages(ctx, "conv_missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
	steps, err := db.ListTraceSteps(ctx, "conv_missing")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestRunStreamEventOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	var events []domain.StreamEvent
	require.NoError(t, svc.RunStream(ctx, conv.ID, "hello", collectEvents(&events)))

	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}

	// agent_start, then a node/detail pair per stage, then one token per
	// word, then agent_end.
	require.Greater(t, len(names), 8)
	prefix := []string{
		domain.EventAgentStart,
		domain.EventNode, domain.EventPlanner,
		domain.EventNode, domain.EventToolCall,
		domain.EventNode, domain.EventFinal,
	}
	assert.Equal(t, prefix, names[:len(prefix)])
	assert.Equal(t, domain.EventAgentEnd, names[len(names)-1])

	tokenCount := 0
	for _, n := range names[len(prefix) : len(names)-1] {
		require.Equal(t, domain.EventToken, n, "only token events may appear between final and agent_end")
		tokenCount++
	}

	final := events[6].Data.(map[string]any)
	answer := final["final_answer"].(string)
	words := strings.Split(answer, " ")
	assert.Equal(t, len(words), tokenCount)
	assert.Equal(t, 1+3*2+len(words)+1, len(names))
}

func TestRunStreamTokensReassembleAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	var events []domain.StreamEvent
	require.NoError(t, svc.RunStream(ctx, conv.ID, "hello", collectEvents(&events)))

	var answer string
	var concat strings.Builder
	var lastPartial string
	for _, ev := range events {
		switch ev.Name {
		case domain.EventFinal:
			answer = ev.Data.(map[string]any)["final_answer"].(string)
		case domain.EventToken:
			data := ev.Data.(map[string]any)
			concat.WriteString(data["delta"].(string))
			lastPartial = data["partial"].(string)
		}
	}
	require.NotEmpty(t, answer)
	assert.Equal(t, answer, strings.TrimSuffix(concat.String(), " "))
	assert.Equal(t, answer, lastPartial)
}

func TestRunStreamPersistsBeforeAgentEnd(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	var sawAssistant bool
	emit := func(ev domain.StreamEvent) error {
		if ev.Name == domain.EventAgentEnd {
			messages, err := db.ListMessages(ctx, conv.ID)
			require.NoError(t, err)
			sawAssistant = len(messages) == 2 && messages[1].Role == domain.RoleAssistant
		}
		return nil
	}
	require.NoError(t, svc.RunStream(ctx, conv.ID, "hello", emit))
	assert.True(t, sawAssistant, "assistant message must be persisted before agent_end")
}

func TestRunStreamSamplesStreamChunks(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	var events []domain.StreamEvent
	require.NoError(t, svc.RunStream(ctx, conv.ID, "hello", collectEvents(&events)))

	tokenCount := 0
	for _, ev := range events {
		if ev.Name == domain.EventToken {
			tokenCount++
		}
	}

	steps, err := db.ListTraceSteps(ctx, conv.ID)
	require.NoError(t, err)
	chunkSteps := 0
	for _, s := range steps {
		if s.StepType == domain.StepStreamChunk {
			chunkSteps++
		}
	}
	assert.Equal(t, tokenCount/10, chunkSteps)
}

func TestRunStreamTelemetryBracketsRun(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	var events []domain.StreamEvent
	require.NoError(t, svc.RunStream(ctx, conv.ID, "hello", collectEvents(&events)))

	steps, err := db.ListTraceSteps(ctx, conv.ID)
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assert.Equal(t, domain.StepAgentStart, steps[0].StepType)
	assert.Equal(t, domain.StepAgentEnd, steps[len(steps)-1].StepType)
}

func TestRunStreamConsumerFailureAbortsWithoutAssistantMessage(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	conv := createConversation(t, svc)

	emitted := 0
	emit := func(ev domain.StreamEvent) error {
		emitted++
		if emitted > 3 {
			return io.ErrClosedPipe
		}
		return nil
	}

	err := svc.RunStream(ctx, conv.ID, "hello", emit)
	require.Error(t, err)

	// user message survives, assistant message does not
	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.RoleUser, messages[0].Role)

	// the failure is recorded
	steps, err := db.ListTraceSteps(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAgentError, steps[len(steps)-1].StepType)
}

func TestRunStreamStageFailureEmitsSingleErrorEvent(t *testing.T) {
	db := helpers.NewTestSQLiteStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// a policy that blocks everything turns the tool stage into a failure
	engine, err := policy.NewEngine(context.Background(), `
package tool_policy

default decision = "block"
`)
	require.NoError(t, err)

	cfg := &config.Config{StreamChunkInterval: 10, TokenDelay: 0}
	runner := tasks.NewRunner(logger, 8)
	t.Cleanup(runner.Close)
	svc := New(db, agent.Default(tools.DefaultRegistry, engine), runner, cfg, logger)

	ctx := context.Background()
	conv := createConversation(t, svc)

	var events []domain.StreamEvent
	err = svc.RunStream(ctx, conv.ID, "hello", collectEvents(&events))
	require.Error(t, err)

	errorEvents := 0
	for _, ev := range events {
		assert.NotEqual(t, domain.EventAgentEnd, ev.Name)
		if ev.Name == domain.EventError {
			errorEvents++
		}
	}
	assert.Equal(t, 1, errorEvents)
	assert.Equal(t, domain.EventError, events[len(events)-1].Name)

	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
}
