package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	err := r.Register("echo", func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{"echo": input["query"]}, nil
	})
	require.NoError(t, err)

	out, err := r.Execute(context.Background(), "echo", map[string]any{"query": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out["echo"])
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	exec := func(ctx context.Context, input map[string]any) (map[string]any, error) { return nil, nil }
	require.NoError(t, r.Register("t", exec))
	assert.Error(t, r.Register("t", exec))
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestBuiltinKBSearchShape(t *testing.T) {
	out, err := DefaultRegistry.Execute(context.Background(), PolicyKBSearch, map[string]any{"query": "anything"})
	require.NoError(t, err)

	chunks, ok := out["top_chunks"].([]string)
	require.True(t, ok, "top_chunks must be an ordered string list")
	assert.Len(t, chunks, 3)
}
