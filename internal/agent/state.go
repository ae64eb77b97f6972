// Package agent implements the scripted run pipeline: a fixed ordered
// chain of stages threaded over one per-run state.
package agent

// StateEvent is one audit record appended to the run state by a stage.
type StateEvent struct {
	Type    string
	Payload map[string]any
}

// RunState is the ephemeral working data for one run. It is owned by a
// single pipeline invocation and never shared across runs; each field is
// written by exactly one stage, in pipeline order.
type RunState struct {
	ConversationID string
	UserMessage    string

	Plan        string         // set by the planner
	ToolName    string         // set by the tool stage
	ToolInput   map[string]any // set by the tool stage
	ToolOutput  map[string]any // set by the tool stage
	FinalAnswer string         // set by the supervisor

	// Events grows by one entry per stage and is never truncated.
	Events []StateEvent
}

// NewRunState initializes the state for one run.
func NewRunState(conversationID, userMessage string) *RunState {
	return &RunState{
		ConversationID: conversationID,
		UserMessage:    userMessage,
		ToolInput:      map[string]any{},
		ToolOutput:     map[string]any{},
	}
}

func (s *RunState) appendEvent(eventType string, payload map[string]any) {
	s.Events = append(s.Events, StateEvent{Type: eventType, Payload: payload})
}

// TopChunks returns the ordered snippet list from the tool output. Missing
// or malformed output yields an empty list, never an error.
func (s *RunState) TopChunks() []string {
	switch v := s.ToolOutput["top_chunks"].(type) {
	case []string:
		return v
	case []any:
		chunks := make([]string, 0, len(v))
		for _, c := range v {
			if str, ok := c.(string); ok {
				chunks = append(chunks, str)
			}
		}
		return chunks
	}
	return nil
}
