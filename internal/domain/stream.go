package domain

// StreamEvent is one named payload pushed to a live client during a
// streaming run. The transport frames it as an SSE event; the Data field
// is marshalled to JSON as-is.
type StreamEvent struct {
	Name string
	Data any
}

// Wire event names emitted during a streaming run, in order of first
// appearance. The relative order within one run is a contract: agent_start,
// then node/detail pairs per stage, then tokens, then agent_end.
const (
	EventAgentStart = "agent_start"
	EventNode       = "node"
	EventPlanner    = "planner"
	EventToolCall   = "tool_call"
	EventFinal      = "final"
	EventToken      = "token"
	EventAgentEnd   = "agent_end"
	EventError      = "error"
)
