package domain

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one the API accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// StepType tags a trace step with the run milestone it records.
type StepType string

const (
	StepAgentStart  StepType = "agent_start"
	StepNode        StepType = "node"
	StepPlanner     StepType = "planner"
	StepToolCall    StepType = "tool_call"
	StepFinal       StepType = "final"
	StepStreamChunk StepType = "stream_chunk"
	StepAgentEnd    StepType = "agent_end"
	StepAgentError  StepType = "agent_error"
)
