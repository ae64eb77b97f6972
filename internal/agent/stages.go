package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentdesk/orchestrator/internal/policy"
	"github.com/agentdesk/orchestrator/internal/tools"
)

// planText is the fixed plan the stub planner produces. A real planner
// would derive this from the user message via a model call.
const planText = "1) Identify the policy topic\n" +
	"2) Retrieve relevant policy sections\n" +
	"3) Summarize key rules in bullets\n" +
	"4) Highlight edge cases (carryover, eligibility, approvals)\n"

type plannerStage struct{}

func (plannerStage) Name() string { return NodePlanner }

func (plannerStage) Apply(ctx context.Context, st *RunState) error {
	st.Plan = planText
	st.appendEvent("planner", map[string]any{"plan": planText})
	return nil
}

type toolStage struct {
	toolName string
	registry *tools.Registry
	policy   *policy.Engine
}

func (t toolStage) Name() string { return NodeTool }

func (t toolStage) Apply(ctx context.Context, st *RunState) error {
	input := map[string]any{"query": st.UserMessage}

	if t.policy != nil {
		decision, err := t.policy.Evaluate(ctx, map[string]any{
			"tool_name": t.toolName,
			"input":     input,
		})
		if err != nil {
			return fmt.Errorf("policy evaluation: %w", err)
		}
		if decision != policy.DecisionAllow {
			return fmt.Errorf("tool %s blocked by policy", t.toolName)
		}
	}

	output, err := t.registry.Execute(ctx, t.toolName, input)
	if err != nil {
		return fmt.Errorf("tool %s: %w", t.toolName, err)
	}

	st.ToolName = t.toolName
	st.ToolInput = input
	st.ToolOutput = output
	st.appendEvent("tool", map[string]any{
		"tool_name": t.toolName,
		"input":     input,
		"output":    output,
	})
	return nil
}

type supervisorStage struct{}

func (supervisorStage) Name() string { return NodeSupervisor }

func (supervisorStage) Apply(ctx context.Context, st *RunState) error {
	chunks := st.TopChunks()

	bullets := make([]string, 0, len(chunks))
	for _, c := range chunks {
		bullets = append(bullets, "- "+c)
	}

	summary := "Here’s a structured summary of the leave policy (based on available policy excerpts):\n\n" +
		"Key rules:\n" +
		strings.Join(bullets, "\n") +
		"\n\n" +
		"If you tell me your location (state/country) and employee type, I can tailor the rules to your case."

	st.FinalAnswer = summary
	st.appendEvent("supervisor", map[string]any{"final_answer": summary})
	return nil
}
