package agent

import (
	"context"
	"fmt"

	"github.com/agentdesk/orchestrator/internal/policy"
	"github.com/agentdesk/orchestrator/internal/tools"
)

// Node names yielded by the pipeline, in execution order.
const (
	NodePlanner    = "planner"
	NodeTool       = "tool"
	NodeSupervisor = "supervisor"
)

// Stage is one pipeline step. Apply reads fields populated by earlier
// stages, writes its own slice of the state and appends one state event.
type Stage interface {
	Name() string
	Apply(ctx context.Context, st *RunState) error
}

// StreamFunc receives one (node, state) element per completed stage. The
// state pointer is only valid for the duration of the call; the pipeline
// keeps mutating it afterwards. Returning an error abandons the run.
type StreamFunc func(node string, st *RunState) error

// Pipeline is an ordered chain of stages. It is built once at startup and
// holds no per-run state, so one instance serves concurrent runs.
type Pipeline struct {
	stages []Stage
}

// New builds a pipeline over the given stages, executed in order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default builds the plan / tool-call / summarize chain backed by the
// given tool registry and dispatch policy.
func Default(registry *tools.Registry, engine *policy.Engine) *Pipeline {
	return New(
		plannerStage{},
		toolStage{toolName: tools.PolicyKBSearch, registry: registry, policy: engine},
		supervisorStage{},
	)
}

// Run executes every stage to completion and leaves the result in st.
func (p *Pipeline) Run(ctx context.Context, st *RunState) error {
	return p.Stream(ctx, st, nil)
}

// Stream executes the stages in order, invoking fn after each one
// completes. The sequence is forward-only and single-consumer: a stage
// failure aborts without a callback for that stage, and a callback error
// stops all remaining stages. fn may be nil.
func (p *Pipeline) Stream(ctx context.Context, st *RunState, fn StreamFunc) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stage.Apply(ctx, st); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if fn != nil {
			if err := fn(stage.Name(), st); err != nil {
				return err
			}
		}
	}
	return nil
}
