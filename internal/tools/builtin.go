package tools

import "context"

// PolicyKBSearch is the stand-in knowledge-base retrieval tool. It ignores
// the query and returns a fixed ranked list of policy snippets under
// top_chunks, the shape a real retrieval backend would produce.
const PolicyKBSearch = "mock_policy_kb_search"

func init() {
	MustRegister(PolicyKBSearch, func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return map[string]any{
			"top_chunks": []string{
				"Employees accrue 20 days PTO per year, with sick time up to 40 hours/year where applicable.",
				"Baby bonding leave and maternity leave are available; specific durations vary by policy.",
				"Requests should be submitted in advance; approvals depend on manager coverage needs.",
			},
		}, nil
	})
}
