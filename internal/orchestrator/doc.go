// Package orchestrator routes a free-text request through the agent pipeline.
//
// A request is split into subtasks by the decomposer. Each subtask is matched
// against the registry of discovered agents and delegated to every match
// concurrently by the Dispatcher. Per-agent outcomes are aggregated into a
// TaskResult, and all task results are merged into one OrchestrationResult.
//
// Subtasks run sequentially in input order. Delegations within a subtask run
// in parallel, each bounded by the call timeout, and a failing agent never
// cancels its siblings.
//
// Example usage:
//
//	orch := orchestrator.New(orchestrator.RequiredConfig{
//		Client:    a2a.NewClient(&http.Client{}),
//		Addresses: []string{"http://localhost:3001", "http://localhost:3002"},
//	}, orchestrator.WithCallTimeout(30*time.Second))
//	if err := orch.Initialize(ctx); err != nil {
//		return err
//	}
//	result, err := orch.Process(ctx, "Search the web for AI news and pull customer contact for John Doe")
package orchestrator
