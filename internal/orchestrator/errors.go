package orchestrator

import "errors"

var (
	// ErrRegistryUnusable is returned by Process when the orchestrator was
	// built without a registry or dispatcher.
	ErrRegistryUnusable = errors.New("orchestrator has no usable registry")
	// ErrNoWorkersDiscovered is returned by Initialize when no configured
	// address answered.
	ErrNoWorkersDiscovered = errors.New("no agents discovered")
)

// Messages recorded on failed results.
const (
	MsgNoValidTasks     = "No valid tasks found in the input"
	MsgNoSuitableAgents = "No suitable agents found for this task"
	MsgAllAgentsFailed  = "All agents failed to process the request"
)
