package models

import (
	"encoding/json"
	"time"
)

// ErrorKind classifies a failure recorded in a result.
type ErrorKind string

const (
	// ErrorKindNoTasks means the input decomposed into zero subtasks.
	ErrorKindNoTasks ErrorKind = "no_tasks"
	// ErrorKindNoMatchingWorker means no known agent matched a subtask.
	ErrorKindNoMatchingWorker ErrorKind = "no_matching_worker"
	// ErrorKindWorkerUnreachable means the call failed at the transport layer or timed out.
	ErrorKindWorkerUnreachable ErrorKind = "worker_unreachable"
	// ErrorKindTaskTypeUnsupported means the agent was rejected locally before any call.
	ErrorKindTaskTypeUnsupported ErrorKind = "task_type_unsupported"
	// ErrorKindWorkerError means the agent answered with a failure envelope.
	ErrorKindWorkerError ErrorKind = "worker_error"
)

// DelegationOutcome is the result of one delegated call to one agent.
type DelegationOutcome struct {
	// Agent is the name of the agent called.
	Agent string `json:"agent" yaml:"agent"`
	// Success reports whether the agent produced a result.
	Success bool `json:"success" yaml:"success"`
	// Payload is the opaque result, present iff Success.
	Payload json.RawMessage `json:"result,omitempty" yaml:"result,omitempty"`
	// Error is the failure text, present iff not Success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Kind classifies the failure, present iff not Success.
	Kind ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Duration is how long the call took.
	Duration time.Duration `json:"durationNs" yaml:"duration"`
}

// TaskResult aggregates the outcomes of delegating one subtask.
type TaskResult struct {
	Subtask Subtask `json:"subtask" yaml:"subtask"`
	// Success is false when no agent matched or every delegation failed.
	Success bool `json:"success" yaml:"success"`
	// MatchedAgents are the agents selected for the subtask, in match order.
	MatchedAgents []AgentCard `json:"-" yaml:"-"`
	// AgentsUsed are the names of MatchedAgents.
	AgentsUsed []string `json:"agentsUsed,omitempty" yaml:"agentsUsed,omitempty"`
	// Outcomes holds one entry per matched agent, in match order.
	Outcomes []DelegationOutcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	// Summary is a one-line description of the aggregate.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	// Message explains a task-level failure.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Kind classifies a task-level failure.
	Kind ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Successes returns the successful outcomes in delegation order.
func (r TaskResult) Successes() []DelegationOutcome {
	var out []DelegationOutcome
	for _, o := range r.Outcomes {
		if o.Success {
			out = append(out, o)
		}
	}
	return out
}

// Failures returns the failed outcomes in delegation order.
func (r TaskResult) Failures() []DelegationOutcome {
	var out []DelegationOutcome
	for _, o := range r.Outcomes {
		if !o.Success {
			out = append(out, o)
		}
	}
	return out
}

// ResultEntry is one successful outcome in the flattened cross-task view.
type ResultEntry struct {
	Task   string          `json:"task" yaml:"task"`
	Agent  string          `json:"agent" yaml:"agent"`
	Result json.RawMessage `json:"result" yaml:"result"`
}

// ErrorEntry is one failure in the flattened cross-task view.
// Agent is empty for task-level failures.
type ErrorEntry struct {
	Task  string    `json:"task" yaml:"task"`
	Agent string    `json:"agent,omitempty" yaml:"agent,omitempty"`
	Error string    `json:"error" yaml:"error"`
	Kind  ErrorKind `json:"kind" yaml:"kind"`
}

// OrchestrationResult is the merged response to one user request.
type OrchestrationResult struct {
	RequestID string `json:"requestId" yaml:"requestId"`
	UserInput string `json:"userInput" yaml:"userInput"`
	// Success is true when the pipeline ran to completion, even with failed tasks.
	Success bool `json:"success" yaml:"success"`
	// Message is set when Success is false.
	Message         string        `json:"message,omitempty" yaml:"message,omitempty"`
	TotalTasks      int           `json:"totalTasks" yaml:"totalTasks"`
	SuccessfulTasks int           `json:"successfulTasks" yaml:"successfulTasks"`
	FailedTasks     int           `json:"failedTasks" yaml:"failedTasks"`
	TaskSummary     TaskSummary   `json:"taskSummary" yaml:"taskSummary"`
	AgentsUsed      []string      `json:"agentsUsed" yaml:"agentsUsed"`
	TaskResults     []TaskResult  `json:"taskResults" yaml:"taskResults"`
	Results         []ResultEntry `json:"results" yaml:"results"`
	Errors          []ErrorEntry  `json:"errors" yaml:"errors"`
	Summary         string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	StartedAt       time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration        time.Duration `json:"durationNs" yaml:"duration"`
}

// MarshalYAML renders the payload as a YAML document rather than raw bytes.
func (o DelegationOutcome) MarshalYAML() (interface{}, error) {
	type plain struct {
		Agent    string        `yaml:"agent"`
		Success  bool          `yaml:"success"`
		Payload  interface{}   `yaml:"result,omitempty"`
		Error    string        `yaml:"error,omitempty"`
		Kind     ErrorKind     `yaml:"kind,omitempty"`
		Duration time.Duration `yaml:"duration"`
	}
	payload, err := decodePayload(o.Payload)
	if err != nil {
		return nil, err
	}
	return plain{o.Agent, o.Success, payload, o.Error, o.Kind, o.Duration}, nil
}

// MarshalYAML renders the payload as a YAML document rather than raw bytes.
func (e ResultEntry) MarshalYAML() (interface{}, error) {
	type plain struct {
		Task   string      `yaml:"task"`
		Agent  string      `yaml:"agent"`
		Result interface{} `yaml:"result"`
	}
	payload, err := decodePayload(e.Result)
	if err != nil {
		return nil, err
	}
	return plain{e.Task, e.Agent, payload}, nil
}

func decodePayload(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
