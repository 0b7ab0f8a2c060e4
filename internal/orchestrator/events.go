package orchestrator

import (
	"time"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventRequestStarted indicates a request has been decomposed.
	EventRequestStarted EventType = "request_started"
	// EventTaskStarted indicates a subtask is being delegated.
	EventTaskStarted EventType = "task_started"
	// EventDelegationDone indicates one agent call returned.
	EventDelegationDone EventType = "delegation_done"
	// EventTaskCompleted indicates a subtask succeeded.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a subtask failed.
	EventTaskFailed EventType = "task_failed"
	// EventRequestDone indicates the merged result is ready.
	EventRequestDone EventType = "request_done"
)

// OrchestratorEvent represents an event emitted by the orchestrator.
// These events are used to update the TUI and track progress.
type OrchestratorEvent struct {
	// Type is the kind of event.
	Type EventType
	// RequestID is the ID of the request being processed.
	RequestID string
	// TaskIndex is the position of the subtask, if applicable.
	TaskIndex int
	// TaskText is the subtask text, if applicable.
	TaskText string
	// Agent is the name of the related agent, if applicable.
	Agent string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Duration is the elapsed time of the finished step.
	Duration time.Duration
}
