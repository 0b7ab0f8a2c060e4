// Package a2a implements the agent-to-agent HTTP protocol: descriptor
// discovery, task processing and capability listing.
package a2a

import (
	"encoding/json"
	"errors"
	"time"
)

// Endpoint paths served by every agent.
const (
	PathAgentCard    = "/agent-card"
	PathProcess      = "/process"
	PathCapabilities = "/capabilities"
)

// maxBodySize limits request and response bodies (4MB).
const maxBodySize = 4 * 1024 * 1024

var (
	// ErrUnexpectedStatus is returned when an agent answers with a non-2xx status
	// and no failure envelope.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrAgentFailure is returned when an agent answers with success=false.
	ErrAgentFailure = errors.New("agent reported failure")
	// ErrInvalidRequest is returned by the server for malformed process requests.
	ErrInvalidRequest = errors.New("invalid request")
)

// ProcessRequest is the body of a task-execution call.
type ProcessRequest struct {
	Message   string   `json:"message" validate:"required"`
	TaskType  []string `json:"taskType" validate:"required,min=1,dive,required"`
	Timestamp string   `json:"timestamp"`
}

// NewProcessRequest builds a request stamped with the current time in ISO-8601.
func NewProcessRequest(message string, taskTypes []string) ProcessRequest {
	return ProcessRequest{
		Message:   message,
		TaskType:  taskTypes,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// ProcessResponse is the success or failure envelope returned by /process.
type ProcessResponse struct {
	Success   bool            `json:"success"`
	Agent     string          `json:"agent"`
	TaskType  []string        `json:"taskType,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// SchemaEntry describes one registered tool or resource.
type SchemaEntry struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Capabilities is the body returned by /capabilities.
type Capabilities struct {
	Tools     []SchemaEntry `json:"tools"`
	Resources []SchemaEntry `json:"resources"`
}
