// Package workers contains the mock specialist agents served by start-agents.
package workers

import (
	"fmt"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Default ports of the bundled agents.
const (
	DefaultWebPort = 3001
	DefaultCRMPort = 3002
)

// Agent is a mock worker: an agent card plus the processor behind it.
type Agent interface {
	a2a.Processor
	a2a.CapabilityLister
	Card() models.AgentCard
}

// firstHandled returns the first requested type present in handled, or "".
func firstHandled(requested []models.TaskType, handled ...models.TaskType) models.TaskType {
	for _, r := range requested {
		for _, h := range handled {
			if r == h {
				return r
			}
		}
	}
	return ""
}

// Endpoint builds the base URL for host and port.
func Endpoint(host string, port int) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// NewServer wraps an agent in an a2a server listening on addr.
func NewServer(addr string, agent Agent, logger *logging.Logger) *a2a.Server {
	return a2a.NewServer(addr, agent.Card(), agent, agent, logger)
}
