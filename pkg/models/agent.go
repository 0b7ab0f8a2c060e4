package models

import (
	"slices"
	"strings"
	"time"
)

// DefaultProtocols are the protocols every agent card advertises unless told otherwise.
var DefaultProtocols = []string{"A2A", "MCP"}

// AgentCard is the self-reported descriptor a worker agent serves for discovery.
// JSON field names follow the agent-card wire format.
type AgentCard struct {
	// Name is the unique identifier of the agent.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Description is a human-readable summary of what the agent does.
	Description string `json:"description" yaml:"description"`
	// Capabilities lists the advertised capability tags.
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
	// SupportedTasks lists the task types the agent accepts.
	SupportedTasks []string `json:"supportedTasks" yaml:"supportedTasks"`
	// Endpoint is the base URL the agent listens on.
	Endpoint string `json:"endpoint" yaml:"endpoint" validate:"required,url"`
	// Version is the protocol version the agent speaks.
	Version string `json:"version" yaml:"version"`
	// Protocols lists the protocols the agent supports.
	Protocols []string `json:"protocols,omitempty" yaml:"protocols,omitempty"`
	// CreatedAt is when the agent created its card.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	// DiscoveredAt is set by the registry when the card was fetched.
	DiscoveredAt time.Time `json:"-" yaml:"discoveredAt,omitempty"`
}

// NewAgentCard returns a card with the default version and protocols filled in.
func NewAgentCard(name, description, endpoint string, capabilities, supportedTasks []string) AgentCard {
	return AgentCard{
		Name:           name,
		Description:    description,
		Capabilities:   capabilities,
		SupportedTasks: supportedTasks,
		Endpoint:       endpoint,
		Version:        "1.0.0",
		Protocols:      slices.Clone(DefaultProtocols),
		CreatedAt:      time.Now().UTC(),
	}
}

// Supports reports whether the agent lists taskType among its supported tasks.
func (c AgentCard) Supports(taskType TaskType) bool {
	return slices.Contains(c.SupportedTasks, string(taskType))
}

// NameContains reports whether the agent name contains s, ignoring case.
func (c AgentCard) NameContains(s string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(s))
}

// AllowedTaskTypes returns the requested types the agent supports, in request order.
func (c AgentCard) AllowedTaskTypes(requested []TaskType) []TaskType {
	var allowed []TaskType
	for _, t := range requested {
		if c.Supports(t) {
			allowed = append(allowed, t)
		}
	}
	return allowed
}
