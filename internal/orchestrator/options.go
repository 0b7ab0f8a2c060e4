package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tlycode/multi-agent-system/internal/decompose"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/registry"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// AgentClient is the transport the orchestrator uses to discover and call agents.
type AgentClient interface {
	FetchCard(ctx context.Context, address string) (models.AgentCard, error)
	Process(ctx context.Context, card models.AgentCard, message string, taskTypes []string) (json.RawMessage, error)
}

// RequiredConfig contains the minimal required configuration for an Orchestrator.
type RequiredConfig struct {
	// Client talks to the agents.
	Client AgentClient
	// Addresses are the agent base URLs discovered by Initialize.
	Addresses []string
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	callTimeout          time.Duration
	discoveryTimeout     time.Duration
	discoveryConcurrency int
	eventBuffer          int
	logger               *logging.Logger

	// Injectable dependencies for testing
	decomposer *decompose.Decomposer
	registry   *registry.Registry
	newID      func() string
	now        func() time.Time
}

// WithCallTimeout bounds each agent call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.callTimeout = d }
}

// WithDiscoveryTimeout bounds each agent card request.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.discoveryTimeout = d }
}

// WithDiscoveryConcurrency bounds concurrent agent card requests.
func WithDiscoveryConcurrency(n int) Option {
	return func(o *orchestratorOptions) { o.discoveryConcurrency = n }
}

// WithEventBuffer enables progress events with a channel of capacity n.
// Events are off by default.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithDecomposer sets a custom task decomposer.
func WithDecomposer(d *decompose.Decomposer) Option {
	return func(o *orchestratorOptions) { o.decomposer = d }
}

// WithRegistry sets a prepared registry (mainly for testing).
func WithRegistry(r *registry.Registry) Option {
	return func(o *orchestratorOptions) { o.registry = r }
}

// WithIDGenerator sets the request ID source (mainly for testing).
func WithIDGenerator(f func() string) Option {
	return func(o *orchestratorOptions) { o.newID = f }
}

// WithClock sets the time source (mainly for testing).
func WithClock(now func() time.Time) Option {
	return func(o *orchestratorOptions) { o.now = now }
}
