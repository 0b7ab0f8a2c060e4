// Package registry discovers worker agents and matches them to task types.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// DefaultDiscoveryConcurrency bounds concurrent descriptor requests.
const DefaultDiscoveryConcurrency = 8

// CardFetcher retrieves the agent card served at an address.
type CardFetcher interface {
	FetchCard(ctx context.Context, address string) (models.AgentCard, error)
}

// Registry holds the agents known to one orchestrator.
// It provides thread-safe storage; only Discover mutates it.
type Registry struct {
	fetcher     CardFetcher
	logger      *logging.Logger
	validate    *validator.Validate
	timeout     time.Duration
	concurrency int
	now         func() time.Time

	// agents maps agent names to their cards.
	agents map[string]models.AgentCard
	// mu protects agents.
	mu sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) { r.logger = l.With("registry") }
}

// WithDiscoveryTimeout bounds each descriptor request. Zero means no bound.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// WithDiscoveryConcurrency bounds concurrent descriptor requests.
func WithDiscoveryConcurrency(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithClock sets the time source used for DiscoveredAt (mainly for testing).
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates an empty Registry that discovers agents with fetcher.
func New(fetcher CardFetcher, opts ...Option) *Registry {
	r := &Registry{
		fetcher:     fetcher,
		validate:    validator.New(),
		concurrency: DefaultDiscoveryConcurrency,
		now:         time.Now,
		agents:      make(map[string]models.AgentCard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Discover requests the agent card at every address concurrently and waits
// for all of them. Unreachable addresses and invalid cards are logged and
// skipped. Discovered cards replace known cards with the same name. The
// returned cards are in address order.
func (r *Registry) Discover(ctx context.Context, addresses []string) []models.AgentCard {
	found := make([]*models.AgentCard, len(addresses))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, addr := range addresses {
		g.Go(func() error {
			card, err := r.fetch(ctx, addr)
			if err != nil {
				r.logger.Warnf("failed to discover agent at %s: %v", addr, err)
				return nil
			}
			found[i] = &card
			return nil
		})
	}
	_ = g.Wait()

	discovered := make([]models.AgentCard, 0, len(addresses))
	r.mu.Lock()
	for _, card := range found {
		if card == nil {
			continue
		}
		r.agents[card.Name] = *card
		discovered = append(discovered, *card)
	}
	r.mu.Unlock()

	names := make([]string, len(discovered))
	for i, c := range discovered {
		names[i] = c.Name
	}
	r.logger.Infof("discovered %d agent(s): %v", len(discovered), names)

	return discovered
}

func (r *Registry) fetch(ctx context.Context, addr string) (models.AgentCard, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	card, err := r.fetcher.FetchCard(ctx, addr)
	if err != nil {
		return card, err
	}
	if err := r.validate.Struct(card); err != nil {
		return card, fmt.Errorf("invalid agent card: %w", err)
	}
	card.DiscoveredAt = r.now()
	return card, nil
}

// All returns a snapshot of every known agent, sorted by name.
func (r *Registry) All() []models.AgentCard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]models.AgentCard, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents
}

// Get returns the agent with the given name.
func (r *Registry) Get(name string) (models.AgentCard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Count returns the number of known agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Match returns the agents able to handle taskType, sorted by name.
// Task types without a specific rule are broadcast to every known agent.
func (r *Registry) Match(taskType models.TaskType) []models.AgentCard {
	rule := ruleFor(taskType)

	var matched []models.AgentCard
	for _, a := range r.All() {
		if rule == nil || rule.matches(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// MatchAll returns the union of Match over taskTypes without duplicates,
// ordered by first match.
func (r *Registry) MatchAll(taskTypes []models.TaskType) []models.AgentCard {
	seen := make(map[string]bool)
	var matched []models.AgentCard
	for _, t := range taskTypes {
		for _, a := range r.Match(t) {
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			matched = append(matched, a)
		}
	}
	return matched
}
