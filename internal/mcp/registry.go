// Package mcp keeps the named tools and resources an agent exposes.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tlycode/multi-agent-system/internal/a2a"
)

var (
	// ErrToolNotFound is returned when invoking an unregistered tool.
	ErrToolNotFound = errors.New("tool not found")
	// ErrResourceNotFound is returned when accessing an unregistered resource.
	ErrResourceNotFound = errors.New("resource not found")
)

// Params are the named arguments passed to a handler.
type Params map[string]interface{}

// String returns the named string parameter or def.
func (p Params) String(name, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// Int returns the named integer parameter or def. JSON numbers decode as float64.
func (p Params) Int(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// Handler is the uniform invoke capability behind every tool and resource.
type Handler interface {
	Invoke(ctx context.Context, params Params) (interface{}, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, params Params) (interface{}, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, params Params) (interface{}, error) {
	return f(ctx, params)
}

type entry struct {
	handler     Handler
	description string
}

// Registry maps tool and resource names to handlers.
// Registration order is irrelevant; lookup is by exact name.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]entry
	resources map[string]entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:     make(map[string]entry),
		resources: make(map[string]entry),
	}
}

// RegisterTool adds or replaces a tool.
func (r *Registry) RegisterTool(name string, h Handler, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = entry{handler: h, description: description}
}

// RegisterResource adds or replaces a resource.
func (r *Registry) RegisterResource(name string, h Handler, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[name] = entry{handler: h, description: description}
}

// InvokeTool runs the named tool.
func (r *Registry) InvokeTool(ctx context.Context, name string, params Params) (interface{}, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tool %s: %w", name, ErrToolNotFound)
	}

	out, err := e.handler.Invoke(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("tool %s execution failed: %w", name, err)
	}
	return out, nil
}

// AccessResource reads the named resource.
func (r *Registry) AccessResource(ctx context.Context, name string, params Params) (interface{}, error) {
	r.mu.RLock()
	e, ok := r.resources[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", name, ErrResourceNotFound)
	}

	out, err := e.handler.Invoke(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("resource %s access failed: %w", name, err)
	}
	return out, nil
}

// Capabilities lists registered tools and resources sorted by name.
func (r *Registry) Capabilities() a2a.Capabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return a2a.Capabilities{
		Tools:     schemas("function", r.tools),
		Resources: schemas("resource", r.resources),
	}
}

func schemas(kind string, entries map[string]entry) []a2a.SchemaEntry {
	out := make([]a2a.SchemaEntry, 0, len(entries))
	for name, e := range entries {
		out = append(out, a2a.SchemaEntry{Type: kind, Name: name, Description: e.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
