package mcp

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_InvokeTool(t *testing.T) {
	r := NewRegistry()
	r.RegisterTool("double", HandlerFunc(func(ctx context.Context, p Params) (interface{}, error) {
		return p.Int("n", 0) * 2, nil
	}), "Doubles n")

	out, err := r.InvokeTool(context.Background(), "double", Params{"n": float64(21)})
	if err != nil {
		t.Fatalf("InvokeTool: %v", err)
	}
	if out != 42 {
		t.Errorf("InvokeTool = %v, want 42", out)
	}
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry()

	if _, err := r.InvokeTool(context.Background(), "missing", nil); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
	if _, err := r.AccessResource(context.Background(), "missing", nil); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestRegistry_HandlerErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.RegisterResource("db", HandlerFunc(func(ctx context.Context, p Params) (interface{}, error) {
		return nil, boom
	}), "")

	_, err := r.AccessResource(context.Background(), "db", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if err.Error() != "resource db access failed: boom" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestRegistry_ReplaceAndCapabilities(t *testing.T) {
	r := NewRegistry()
	noop := HandlerFunc(func(ctx context.Context, p Params) (interface{}, error) { return nil, nil })

	r.RegisterTool("zeta", noop, "last")
	r.RegisterTool("alpha", noop, "first")
	r.RegisterTool("alpha", noop, "replaced")
	r.RegisterResource("history", noop, "Search history")

	caps := r.Capabilities()
	if len(caps.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(caps.Tools))
	}
	if caps.Tools[0].Name != "alpha" || caps.Tools[0].Description != "replaced" {
		t.Errorf("Tools[0] = %+v", caps.Tools[0])
	}
	if caps.Tools[0].Type != "function" {
		t.Errorf("tool type = %q, want function", caps.Tools[0].Type)
	}
	if len(caps.Resources) != 1 || caps.Resources[0].Type != "resource" {
		t.Errorf("Resources = %+v", caps.Resources)
	}
}

func TestParams(t *testing.T) {
	p := Params{"s": "x", "i": 3, "f": float64(4), "bad": true}

	if p.String("s", "d") != "x" || p.String("missing", "d") != "d" {
		t.Error("String defaults wrong")
	}
	if p.Int("i", 0) != 3 || p.Int("f", 0) != 4 || p.Int("bad", 7) != 7 {
		t.Error("Int conversions wrong")
	}
}
