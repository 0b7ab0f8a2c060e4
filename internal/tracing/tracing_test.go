package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInit_WritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init("mas", "test", &buf)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	_, span := StartSpan(context.Background(), "process", "INTERNAL")
	span.WithAttributes(map[string]string{"k": "v"})
	EndSpan(span, nil)

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"process"`)) {
		t.Errorf("trace output missing span name: %s", buf.String())
	}
}

func TestSpans_ParentAndStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter("mas", "test", exporter)
	if err != nil {
		t.Fatalf("InitWithExporter() error = %v", err)
	}
	defer shutdown(context.Background())

	ctx, parent := StartSpan(context.Background(), "orchestrate", "INTERNAL")
	_, child := StartSpan(ctx, "delegate", "CLIENT")
	child.WithInt("attempt", 1)
	EndSpan(child, errors.New("boom"))
	parent.Fail("1 task failed")
	parent.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}

	c, p := spans[0], spans[1]
	if c.Name != "delegate" || p.Name != "orchestrate" {
		t.Fatalf("span names = %q, %q", c.Name, p.Name)
	}
	if c.Parent.SpanID() != p.SpanContext.SpanID() {
		t.Error("child span not parented to orchestrate span")
	}
	if c.Status.Code != codes.Error || c.Status.Description != "boom" {
		t.Errorf("child status = %+v", c.Status)
	}
	if len(c.Events) != 1 {
		t.Errorf("child events = %d, want 1 recorded error", len(c.Events))
	}
	if p.Status.Code != codes.Error {
		t.Errorf("parent status = %+v", p.Status)
	}
}

func TestNilSpan(t *testing.T) {
	var s *Span
	s.WithAttributes(map[string]string{"k": "v"}).WithInt("n", 1)
	s.SetStatus(errors.New("x"))
	s.Fail("x")
	s.End()
	EndSpan(s, nil)
}
