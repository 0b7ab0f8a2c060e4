package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// fakeClient serves fixed cards and answers Process through a callback.
type fakeClient struct {
	cards   map[string]models.AgentCard
	process func(ctx context.Context, card models.AgentCard, message string, taskTypes []string) (json.RawMessage, error)

	mu    sync.Mutex
	calls []string
	count atomic.Int32
}

func (f *fakeClient) FetchCard(ctx context.Context, address string) (models.AgentCard, error) {
	card, ok := f.cards[address]
	if !ok {
		return models.AgentCard{}, errors.New("connection refused")
	}
	return card, nil
}

func (f *fakeClient) Process(ctx context.Context, card models.AgentCard, message string, taskTypes []string) (json.RawMessage, error) {
	f.count.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, card.Name+":"+strings.Join(taskTypes, ","))
	f.mu.Unlock()
	if f.process == nil {
		return json.RawMessage(`{"summary":"ok from ` + card.Name + `"}`), nil
	}
	return f.process(ctx, card, message, taskTypes)
}

func card(name string, supported ...string) models.AgentCard {
	return models.NewAgentCard(name, "", "http://"+strings.ToLower(name)+".test", nil, supported)
}

func TestDelegate_PreservesOrder(t *testing.T) {
	client := &fakeClient{process: func(ctx context.Context, c models.AgentCard, _ string, _ []string) (json.RawMessage, error) {
		if c.Name == "First" {
			time.Sleep(30 * time.Millisecond)
		}
		return json.RawMessage(`"` + c.Name + `"`), nil
	}}
	d := NewDispatcher(client, time.Second, nil)

	agents := []models.AgentCard{card("First", "web_research"), card("Second", "web_research")}
	outcomes := d.Delegate(context.Background(), agents, "find news", []models.TaskType{models.TaskTypeWebResearch})

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for i, want := range []string{"First", "Second"} {
		if outcomes[i].Agent != want || !outcomes[i].Success {
			t.Errorf("outcomes[%d] = %+v, want success from %s", i, outcomes[i], want)
		}
		if string(outcomes[i].Payload) != `"`+want+`"` {
			t.Errorf("outcomes[%d].Payload = %s", i, outcomes[i].Payload)
		}
	}
}

func TestDelegate_SendsOnlySupportedTypes(t *testing.T) {
	client := &fakeClient{}
	d := NewDispatcher(client, time.Second, nil)

	agents := []models.AgentCard{card("Web", "web_research")}
	d.Delegate(context.Background(), agents, "x", []models.TaskType{models.TaskTypeWebResearch, models.TaskTypeCRMResearch})

	if len(client.calls) != 1 || client.calls[0] != "Web:web_research" {
		t.Errorf("calls = %v, want [Web:web_research]", client.calls)
	}
}

func TestDelegate_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name      string
		agent     models.AgentCard
		process   func(ctx context.Context) (json.RawMessage, error)
		timeout   time.Duration
		wantKind  models.ErrorKind
		wantError string
		wantCalls int32
	}{
		{
			name:      "unsupported type rejected locally",
			agent:     card("Other", "crm_research"),
			wantKind:  models.ErrorKindTaskTypeUnsupported,
			wantError: "does not support task type: web_research",
		},
		{
			name:  "failure envelope",
			agent: card("Web", "web_research"),
			process: func(context.Context) (json.RawMessage, error) {
				return nil, fmt.Errorf("agent Web: %w: quota exceeded", a2a.ErrAgentFailure)
			},
			wantKind:  models.ErrorKindWorkerError,
			wantError: "quota exceeded",
			wantCalls: 1,
		},
		{
			name:  "transport error",
			agent: card("Web", "web_research"),
			process: func(context.Context) (json.RawMessage, error) {
				return nil, errors.New("communicate with agent Web: connection refused")
			},
			wantKind:  models.ErrorKindWorkerUnreachable,
			wantError: "connection refused",
			wantCalls: 1,
		},
		{
			name:  "timeout",
			agent: card("Web", "web_research"),
			process: func(ctx context.Context) (json.RawMessage, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			timeout:   20 * time.Millisecond,
			wantKind:  models.ErrorKindWorkerUnreachable,
			wantError: "timed out after 20ms",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			if tt.process != nil {
				client.process = func(ctx context.Context, _ models.AgentCard, _ string, _ []string) (json.RawMessage, error) {
					return tt.process(ctx)
				}
			}
			d := NewDispatcher(client, tt.timeout, nil)

			outcomes := d.Delegate(context.Background(), []models.AgentCard{tt.agent}, "task", []models.TaskType{models.TaskTypeWebResearch})

			got := outcomes[0]
			if got.Success {
				t.Fatal("expected failure")
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if !strings.Contains(got.Error, tt.wantError) {
				t.Errorf("Error = %q, want it to contain %q", got.Error, tt.wantError)
			}
			if got.Payload != nil {
				t.Errorf("Payload = %s, want nil", got.Payload)
			}
			if client.count.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", client.count.Load(), tt.wantCalls)
			}
		})
	}
}

func TestDelegate_FailureDoesNotCancelSiblings(t *testing.T) {
	client := &fakeClient{process: func(ctx context.Context, c models.AgentCard, _ string, _ []string) (json.RawMessage, error) {
		if c.Name == "Broken" {
			return nil, errors.New("boom")
		}
		select {
		case <-time.After(30 * time.Millisecond):
			return json.RawMessage(`{}`), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
	d := NewDispatcher(client, time.Second, nil)

	agents := []models.AgentCard{card("Broken", "web_research"), card("Slow", "web_research")}
	outcomes := d.Delegate(context.Background(), agents, "x", []models.TaskType{models.TaskTypeWebResearch})

	if outcomes[0].Success || !outcomes[1].Success {
		t.Errorf("outcomes = %+v", outcomes)
	}
}

func TestAggregate(t *testing.T) {
	st := models.Subtask{OriginalText: "find news.", TaskTypes: []models.TaskType{models.TaskTypeWebResearch}}
	agents := []models.AgentCard{card("A", "web_research"), card("B", "web_research")}
	ok := models.DelegationOutcome{Agent: "A", Success: true, Payload: json.RawMessage(`{}`)}
	bad := models.DelegationOutcome{Agent: "B", Error: "boom", Kind: models.ErrorKindWorkerUnreachable}

	tests := []struct {
		name        string
		agents      []models.AgentCard
		outcomes    []models.DelegationOutcome
		wantSuccess bool
		wantSummary string
		wantMessage string
		wantKind    models.ErrorKind
	}{
		{"one success one failure", agents, []models.DelegationOutcome{ok, bad}, true, "Successfully processed by 1 agent(s)", "", ""},
		{"all failed", agents[1:], []models.DelegationOutcome{bad}, false, MsgAllAgentsFailed, MsgAllAgentsFailed, ""},
		{"no agents", nil, nil, false, "", MsgNoSuitableAgents, models.ErrorKindNoMatchingWorker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(st, tt.agents, tt.outcomes)
			if got.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", got.Success, tt.wantSuccess)
			}
			if got.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.wantSummary)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
		})
	}
}
