package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/tracing"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// DefaultCallTimeout bounds a single agent call.
const DefaultCallTimeout = 30 * time.Second

// TaskProcessor sends one task to one agent.
type TaskProcessor interface {
	Process(ctx context.Context, card models.AgentCard, message string, taskTypes []string) (json.RawMessage, error)
}

// Dispatcher fans a subtask out to its matched agents and waits for all of them.
type Dispatcher struct {
	client  TaskProcessor
	timeout time.Duration
	logger  *logging.Logger
	emitter *EventEmitter
}

// NewDispatcher creates a Dispatcher. A non-positive timeout uses DefaultCallTimeout.
func NewDispatcher(client TaskProcessor, timeout time.Duration, logger *logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Dispatcher{
		client:  client,
		timeout: timeout,
		logger:  logger.With("dispatcher"),
	}
}

// Delegate calls every agent concurrently with text and the task types each
// one supports. It returns one outcome per agent in agent order, after all
// calls have finished. A failed call never cancels its siblings.
func (d *Dispatcher) Delegate(ctx context.Context, agents []models.AgentCard, text string, taskTypes []models.TaskType) []models.DelegationOutcome {
	outcomes := make([]models.DelegationOutcome, len(agents))

	var wg sync.WaitGroup
	for i, agent := range agents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = d.call(ctx, agent, text, taskTypes)
		}()
	}
	wg.Wait()

	return outcomes
}

func (d *Dispatcher) call(ctx context.Context, agent models.AgentCard, text string, taskTypes []models.TaskType) models.DelegationOutcome {
	start := time.Now()
	outcome := models.DelegationOutcome{Agent: agent.Name}

	allowed := agent.AllowedTaskTypes(taskTypes)
	if len(allowed) == 0 {
		outcome.Error = fmt.Sprintf("Agent %s does not support task type: %s",
			agent.Name, strings.Join(models.TaskTypeStrings(taskTypes), ", "))
		outcome.Kind = models.ErrorKindTaskTypeUnsupported
		d.logger.Debugf("%s", outcome.Error)
		return outcome
	}

	ctx, span := tracing.StartSpan(ctx, "delegate", "CLIENT")
	span.WithAttributes(map[string]string{
		"agent":     agent.Name,
		"task_type": strings.Join(models.TaskTypeStrings(allowed), ","),
	})
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.logger.Debugf("delegating to %s: %s", agent.Name, text)
	payload, err := d.client.Process(callCtx, agent, text, models.TaskTypeStrings(allowed))
	outcome.Duration = time.Since(start)
	span.SetStatus(err)

	switch {
	case err == nil:
		outcome.Success = true
		outcome.Payload = payload
		d.logger.Debugf("%s succeeded in %v", agent.Name, outcome.Duration)
	case errors.Is(err, a2a.ErrAgentFailure):
		outcome.Error = err.Error()
		outcome.Kind = models.ErrorKindWorkerError
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		outcome.Error = fmt.Sprintf("agent %s timed out after %v", agent.Name, d.timeout)
		outcome.Kind = models.ErrorKindWorkerUnreachable
	default:
		outcome.Error = err.Error()
		outcome.Kind = models.ErrorKindWorkerUnreachable
	}
	if !outcome.Success {
		d.logger.Warnf("delegation to %s failed: %s", agent.Name, outcome.Error)
	}

	d.emitter.Emit(OrchestratorEvent{
		Type:     EventDelegationDone,
		Agent:    agent.Name,
		Message:  outcome.Error,
		Duration: outcome.Duration,
	})
	return outcome
}

// Aggregate folds the outcomes of one subtask into a TaskResult. The task
// succeeds when at least one agent succeeded.
func Aggregate(subtask models.Subtask, agents []models.AgentCard, outcomes []models.DelegationOutcome) models.TaskResult {
	result := models.TaskResult{
		Subtask:       subtask,
		MatchedAgents: agents,
		AgentsUsed:    agentNames(agents),
		Outcomes:      outcomes,
	}

	if len(agents) == 0 {
		result.Message = MsgNoSuitableAgents
		result.Kind = models.ErrorKindNoMatchingWorker
		return result
	}

	if n := len(result.Successes()); n > 0 {
		result.Success = true
		result.Summary = fmt.Sprintf("Successfully processed by %d agent(s)", n)
		return result
	}

	result.Message = MsgAllAgentsFailed
	result.Summary = MsgAllAgentsFailed
	return result
}

func agentNames(agents []models.AgentCard) []string {
	if len(agents) == 0 {
		return nil
	}
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	return names
}
