package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tlycode/multi-agent-system/internal/decompose"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/registry"
	"github.com/tlycode/multi-agent-system/internal/tracing"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Orchestrator runs the request pipeline: decompose, match, delegate, merge.
// Subtasks are processed one after another; the agents of one subtask are
// called concurrently.
type Orchestrator struct {
	addresses  []string
	decomposer *decompose.Decomposer
	registry   *registry.Registry
	dispatcher *Dispatcher
	emitter    *EventEmitter
	logger     *logging.Logger
	newID      func() string
	now        func() time.Time
}

// New creates an Orchestrator. Call Initialize to discover agents.
func New(req RequiredConfig, opts ...Option) *Orchestrator {
	o := &orchestratorOptions{
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger.With("orchestrator")

	dec := o.decomposer
	if dec == nil {
		dec = decompose.New()
	}

	reg := o.registry
	if reg == nil && req.Client != nil {
		reg = registry.New(req.Client,
			registry.WithLogger(o.logger),
			registry.WithDiscoveryTimeout(o.discoveryTimeout),
			registry.WithDiscoveryConcurrency(o.discoveryConcurrency),
		)
	}

	var dispatcher *Dispatcher
	if req.Client != nil {
		dispatcher = NewDispatcher(req.Client, o.callTimeout, o.logger)
	}

	newID := o.newID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	now := o.now
	if now == nil {
		now = time.Now
	}

	var emitter *EventEmitter
	if o.eventBuffer > 0 {
		emitter = NewEventEmitter(o.eventBuffer, logger)
	}
	if dispatcher != nil {
		dispatcher.emitter = emitter
	}

	return &Orchestrator{
		addresses:  append([]string(nil), req.Addresses...),
		decomposer: dec,
		registry:   reg,
		dispatcher: dispatcher,
		emitter:    emitter,
		logger:     logger,
		newID:      newID,
		now:        now,
	}
}

// Initialize discovers the configured agents. The orchestrator stays usable
// when none answer; the returned error wraps ErrNoWorkersDiscovered.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	return o.Rediscover(ctx, o.addresses)
}

// Rediscover discovers agents at addresses and adds them to the registry.
func (o *Orchestrator) Rediscover(ctx context.Context, addresses []string) error {
	if o.registry == nil {
		return ErrRegistryUnusable
	}
	o.addresses = append([]string(nil), addresses...)

	o.logger.Infof("discovering agents at %v", addresses)
	found := o.registry.Discover(ctx, addresses)
	if len(found) == 0 {
		return fmt.Errorf("discover %d address(es): %w", len(addresses), ErrNoWorkersDiscovered)
	}
	return nil
}

// Agents returns the known agents sorted by name.
func (o *Orchestrator) Agents() []models.AgentCard {
	if o.registry == nil {
		return nil
	}
	return o.registry.All()
}

// Events returns a read-only channel of progress events. It is nil unless
// the orchestrator was built WithEventBuffer.
func (o *Orchestrator) Events() <-chan OrchestratorEvent {
	return o.emitter.Events()
}

// Close closes the events channel.
func (o *Orchestrator) Close() {
	o.emitter.Close()
}

// Process handles one user request. Task and agent failures are reported in
// the result; the error is non-nil only when the orchestrator is misconfigured.
func (o *Orchestrator) Process(ctx context.Context, userInput string) (*models.OrchestrationResult, error) {
	if o.registry == nil || o.dispatcher == nil {
		return nil, ErrRegistryUnusable
	}

	start := o.now()
	result := &models.OrchestrationResult{
		RequestID:   o.newID(),
		UserInput:   userInput,
		StartedAt:   start,
		AgentsUsed:  []string{},
		TaskResults: []models.TaskResult{},
		Results:     []models.ResultEntry{},
		Errors:      []models.ErrorEntry{},
	}

	ctx, span := tracing.StartSpan(ctx, "orchestrate", "INTERNAL")
	defer span.End()
	span.WithAttributes(map[string]string{"request_id": result.RequestID})

	o.logger.Infof("processing request %s: %s", result.RequestID, userInput)

	subtasks := o.decomposer.Decompose(userInput)
	result.TotalTasks = len(subtasks)
	result.TaskSummary = decompose.Summarize(subtasks)
	span.WithInt("tasks", len(subtasks))

	if len(subtasks) == 0 {
		result.Message = MsgNoValidTasks
		result.Errors = append(result.Errors, models.ErrorEntry{
			Task:  userInput,
			Error: MsgNoValidTasks,
			Kind:  models.ErrorKindNoTasks,
		})
		result.Duration = o.now().Sub(start)
		span.Fail(MsgNoValidTasks)
		o.logger.Warnf("request %s: %s", result.RequestID, MsgNoValidTasks)
		o.emitter.Emit(OrchestratorEvent{Type: EventRequestDone, RequestID: result.RequestID, Message: MsgNoValidTasks})
		return result, nil
	}

	o.emitter.Emit(OrchestratorEvent{
		Type:      EventRequestStarted,
		RequestID: result.RequestID,
		Message:   fmt.Sprintf("decomposed into %d task(s)", len(subtasks)),
	})

	for _, st := range subtasks {
		tr := o.processTask(ctx, result.RequestID, st)
		result.TaskResults = append(result.TaskResults, tr)
	}

	merge(result)
	result.Success = true
	result.Duration = o.now().Sub(start)
	if result.FailedTasks > 0 {
		span.Fail(fmt.Sprintf("%d task(s) failed", result.FailedTasks))
	}

	o.logger.Infof("request %s: %s", result.RequestID, result.Summary)
	o.emitter.Emit(OrchestratorEvent{
		Type:      EventRequestDone,
		RequestID: result.RequestID,
		Message:   result.Summary,
		Duration:  result.Duration,
	})
	return result, nil
}

func (o *Orchestrator) processTask(ctx context.Context, requestID string, st models.Subtask) models.TaskResult {
	ctx, span := tracing.StartSpan(ctx, "task", "INTERNAL")
	defer span.End()
	span.WithAttributes(map[string]string{
		"task":      st.OriginalText,
		"task_type": strings.Join(models.TaskTypeStrings(st.TaskTypes), ","),
		"priority":  string(st.Priority),
	})

	started := time.Now()
	o.emitter.Emit(OrchestratorEvent{
		Type:      EventTaskStarted,
		RequestID: requestID,
		TaskIndex: st.Index,
		TaskText:  st.OriginalText,
	})

	agents := o.registry.MatchAll(st.TaskTypes)
	var outcomes []models.DelegationOutcome
	if len(agents) == 0 {
		o.logger.Warnf("no agents match task %d %q (types %v)", st.Index, st.OriginalText, st.TaskTypes)
	} else {
		o.logger.Debugf("task %d matched %v", st.Index, agentNames(agents))
		outcomes = o.dispatcher.Delegate(ctx, agents, st.OriginalText, st.TaskTypes)
	}

	tr := Aggregate(st, agents, outcomes)

	event := OrchestratorEvent{
		Type:      EventTaskCompleted,
		RequestID: requestID,
		TaskIndex: st.Index,
		TaskText:  st.OriginalText,
		Message:   tr.Summary,
		Duration:  time.Since(started),
	}
	if !tr.Success {
		event.Type = EventTaskFailed
		event.Message = tr.Message
		span.Fail(tr.Message)
	}
	o.emitter.Emit(event)
	return tr
}

// merge flattens task results into the cross-task view and fills in counts.
func merge(result *models.OrchestrationResult) {
	seen := make(map[string]bool)
	for _, tr := range result.TaskResults {
		if tr.Success {
			result.SuccessfulTasks++
		} else {
			result.FailedTasks++
		}

		for _, name := range tr.AgentsUsed {
			if !seen[name] {
				seen[name] = true
				result.AgentsUsed = append(result.AgentsUsed, name)
			}
		}

		text := tr.Subtask.OriginalText
		for _, oc := range tr.Outcomes {
			if oc.Success {
				result.Results = append(result.Results, models.ResultEntry{Task: text, Agent: oc.Agent, Result: oc.Payload})
			} else {
				result.Errors = append(result.Errors, models.ErrorEntry{Task: text, Agent: oc.Agent, Error: oc.Error, Kind: oc.Kind})
			}
		}
		if len(tr.Outcomes) == 0 && !tr.Success {
			result.Errors = append(result.Errors, models.ErrorEntry{Task: text, Error: tr.Message, Kind: tr.Kind})
		}
	}

	result.Summary = fmt.Sprintf("Processed %d task(s): %d successful, %d failed",
		result.TotalTasks, result.SuccessfulTasks, result.FailedTasks)
}
