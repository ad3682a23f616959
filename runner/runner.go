package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// ErrTooManyRuns is returned by Run when MaxConcurrentRuns runs are active.
var ErrTooManyRuns = errors.New("too many concurrent runs")

// Options holds configuration overrides passed to New().
type Options struct {
	// MaxConcurrentRuns limits simultaneous runs. Zero means unlimited.
	MaxConcurrentRuns int
	// EventBufferSize sets channel buffering for events.
	EventBufferSize int
	// Logger receives run lifecycle records.
	Logger logging.Logger
}

// Runner coordinates agent execution: it assigns run identifiers, creates
// cancellable run contexts and streams events. Public methods are safe for
// concurrent use.
type Runner struct {
	agent core.Agent

	maxConcurrentRuns int
	eventBufferSize   int
	logger            logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(agent core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentRuns: 10,
		EventBufferSize:   100,
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		agent:             agent,
		maxConcurrentRuns: opts.MaxConcurrentRuns,
		eventBufferSize:   opts.EventBufferSize,
		logger:            opts.Logger,
		activeRuns:        make(map[string]context.CancelFunc),
	}
}

// Run starts an asynchronous run of the agent on task.
//
// The events channel delivers step, plan and route events as they happen and
// ends with one answer or error event; it is closed when the run finishes.
// The errors channel carries the terminal error, if any, and is closed
// afterwards.
func (r *Runner) Run(ctx context.Context, task string) (string, <-chan core.Event, <-chan error, error) {
	runID := core.NewID()

	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.maxConcurrentRuns > 0 && len(r.activeRuns) >= r.maxConcurrentRuns {
		r.mu.Unlock()
		cancel()

		return "", nil, nil, fmt.Errorf("%w: limit is %d", ErrTooManyRuns, r.maxConcurrentRuns)
	}
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)

	ctx = core.WithRunID(ctx, runID)
	ctx = core.WithCallbacks(ctx, r.callbacks(ctx, eventsCh))

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()

			cancel()
			close(eventsCh)
			close(errorsCh)
		}()

		r.execute(ctx, runID, task, eventsCh, errorsCh)
	}()

	return runID, eventsCh, errorsCh, nil
}

func (r *Runner) execute(ctx context.Context, runID, task string, eventsCh chan<- core.Event, errorsCh chan<- error) {
	start := time.Now()

	r.logger.Info("runner.run.start", "run_id", runID, "agent", r.agent.Name())

	answer, err := r.agent.Run(ctx, task)
	if err != nil {
		err = fmt.Errorf("agent execution failed: %w", err)

		r.logger.Error("runner.run.error", "run_id", runID, "agent", r.agent.Name(),
			"duration_ms", time.Since(start).Milliseconds(), "error", err.Error())

		// A cancelled run may drop the error event but never the error.
		r.emit(ctx, eventsCh, core.NewErrorEvent(runID, r.agent.Name(), err))
		errorsCh <- err

		return
	}

	r.logger.Info("runner.run.success", "run_id", runID, "agent", r.agent.Name(),
		"duration_ms", time.Since(start).Milliseconds())

	r.emit(ctx, eventsCh, core.NewAnswerEvent(runID, r.agent.Name(), answer))
}

// callbacks converts the lifecycle callbacks of nested agents into events.
// Callbacks already carried by ctx keep firing ahead of the event mapping.
func (r *Runner) callbacks(ctx context.Context, eventsCh chan<- core.Event) *core.CallbackManager {
	runID := core.RunIDFromContext(ctx)

	cm := core.CallbacksFromContext(ctx).Child()
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackOnStep, func(ctx context.Context, cc *core.CallbackContext) error {
		return r.emit(ctx, eventsCh, core.NewStepEvent(runID, cc.Agent, *cc.Step))
	}))
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackOnPlan, func(ctx context.Context, cc *core.CallbackContext) error {
		return r.emit(ctx, eventsCh, core.NewPlanEvent(runID, cc.Agent, cc.Plan))
	}))
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackOnRoute, func(ctx context.Context, cc *core.CallbackContext) error {
		return r.emit(ctx, eventsCh, core.NewRouteEvent(runID, cc.Agent, *cc.Routing))
	}))

	return cm
}

// emit delivers ev unless the run's context is done first.
func (r *Runner) emit(ctx context.Context, eventsCh chan<- core.Event, ev core.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case eventsCh <- ev:
		r.logger.Debug("runner.event.delivered", "run_id", ev.RunID, "event_id", ev.ID, "kind", string(ev.Kind))
		return nil
	}
}

// RunSync runs the agent and blocks until it finishes. It returns the run
// identifier, every event delivered and the final answer.
func (r *Runner) RunSync(ctx context.Context, task string) (string, []core.Event, string, error) {
	runID, eventsCh, errorsCh, err := r.Run(ctx, task)
	if err != nil {
		return "", nil, "", err
	}

	var (
		events []core.Event
		answer string
	)

	for ev := range eventsCh {
		events = append(events, ev)
		if ev.Kind == core.EventAnswer {
			answer = ev.Content
		}
	}

	if err := <-errorsCh; err != nil {
		return runID, events, "", err
	}

	return runID, events, answer, nil
}

// Cancel cancels an active run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.RLock()
	cancel, exists := r.activeRuns[runID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// ActiveRuns returns the number of runs currently executing.
func (r *Runner) ActiveRuns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.activeRuns)
}
