// Package agentloop provides the Orchestrator, the top-level entry point that
// composes planners, supervisors and reasoning agents into one run.
//
// An Orchestrator is built in one of three modes, fixed at construction:
//  1. Plan-Execute: a planner produces an ordered plan and an executing agent
//     runs once per step, strictly in order. Step results are joined with a
//     separator. The first failing step aborts the run.
//  2. Delegate: a supervisor-wrapped agent receives the top-level task; its
//     single routing hop is the entire orchestration.
//  3. ReAct: a single executing agent runs the task directly.
//
// Most applications build agents with the agent package, register tools in a
// tool.Registry and workers in a core.Directory, and then call Run:
//
//	exec := agent.NewReActAgent("executor", m, tools)
//	orch := agentloop.NewPlanExecute(agent.NewPlanner("planner", m), exec)
//	answer, err := orch.Run(ctx, "What is 4 * (3 + 5)?")
//
// The runner package adds asynchronous execution with event streaming and
// cancellation on top of any core.Agent, including an Orchestrator.
package agentloop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/telemetry"
	"github.com/hupe1980/agentloop/logging"
)

// Mode selects the composition an Orchestrator runs.
type Mode string

const (
	// ModePlanExecute plans once and executes each step in order.
	ModePlanExecute Mode = "plan"
	// ModeDelegate hands the task to a supervisor-wrapped agent.
	ModeDelegate Mode = "delegate"
	// ModeReAct runs a single reasoning agent on the task.
	ModeReAct Mode = "react"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePlanExecute, ModeDelegate, ModeReAct:
		return m, nil
	case "":
		return ModePlanExecute, nil
	default:
		return "", fmt.Errorf("unknown orchestration mode %q", s)
	}
}

// Planner produces an ordered plan for a task. *agent.Planner implements it.
type Planner interface {
	Plan(ctx context.Context, task string) (core.Plan, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Name identifies the orchestrator as an agent. Defaults to "orchestrator".
	Name string
	// Description is advertised when the orchestrator is itself a worker.
	Description string
	// Separator joins step results in Plan-Execute mode. Defaults to "\n".
	Separator string
	// Logger receives run outcome records. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator runs one of the compositions described in the package
// documentation. It holds no per-run state and implements core.Agent, so it
// can be nested inside other compositions or driven by a runner.
type Orchestrator struct {
	mode        Mode
	name        string
	description string
	separator   string
	logger      logging.Logger

	planner  Planner
	executor core.Agent
	delegate core.Agent
}

// NewPlanExecute creates a Plan-Execute orchestrator.
func NewPlanExecute(planner Planner, executor core.Agent, optFns ...func(o *Options)) *Orchestrator {
	o := newOrchestrator(ModePlanExecute, optFns)
	o.planner = planner
	o.executor = executor

	return o
}

// NewDelegate creates an orchestrator that runs a supervisor-wrapped agent.
func NewDelegate(supervisor core.Agent, optFns ...func(o *Options)) *Orchestrator {
	o := newOrchestrator(ModeDelegate, optFns)
	o.delegate = supervisor

	return o
}

// NewReAct creates an orchestrator that runs executor directly.
func NewReAct(executor core.Agent, optFns ...func(o *Options)) *Orchestrator {
	o := newOrchestrator(ModeReAct, optFns)
	o.executor = executor

	return o
}

func newOrchestrator(mode Mode, optFns []func(o *Options)) *Orchestrator {
	opts := Options{
		Name:      "orchestrator",
		Separator: "\n",
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Description == "" {
		opts.Description = fmt.Sprintf("Orchestrator running in %s mode", mode)
	}

	return &Orchestrator{
		mode:        mode,
		name:        opts.Name,
		description: opts.Description,
		separator:   opts.Separator,
		logger:      opts.Logger,
	}
}

// Name implements core.Agent.
func (o *Orchestrator) Name() string { return o.name }

// Description implements core.Agent.
func (o *Orchestrator) Description() string { return o.description }

// Mode returns the composition selected at construction.
func (o *Orchestrator) Mode() Mode { return o.mode }

// Run executes the task and returns the final answer.
//
// A run identifier is attached to ctx unless one is already present, so
// callbacks and log records of every nested agent share it.
func (o *Orchestrator) Run(ctx context.Context, task string) (string, error) {
	runID := core.RunIDFromContext(ctx)
	if runID == "" {
		runID = core.NewID()
		ctx = core.WithRunID(ctx, runID)
	}

	ctx, span := telemetry.StartRun(ctx, string(o.mode), runID)
	start := time.Now()

	answer, steps, err := o.run(ctx, task)

	telemetry.End(span, err)
	o.logOutcome(runID, steps, time.Since(start), err)

	if err != nil {
		return "", err
	}

	return answer, nil
}

func (o *Orchestrator) run(ctx context.Context, task string) (string, int, error) {
	switch o.mode {
	case ModePlanExecute:
		return o.planExecute(ctx, task)
	case ModeDelegate:
		answer, err := o.delegate.Run(ctx, task)
		return answer, 1, err
	case ModeReAct:
		answer, err := o.executor.Run(ctx, task)
		return answer, 1, err
	default:
		return "", 0, fmt.Errorf("unknown orchestration mode %q", o.mode)
	}
}

func (o *Orchestrator) planExecute(ctx context.Context, task string) (string, int, error) {
	plan, err := o.planner.Plan(ctx, task)
	if err != nil {
		return "", 0, err
	}

	results := make([]string, 0, len(plan))

	for i, step := range plan {
		if err := ctx.Err(); err != nil {
			return "", i, &core.StepError{Index: i, Step: step, Err: err}
		}

		o.logger.Debug("orchestrator.step.start", "run_id", core.RunIDFromContext(ctx),
			"step", i+1, "of", len(plan), "task", step)

		result, err := o.executor.Run(ctx, step)
		if err != nil {
			return "", i, &core.StepError{Index: i, Step: step, Err: err}
		}

		results = append(results, result)
	}

	return strings.Join(results, o.separator), len(plan), nil
}

func (o *Orchestrator) logOutcome(runID string, steps int, dur time.Duration, err error) {
	if rl, ok := logging.ForRun(o.logger, runID).(logging.RunOutcomeLogger); ok {
		rl.LogRun(string(o.mode), steps, dur, err == nil, err)
		return
	}

	if err != nil {
		o.logger.Error("orchestrator.run.failed", "run_id", runID, "mode", string(o.mode),
			"steps", steps, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}

	o.logger.Info("orchestrator.run.completed", "run_id", runID, "mode", string(o.mode),
		"steps", steps, "duration_ms", dur.Milliseconds())
}
