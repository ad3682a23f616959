package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/decoder"
	"github.com/hupe1980/agentloop/internal/telemetry"
	"github.com/hupe1980/agentloop/internal/util"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
)

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	Description string
	Logger      logging.Logger
}

// Supervisor routes a task to one worker from its directory.
//
// It asks the model once for a RoutingDecision, resolves the worker and
// delegates the decision's sub-task to it. The worker's result is returned
// unchanged. There is no re-routing and no fallback worker: an unknown
// worker fails with *core.WorkerNotFoundError and a worker failure fails
// the run.
type Supervisor struct {
	BaseAgent
	model   model.Model
	workers *core.Directory
}

// NewSupervisor creates a supervisor over the given worker directory.
func NewSupervisor(name string, m model.Model, workers *core.Directory, optFns ...func(o *SupervisorOptions)) *Supervisor {
	opts := SupervisorOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if workers == nil {
		workers, _ = core.NewDirectory()
	}

	s := &Supervisor{
		BaseAgent: NewBaseAgent(name),
		model:     m,
		workers:   workers,
	}
	s.SetDescription(opts.Description)
	s.SetLogger(opts.Logger)

	return s
}

// Workers returns the supervisor's worker directory.
func (s *Supervisor) Workers() *core.Directory { return s.workers }

// Route asks the model for a routing decision and resolves the worker.
func (s *Supervisor) Route(ctx context.Context, task string) (core.RoutingDecision, core.Agent, error) {
	prompt, err := util.Execute(supervisorPrompt, supervisorPromptData{
		Workers: s.workers.Descriptors(),
		Task:    task,
	})
	if err != nil {
		return core.RoutingDecision{}, nil, fmt.Errorf("render supervisor prompt: %w", err)
	}

	raw, err := callModel(ctx, s.Name(), s.model, prompt)
	if err != nil {
		return core.RoutingDecision{}, nil, err
	}

	decision, err := decoder.DecodeRouting(raw)
	if err != nil {
		return core.RoutingDecision{}, nil, err
	}

	worker, ok := s.workers.Lookup(decision.Worker)
	if !ok {
		return decision, nil, &core.WorkerNotFoundError{Worker: decision.Worker}
	}

	return decision, worker, nil
}

// Run implements core.Agent.
func (s *Supervisor) Run(ctx context.Context, task string) (string, error) {
	ctx, span := telemetry.StartAgent(ctx, "supervisor", s.Name())

	result, err := s.run(ctx, task)

	telemetry.End(span, err)

	if err != nil {
		s.logger.Error("supervisor.run.error", "agent", s.Name(), "run_id", core.RunIDFromContext(ctx), "error", err.Error())
		s.fail(ctx, err)

		return "", fmt.Errorf("supervisor %s: %w", s.Name(), err)
	}

	return result, nil
}

func (s *Supervisor) run(ctx context.Context, task string) (string, error) {
	decision, worker, err := s.Route(ctx, task)
	if err != nil {
		return "", err
	}

	s.logger.Info("supervisor.route", "agent", s.Name(), "run_id", core.RunIDFromContext(ctx),
		"worker", decision.Worker, "task", decision.Task)

	if err := core.Fire(ctx, core.CallbackOnRoute, &core.CallbackContext{Agent: s.Name(), Routing: &decision}); err != nil {
		return "", err
	}

	result, err := worker.Run(ctx, decision.Task)
	if err != nil {
		return "", fmt.Errorf("worker %s: %w", decision.Worker, err)
	}

	return result, nil
}
