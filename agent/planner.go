package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/decoder"
	"github.com/hupe1980/agentloop/internal/telemetry"
	"github.com/hupe1980/agentloop/internal/util"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
)

// PlannerOptions configures a Planner.
type PlannerOptions struct {
	Description string
	Logger      logging.Logger
}

// Planner asks the model once for an ordered list of steps.
type Planner struct {
	BaseAgent
	model model.Model
}

// NewPlanner creates a planner backed by m.
func NewPlanner(name string, m model.Model, optFns ...func(o *PlannerOptions)) *Planner {
	opts := PlannerOptions{
		Description: "Breaks a task into an ordered list of steps.",
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	p := &Planner{
		BaseAgent: NewBaseAgent(name),
		model:     m,
	}
	p.SetDescription(opts.Description)
	p.SetLogger(opts.Logger)

	return p
}

// Plan returns the steps for task in the order the model listed them.
func (p *Planner) Plan(ctx context.Context, task string) (core.Plan, error) {
	ctx, span := telemetry.StartAgent(ctx, "planner", p.Name())

	plan, err := p.plan(ctx, task)

	telemetry.End(span, err)

	if err != nil {
		p.logger.Error("planner.plan.error", "agent", p.Name(), "run_id", core.RunIDFromContext(ctx), "error", err.Error())
		p.fail(ctx, err)

		return nil, fmt.Errorf("planner %s: %w", p.Name(), err)
	}

	p.logger.Info("planner.plan", "agent", p.Name(), "run_id", core.RunIDFromContext(ctx), "steps", len(plan))

	return plan, nil
}

func (p *Planner) plan(ctx context.Context, task string) (core.Plan, error) {
	prompt, err := util.Execute(plannerPrompt, plannerPromptData{Task: task})
	if err != nil {
		return nil, fmt.Errorf("render planner prompt: %w", err)
	}

	raw, err := callModel(ctx, p.Name(), p.model, prompt)
	if err != nil {
		return nil, err
	}

	plan, err := decoder.DecodePlan(raw)
	if err != nil {
		return nil, err
	}

	if err := core.Fire(ctx, core.CallbackOnPlan, &core.CallbackContext{Agent: p.Name(), Plan: plan}); err != nil {
		return nil, err
	}

	return plan, nil
}

// Run implements core.Agent by returning the plan as a numbered list.
func (p *Planner) Run(ctx context.Context, task string) (string, error) {
	plan, err := p.Plan(ctx, task)
	if err != nil {
		return "", err
	}

	lines := make([]string, len(plan))
	for i, step := range plan {
		lines[i] = fmt.Sprintf("%d. %s", i+1, step)
	}

	return strings.Join(lines, "\n"), nil
}
