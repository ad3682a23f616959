package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/decoder"
	"github.com/hupe1980/agentloop/internal/telemetry"
	"github.com/hupe1980/agentloop/internal/util"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
)

// DefaultMaxIterations bounds a reasoning loop unless overridden.
const DefaultMaxIterations = 25

// ToolErrorPolicy decides what happens when a tool call fails.
type ToolErrorPolicy int

const (
	// ToolErrorsAbort fails the run with a *core.ToolExecutionError.
	ToolErrorsAbort ToolErrorPolicy = iota
	// ToolErrorsObserve records "Error: <message>" as the observation and
	// lets the model react to it.
	ToolErrorsObserve
)

// String returns the configuration name of the policy.
func (p ToolErrorPolicy) String() string {
	switch p {
	case ToolErrorsObserve:
		return "observe"
	default:
		return "abort"
	}
}

// ParseToolErrorPolicy converts "abort" or "observe" into a policy.
func ParseToolErrorPolicy(s string) (ToolErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return ToolErrorsAbort, nil
	case "observe":
		return ToolErrorsObserve, nil
	default:
		return ToolErrorsAbort, fmt.Errorf("unknown tool error policy %q", s)
	}
}

// ReActOptions configures a ReActAgent.
type ReActOptions struct {
	Description string
	// Instruction opens the initial prompt. Defaults to a generic assistant role.
	Instruction Instruction
	// MaxIterations caps model calls per run. Zero disables the ceiling.
	MaxIterations int
	// ToolErrorPolicy selects abort (default) or observe.
	ToolErrorPolicy ToolErrorPolicy
	// ToolTimeout bounds each tool call. Zero means only the run context applies.
	ToolTimeout time.Duration
	Logger      logging.Logger
}

// ReActAgent runs the Think-Act-Observe loop.
//
// Each iteration sends the prompt to the model, decodes a Decision, and
// either finishes with the Finish action's args verbatim or invokes the named
// tool and appends (Thought, Action, Observation) to the run's transcript.
// The prompt of iteration N+1 is the initial prompt followed by all N prior
// transcript entries in order.
//
// Fatal conditions, each surfaced through the returned error:
//   - model failure (*core.TransportError)
//   - undecodable response (*core.ParseError), no tool is invoked
//   - unknown tool (*core.ToolNotFoundError)
//   - tool failure under ToolErrorsAbort (*core.ToolExecutionError)
//   - iteration ceiling reached (*core.MaxIterationsError)
//   - context cancellation
//
// A ReActAgent holds no per-run state and is safe for concurrent runs.
type ReActAgent struct {
	BaseAgent
	model         model.Model
	tools         *tool.Registry
	instruction   Instruction
	maxIterations int
	toolErrors    ToolErrorPolicy
	toolTimeout   time.Duration
}

// NewReActAgent creates a reasoning agent over the given model and tools.
// A nil registry means no tools; the model can still Finish.
func NewReActAgent(name string, m model.Model, tools *tool.Registry, optFns ...func(o *ReActOptions)) *ReActAgent {
	opts := ReActOptions{
		Instruction:   NewInstructionFromText(defaultReActInstruction),
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Instruction.IsZero() {
		opts.Instruction = NewInstructionFromText(defaultReActInstruction)
	}

	if tools == nil {
		tools = tool.MustRegistry()
	}

	a := &ReActAgent{
		BaseAgent:     NewBaseAgent(name),
		model:         m,
		tools:         tools,
		instruction:   opts.Instruction,
		maxIterations: opts.MaxIterations,
		toolErrors:    opts.ToolErrorPolicy,
		toolTimeout:   opts.ToolTimeout,
	}
	a.SetDescription(opts.Description)
	a.SetLogger(opts.Logger)

	return a
}

// Tools returns the agent's tool registry.
func (a *ReActAgent) Tools() *tool.Registry { return a.tools }

// Run implements core.Agent.
func (a *ReActAgent) Run(ctx context.Context, task string) (string, error) {
	answer, _, err := a.RunWithTranscript(ctx, task)
	return answer, err
}

// RunWithTranscript runs the loop and also returns the transcript, which
// holds every completed iteration even when the run fails.
func (a *ReActAgent) RunWithTranscript(ctx context.Context, task string) (string, *core.Transcript, error) {
	ctx, span := telemetry.StartAgent(ctx, "react", a.Name())

	transcript := core.NewTranscript()
	answer, err := a.loop(ctx, task, transcript)

	telemetry.End(span, err)

	if err != nil {
		a.logger.Error("react.run.error", "agent", a.Name(), "run_id", core.RunIDFromContext(ctx),
			"iterations", transcript.Len(), "error", err.Error())
		a.fail(ctx, err)

		return "", transcript, fmt.Errorf("agent %s: %w", a.Name(), err)
	}

	a.logger.Info("react.run.success", "agent", a.Name(), "run_id", core.RunIDFromContext(ctx),
		"iterations", transcript.Len())

	return answer, transcript, nil
}

func (a *ReActAgent) loop(ctx context.Context, task string, transcript *core.Transcript) (string, error) {
	initial, err := a.initialPrompt(ctx, task)
	if err != nil {
		return "", err
	}

	limiter := core.NewIterationLimiter(a.maxIterations)

	var prompt strings.Builder
	prompt.WriteString(initial)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := limiter.Increment(); err != nil {
			return "", err
		}
		iteration := limiter.Count() - 1

		raw, err := a.callModel(ctx, prompt.String())
		if err != nil {
			return "", err
		}

		decision, err := decoder.DecodeAction(raw)
		if err != nil {
			return "", fmt.Errorf("iteration %d: %w", iteration+1, err)
		}

		a.logger.Debug("react.iteration", "agent", a.Name(), "iteration", iteration+1,
			"thought", decision.Thought, "tool", decision.Action.Tool)

		if decision.Action.IsFinish() {
			return decision.Action.Args, nil
		}

		t, ok := a.tools.Lookup(decision.Action.Tool)
		if !ok {
			return "", fmt.Errorf("iteration %d: %w", iteration+1, &core.ToolNotFoundError{Tool: decision.Action.Tool})
		}

		observation, failed, err := a.invoke(ctx, iteration, t, decision.Action)
		if err != nil {
			return "", fmt.Errorf("iteration %d: %w", iteration+1, err)
		}

		step := transcript.Append(decision.Thought, decision.Action, observation, failed)

		if err := core.Fire(ctx, core.CallbackOnStep, &core.CallbackContext{Agent: a.Name(), Step: &step}); err != nil {
			return "", err
		}

		prompt.WriteString("\n")
		prompt.WriteString(step.String())
	}
}

func (a *ReActAgent) initialPrompt(ctx context.Context, task string) (string, error) {
	instruction, err := a.instruction.Resolve(ctx, a.Name(), task)
	if err != nil {
		return "", fmt.Errorf("resolve instruction: %w", err)
	}

	return util.Execute(reactPrompt, reactPromptData{
		Instruction: instruction,
		Task:        task,
		Catalog:     a.tools.Catalog(),
	})
}

func (a *ReActAgent) callModel(ctx context.Context, prompt string) (string, error) {
	return callModel(ctx, a.Name(), a.model, prompt)
}

// invoke runs one tool call. It returns the observation, whether the tool
// failed (only under ToolErrorsObserve), or a fatal error.
func (a *ReActAgent) invoke(ctx context.Context, iteration int, t tool.Tool, action core.Action) (string, bool, error) {
	if err := core.Fire(ctx, core.CallbackBeforeTool, &core.CallbackContext{Agent: a.Name(), Action: &action}); err != nil {
		return "", false, err
	}

	toolCtx := ctx
	if a.toolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, a.toolTimeout)
		defer cancel()
	}

	toolCtx, span := telemetry.StartToolCall(toolCtx, t.Name(), iteration)
	start := time.Now()
	out, err := t.Call(toolCtx, action.Args)
	dur := time.Since(start)
	telemetry.End(span, err)

	if tl, ok := logging.ForRun(a.logger, core.RunIDFromContext(ctx)).(logging.ToolCallLogger); ok {
		tl.LogToolCall(t.Name(), dur, err == nil, err)
	}

	if cbErr := core.Fire(ctx, core.CallbackAfterTool, &core.CallbackContext{
		Agent: a.Name(), Action: &action, Observation: out, Err: err,
	}); cbErr != nil {
		return "", false, cbErr
	}

	if err == nil {
		a.logger.Debug("react.tool.success", "agent", a.Name(), "tool", t.Name(), "duration_ms", dur.Milliseconds())
		return out, false, nil
	}

	// A cancelled run never becomes an observation.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", false, ctxErr
	}

	if a.toolErrors == ToolErrorsObserve {
		a.logger.Warn("react.tool.error_observed", "agent", a.Name(), "tool", t.Name(), "error", err.Error())
		return "Error: " + err.Error(), true, nil
	}

	a.logger.Error("react.tool.error", "agent", a.Name(), "tool", t.Name(), "error", err.Error())

	return "", false, &core.ToolExecutionError{Tool: t.Name(), Args: action.Args, Err: err}
}

// callModel wraps a model call with the before/after model callbacks.
func callModel(ctx context.Context, agentName string, m model.Model, prompt string) (string, error) {
	if err := core.Fire(ctx, core.CallbackBeforeModel, &core.CallbackContext{Agent: agentName, Prompt: prompt}); err != nil {
		return "", err
	}

	raw, err := m.Call(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := core.Fire(ctx, core.CallbackAfterModel, &core.CallbackContext{Agent: agentName, Prompt: prompt, Response: raw}); err != nil {
		return "", err
	}

	return raw, nil
}
