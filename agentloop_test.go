package agentloop

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
	"github.com/hupe1980/agentloop/tool"
	"github.com/hupe1980/agentloop/tool/builtin"
)

type mockPlanner struct {
	mock.Mock
}

func (m *mockPlanner) Plan(ctx context.Context, task string) (core.Plan, error) {
	args := m.Called(ctx, task)
	plan, _ := args.Get(0).(core.Plan)
	return plan, args.Error(1)
}

type mockAgent struct {
	mock.Mock
	name string
}

func (m *mockAgent) Name() string        { return m.name }
func (m *mockAgent) Description() string { return "mock agent " + m.name }
func (m *mockAgent) Run(ctx context.Context, task string) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

func TestPlanExecute_RunsStepsInOrder(t *testing.T) {
	m := model.NewMockModel("planner", "mock").SetFallback("1. step A\n2. step B")
	planner := agent.NewPlanner("planner", m)

	executor := &mockAgent{name: "executor"}
	var order []string
	executor.On("Run", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, args.String(1))
	}).Return("result A", nil).Once()
	executor.On("Run", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, args.String(1))
	}).Return("result B", nil).Once()

	o := NewPlanExecute(planner, executor)

	answer, err := o.Run(context.Background(), "do A then B")
	require.NoError(t, err)
	assert.Equal(t, "result A\nresult B", answer)
	assert.Equal(t, []string{"step A", "step B"}, order)
	executor.AssertNumberOfCalls(t, "Run", 2)
}

func TestPlanExecute_CustomSeparator(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything, "task").Return(core.Plan{"a", "b", "c"}, nil)

	executor := &mockAgent{name: "executor"}
	executor.On("Run", mock.Anything, "a").Return("1", nil)
	executor.On("Run", mock.Anything, "b").Return("2", nil)
	executor.On("Run", mock.Anything, "c").Return("3", nil)

	o := NewPlanExecute(planner, executor, func(o *Options) {
		o.Separator = " | "
	})

	answer, err := o.Run(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, "1 | 2 | 3", answer)
}

func TestPlanExecute_FailFast(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything, "task").Return(core.Plan{"a", "b", "c"}, nil)

	cause := &core.ToolNotFoundError{Tool: "Teleport"}
	executor := &mockAgent{name: "executor"}
	executor.On("Run", mock.Anything, "a").Return("1", nil)
	executor.On("Run", mock.Anything, "b").Return("", cause)

	answer, err := NewPlanExecute(planner, executor).Run(context.Background(), "task")
	require.Error(t, err)
	assert.Empty(t, answer)
	assert.ErrorIs(t, err, core.ErrToolNotFound)

	var stepErr *core.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "b", stepErr.Step)
	assert.Contains(t, err.Error(), `plan step 2 ("b") failed`)

	executor.AssertNotCalled(t, "Run", mock.Anything, "c")
}

func TestPlanExecute_PlannerFailure(t *testing.T) {
	planErr := errors.New("planner unavailable")
	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything, "task").Return(nil, planErr)

	executor := &mockAgent{name: "executor"}

	_, err := NewPlanExecute(planner, executor).Run(context.Background(), "task")
	assert.ErrorIs(t, err, planErr)
	executor.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestPlanExecute_ContextCancelledBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything, "task").Return(core.Plan{"a", "b"}, nil)

	executor := &mockAgent{name: "executor"}
	executor.On("Run", mock.Anything, "a").Run(func(mock.Arguments) { cancel() }).Return("1", nil)

	_, err := NewPlanExecute(planner, executor).Run(ctx, "task")
	assert.ErrorIs(t, err, context.Canceled)
	executor.AssertNotCalled(t, "Run", mock.Anything, "b")
}

func TestDelegate_RunsSupervisorOnTopLevelTask(t *testing.T) {
	supervisor := &mockAgent{name: "supervisor"}
	supervisor.On("Run", mock.Anything, "top-level task").Return("delegated result", nil).Once()

	o := NewDelegate(supervisor)
	assert.Equal(t, ModeDelegate, o.Mode())

	answer, err := o.Run(context.Background(), "top-level task")
	require.NoError(t, err)
	assert.Equal(t, "delegated result", answer)
	supervisor.AssertExpectations(t)
}

func TestRun_AssignsRunID(t *testing.T) {
	executor := &mockAgent{name: "executor"}

	var runIDs []string
	executor.On("Run", mock.Anything, "task").Run(func(args mock.Arguments) {
		runIDs = append(runIDs, core.RunIDFromContext(args.Get(0).(context.Context)))
	}).Return("ok", nil)

	o := NewReAct(executor)

	_, err := o.Run(context.Background(), "task")
	require.NoError(t, err)
	_, err = o.Run(core.WithRunID(context.Background(), "given"), "task")
	require.NoError(t, err)

	require.Len(t, runIDs, 2)
	assert.NotEmpty(t, runIDs[0])
	assert.Equal(t, "given", runIDs[1])
}

func TestRun_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelInfo,
		Format: "json",
		Output: &buf,
	})

	executor := &mockAgent{name: "executor"}
	executor.On("Run", mock.Anything, "task").Return("", errors.New("boom"))

	_, err := NewReAct(executor, func(o *Options) { o.Logger = logger }).Run(context.Background(), "task")
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"msg":"run.failed"`)
	assert.Contains(t, buf.String(), `"mode":"react"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

type outcomeLogger struct {
	logging.NoOpLogger
	mode  string
	steps int
	err   error
}

func (l *outcomeLogger) LogRun(mode string, steps int, _ time.Duration, _ bool, err error) {
	l.mode, l.steps, l.err = mode, steps, err
}

func TestRun_LogsOutcomeToCustomLogger(t *testing.T) {
	executor := &mockAgent{name: "executor"}
	executor.On("Run", mock.Anything, "task").Return("done", nil)

	logger := &outcomeLogger{}
	answer, err := NewReAct(executor, func(o *Options) { o.Logger = logger }).Run(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, "done", answer)

	assert.Equal(t, "react", logger.mode)
	assert.Equal(t, 1, logger.steps)
	assert.NoError(t, logger.err)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"plan": ModePlanExecute, "Delegate": ModeDelegate, " react ": ModeReAct, "": ModePlanExecute} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("swarm")
	assert.Error(t, err)
}

func TestOrchestrator_DemoScenarioAllModes(t *testing.T) {
	build := func(m model.Model) (*agent.ReActAgent, *core.Directory) {
		exec := agent.NewReActAgent(model.DemoWorker, m, tool.MustRegistry(builtin.NewCalculator()), func(o *agent.ReActOptions) {
			o.Description = "Solves arithmetic with the Calculator tool."
		})
		dir, err := core.NewDirectory(exec)
		require.NoError(t, err)

		return exec, dir
	}

	t.Run("plan", func(t *testing.T) {
		m := model.Demo()
		exec, _ := build(m)

		answer, err := NewPlanExecute(agent.NewPlanner("planner", m), exec).Run(context.Background(), model.DemoTask)
		require.NoError(t, err)
		assert.Equal(t, "32", answer)
	})

	t.Run("delegate", func(t *testing.T) {
		m := model.Demo()
		_, dir := build(m)

		answer, err := NewDelegate(agent.NewSupervisor("supervisor", m, dir)).Run(context.Background(), model.DemoTask)
		require.NoError(t, err)
		assert.Equal(t, "32", answer)
	})

	t.Run("react", func(t *testing.T) {
		m := model.Demo()
		exec, _ := build(m)

		answer, err := NewReAct(exec).Run(context.Background(), model.DemoTask)
		require.NoError(t, err)
		assert.Equal(t, "32", answer)
		assert.Equal(t, 3, m.Calls())
	})
}
