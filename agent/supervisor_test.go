package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/testutil"
)

func newWorkers(t *testing.T) (*MockAgent, *MockAgent, *core.Directory) {
	t.Helper()

	w1 := NewMockAgent("W1", "Handles arithmetic.")
	w2 := NewMockAgent("W2", "Handles file operations.")

	dir, err := core.NewDirectory(w1, w2)
	require.NoError(t, err)

	return w1, w2, dir
}

func TestSupervisor_RoutesToExactlyOneWorker(t *testing.T) {
	w1, w2, dir := newWorkers(t)
	w1.On("Run", mock.Anything, "X").Return("result from W1", nil).Once()

	m := testutil.NewSequenceModel(testutil.Routing("W1", "X"))
	s := NewSupervisor("supervisor", m, dir)

	result, err := s.Run(context.Background(), "original task")
	require.NoError(t, err)
	assert.Equal(t, "result from W1", result)

	w1.AssertNumberOfCalls(t, "Run", 1)
	w1.AssertExpectations(t)
	w2.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	assert.Equal(t, 1, m.Calls())
}

func TestSupervisor_PromptListsWorkers(t *testing.T) {
	w1, _, dir := newWorkers(t)
	w1.On("Run", mock.Anything, "sum").Return("3", nil)

	m := testutil.NewSequenceModel(testutil.Routing("W1", "sum"))
	_, err := NewSupervisor("supervisor", m, dir).Run(context.Background(), "add 1 and 2")
	require.NoError(t, err)

	prompt := m.Prompts()[0]
	assert.Contains(t, prompt, "You are a supervisor agent.")
	assert.Contains(t, prompt, "- W1: Handles arithmetic.\n- W2: Handles file operations.\n")
	assert.Contains(t, prompt, "The task is: add 1 and 2")
}

func TestSupervisor_UnknownWorker(t *testing.T) {
	w1, w2, dir := newWorkers(t)

	m := testutil.NewSequenceModel(testutil.Routing("W3", "X"))
	_, err := NewSupervisor("supervisor", m, dir).Run(context.Background(), "task")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrWorkerNotFound)

	var nf *core.WorkerNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "W3", nf.Worker)

	w1.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	w2.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestSupervisor_MalformedRouting(t *testing.T) {
	w1, _, dir := newWorkers(t)

	for _, raw := range []string{"W1 please", `{"task":"X"}`, `{"worker":"","task":"X"}`, `{"worker":"W1","task":7}`} {
		_, err := NewSupervisor("supervisor", testutil.NewSequenceModel(raw), dir).Run(context.Background(), "task")
		assert.ErrorIs(t, err, core.ErrParse, raw)
	}

	w1.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestSupervisor_WorkerFailurePropagates(t *testing.T) {
	w1, _, dir := newWorkers(t)
	cause := errors.New("worker exploded")
	w1.On("Run", mock.Anything, "X").Return("", cause)

	m := testutil.NewSequenceModel(testutil.Routing("W1", "X"))
	_, err := NewSupervisor("supervisor", m, dir).Run(context.Background(), "task")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "worker W1")
}

func TestSupervisor_Route(t *testing.T) {
	_, _, dir := newWorkers(t)

	m := testutil.NewSequenceModel(testutil.Routing("W2", "list files"))
	decision, worker, err := NewSupervisor("supervisor", m, dir).Route(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, core.RoutingDecision{Worker: "W2", Task: "list files"}, decision)
	assert.Equal(t, "W2", worker.Name())
}

func TestSupervisor_OnRouteCallback(t *testing.T) {
	w1, _, dir := newWorkers(t)
	w1.On("Run", mock.Anything, "X").Return("ok", nil)

	var routed []core.RoutingDecision
	cm := core.NewCallbackManager()
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackOnRoute, func(_ context.Context, cc *core.CallbackContext) error {
		routed = append(routed, *cc.Routing)
		return nil
	}))

	m := testutil.NewSequenceModel(testutil.Routing("W1", "X"))
	_, err := NewSupervisor("supervisor", m, dir).Run(core.WithCallbacks(context.Background(), cm), "task")
	require.NoError(t, err)
	assert.Equal(t, []core.RoutingDecision{{Worker: "W1", Task: "X"}}, routed)
}

func TestSupervisor_DelegatesToReActWorker(t *testing.T) {
	m := testutil.NewSequenceModel(
		testutil.Routing("executor", "say hi"),
		testutil.NewResponse().Finish("hi").JSON(),
	)

	worker := NewReActAgent("executor", m, nil, func(o *ReActOptions) {
		o.Description = "Executes tasks."
	})
	dir, err := core.NewDirectory(worker)
	require.NoError(t, err)

	result, err := NewSupervisor("supervisor", m, dir).Run(context.Background(), "greet")
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
	assert.Contains(t, m.Prompts()[1], "Task: say hi")
}
