package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/agent"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/testutil"
	"github.com/hupe1980/agentloop/tool"
)

type mockAgent struct {
	mock.Mock
}

func (m *mockAgent) Name() string        { return "mock" }
func (m *mockAgent) Description() string { return "mock agent" }
func (m *mockAgent) Run(ctx context.Context, task string) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

// blockingAgent waits for its context and reports when it has started.
type blockingAgent struct {
	started chan struct{}
}

func (b *blockingAgent) Name() string        { return "blocking" }
func (b *blockingAgent) Description() string { return "blocks until cancelled" }
func (b *blockingAgent) Run(ctx context.Context, _ string) (string, error) {
	close(b.started)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRunner_RunSyncAnswer(t *testing.T) {
	a := &mockAgent{}
	a.On("Run", mock.Anything, "task").Return("42", nil)

	r := New(a)

	runID, events, answer, err := r.RunSync(context.Background(), "task")
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.Equal(t, "42", answer)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventAnswer, events[0].Kind)
	assert.Equal(t, runID, events[0].RunID)
	assert.True(t, events[0].IsFinal())
	assert.Equal(t, 0, r.ActiveRuns())
}

func TestRunner_RunIDOnContext(t *testing.T) {
	var seen string
	a := &mockAgent{}
	a.On("Run", mock.Anything, "task").Run(func(args mock.Arguments) {
		seen = core.RunIDFromContext(args.Get(0).(context.Context))
	}).Return("ok", nil)

	runID, _, _, err := New(a).RunSync(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, runID, seen)
}

func TestRunner_StreamsStepEvents(t *testing.T) {
	m := testutil.NewSequenceModel(
		testutil.NewResponse().Thought("echo it").Tool("Echo").Args("hi").JSON(),
		testutil.NewResponse().Finish("hi").JSON(),
	)
	echo := testutil.NewRecordingTool("Echo", func(_ context.Context, args string) (string, error) { return args, nil })
	a := agent.NewReActAgent("executor", m, tool.MustRegistry(echo))

	_, events, answer, err := New(a).RunSync(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", answer)

	require.Len(t, events, 2)
	assert.Equal(t, core.EventStep, events[0].Kind)
	assert.Equal(t, "executor", events[0].Author)
	require.NotNil(t, events[0].Step)
	assert.Equal(t, "echo it", events[0].Step.Thought)
	assert.Equal(t, "hi", events[0].Step.Observation)
	assert.Equal(t, core.EventAnswer, events[1].Kind)
	assert.Equal(t, "hi", events[1].Content)
}

func TestRunner_KeepsContextCallbacks(t *testing.T) {
	m := testutil.NewSequenceModel(
		testutil.NewResponse().Thought("echo it").Tool("Echo").Args("hi").JSON(),
		testutil.NewResponse().Finish("hi").JSON(),
	)
	echo := testutil.NewRecordingTool("Echo", func(_ context.Context, args string) (string, error) { return args, nil })
	a := agent.NewReActAgent("executor", m, tool.MustRegistry(echo))

	var mu sync.Mutex
	var fired []core.CallbackType
	record := func(ct core.CallbackType) func(context.Context, *core.CallbackContext) error {
		return func(context.Context, *core.CallbackContext) error {
			mu.Lock()
			defer mu.Unlock()
			fired = append(fired, ct)
			return nil
		}
	}

	cm := core.NewCallbackManager()
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackBeforeModel, record(core.CallbackBeforeModel)))
	cm.RegisterCallback(core.NewFunctionCallback(core.CallbackOnStep, record(core.CallbackOnStep)))

	_, events, answer, err := New(a).RunSync(core.WithCallbacks(context.Background(), cm), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", answer)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventStep, events[0].Kind)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []core.CallbackType{core.CallbackBeforeModel, core.CallbackOnStep, core.CallbackBeforeModel}, fired)
}

func TestRunner_StreamsPlanAndRouteEvents(t *testing.T) {
	m := testutil.NewSequenceModel(
		testutil.Routing("executor", "sub-task"),
		testutil.NewResponse().Finish("done").JSON(),
	)
	exec := agent.NewReActAgent("executor", m, nil)
	dir, err := core.NewDirectory(exec)
	require.NoError(t, err)

	_, events, _, err := New(agent.NewSupervisor("supervisor", m, dir)).RunSync(context.Background(), "task")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, core.EventRoute, events[0].Kind)
	assert.Equal(t, &core.RoutingDecision{Worker: "executor", Task: "sub-task"}, events[0].Routing)
	assert.Equal(t, core.EventAnswer, events[1].Kind)

	pm := testutil.NewSequenceModel("1. first\n2. second")
	_, events, _, err = New(agent.NewPlanner("planner", pm)).RunSync(context.Background(), "task")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventPlan, events[0].Kind)
	assert.Equal(t, core.Plan{"first", "second"}, events[0].Plan)
}

func TestRunner_ErrorEvent(t *testing.T) {
	cause := errors.New("boom")
	a := &mockAgent{}
	a.On("Run", mock.Anything, "task").Return("", cause)

	_, events, answer, err := New(a).RunSync(context.Background(), "task")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, answer)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventError, events[0].Kind)
	assert.Contains(t, events[0].Error, "boom")
}

func TestRunner_Cancel(t *testing.T) {
	a := &blockingAgent{started: make(chan struct{})}
	r := New(a)

	runID, eventsCh, errorsCh, err := r.Run(context.Background(), "task")
	require.NoError(t, err)

	<-a.started
	require.NoError(t, r.Cancel(runID))

	for range eventsCh {
	}

	select {
	case err := <-errorsCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not finish after cancel")
	}

	assert.Error(t, r.Cancel(runID))
}

func TestRunner_CancelUnknownRun(t *testing.T) {
	assert.Error(t, New(&mockAgent{}).Cancel("missing"))
}

func TestRunner_MaxConcurrentRuns(t *testing.T) {
	a := &blockingAgent{started: make(chan struct{})}
	r := New(a, func(o *Options) {
		o.MaxConcurrentRuns = 1
	})

	runID, eventsCh, _, err := r.Run(context.Background(), "first")
	require.NoError(t, err)
	<-a.started
	assert.Equal(t, 1, r.ActiveRuns())

	_, _, _, err = r.Run(context.Background(), "second")
	assert.ErrorIs(t, err, ErrTooManyRuns)

	require.NoError(t, r.Cancel(runID))
	for range eventsCh {
	}
}
