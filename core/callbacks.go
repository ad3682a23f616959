package core

import (
	"context"
	"fmt"
	"sync"
)

// CallbackType defines the lifecycle points where callbacks are executed.
//
// Callbacks hook into agent execution without modifying agent logic. They
// run synchronously on the calling goroutine and can abort the run by
// returning an error.
type CallbackType string

const (
	// CallbackBeforeModel is triggered before a model call with the prompt.
	CallbackBeforeModel CallbackType = "before_model"

	// CallbackAfterModel is triggered after a successful model call with the raw response.
	CallbackAfterModel CallbackType = "after_model"

	// CallbackBeforeTool is triggered before a tool is invoked with the action.
	CallbackBeforeTool CallbackType = "before_tool"

	// CallbackAfterTool is triggered after a tool returns, successfully or not.
	CallbackAfterTool CallbackType = "after_tool"

	// CallbackOnStep is triggered for every completed reasoning iteration.
	CallbackOnStep CallbackType = "on_step"

	// CallbackOnPlan is triggered when a planner produced a plan.
	CallbackOnPlan CallbackType = "on_plan"

	// CallbackOnRoute is triggered when a supervisor resolved a routing decision.
	CallbackOnRoute CallbackType = "on_route"

	// CallbackOnError is triggered when an agent run fails.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries the data relevant to one callback invocation.
// Only the fields matching the callback type are populated.
type CallbackContext struct {
	RunID       string
	Agent       string
	Prompt      string
	Response    string
	Action      *Action
	Observation string
	Step        *Step
	Plan        Plan
	Routing     *RoutingDecision
	Err         error
}

// Callback is a single hook bound to one CallbackType.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback adapts a plain function to the Callback interface.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// LoggingCallback forwards a one-line description of each event to a
// logging function.
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the callback type, agent and the populated payload.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	detail := ""
	switch {
	case callbackCtx.Step != nil:
		detail = callbackCtx.Step.Action.String()
	case callbackCtx.Action != nil:
		detail = callbackCtx.Action.String()
	case callbackCtx.Routing != nil:
		detail = callbackCtx.Routing.Worker
	case callbackCtx.Plan != nil:
		detail = fmt.Sprintf("%d steps", len(callbackCtx.Plan))
	case callbackCtx.Err != nil:
		detail = callbackCtx.Err.Error()
	}

	c.logger(fmt.Sprintf("[%s] Agent: %s, Detail: %s", c.callbackType, callbackCtx.Agent, detail))

	return nil
}

// CallbackManager holds callbacks per type and executes them in
// registration order. The first error stops execution and is returned.
// A manager created by Child runs its parent's callbacks before its own.
// Registration and execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
	parent    *CallbackManager
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// Child returns an empty manager chained to cm. Callbacks registered on the
// child do not affect cm. A nil cm yields an unchained manager.
func (cm *CallbackManager) Child() *CallbackManager {
	child := NewCallbackManager()
	child.parent = cm

	return child
}

// RegisterCallback adds a callback to the manager for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type.
// A nil manager executes nothing.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	if cm == nil {
		return nil
	}

	if err := cm.parent.ExecuteCallbacks(ctx, callbackType, callbackCtx); err != nil {
		return err
	}

	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}
