package core

import "context"

type ctxKey int

const (
	runIDKey ctxKey = iota
	callbacksKey
)

// WithRunID returns a context carrying the run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier, or "" if none is set.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithCallbacks returns a context carrying a callback manager. Agents invoked
// with this context, including delegated workers, report to it.
func WithCallbacks(ctx context.Context, cm *CallbackManager) context.Context {
	return context.WithValue(ctx, callbacksKey, cm)
}

// CallbacksFromContext returns the callback manager carried by ctx or nil.
func CallbacksFromContext(ctx context.Context) *CallbackManager {
	cm, _ := ctx.Value(callbacksKey).(*CallbackManager)
	return cm
}

// Fire executes the callbacks of the given type registered on ctx. The run
// identifier from ctx is filled in when the callback context lacks one.
func Fire(ctx context.Context, callbackType CallbackType, callbackCtx *CallbackContext) error {
	cm := CallbacksFromContext(ctx)
	if cm == nil {
		return nil
	}

	if callbackCtx.RunID == "" {
		callbackCtx.RunID = RunIDFromContext(ctx)
	}

	return cm.ExecuteCallbacks(ctx, callbackType, callbackCtx)
}
