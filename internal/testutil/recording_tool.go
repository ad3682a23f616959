package testutil

import (
	"context"
	"sync"
)

// RecordingTool is a tool stub that records every args string it receives.
type RecordingTool struct {
	name string
	fn   func(ctx context.Context, args string) (string, error)

	mu    sync.Mutex
	calls []string
}

// NewRecordingTool creates a tool named name backed by fn.
func NewRecordingTool(name string, fn func(ctx context.Context, args string) (string, error)) *RecordingTool {
	return &RecordingTool{name: name, fn: fn}
}

// Name implements tool.Tool.
func (t *RecordingTool) Name() string { return t.name }

// Description implements tool.Tool.
func (t *RecordingTool) Description() string { return "test tool " + t.name }

// Call implements tool.Tool.
func (t *RecordingTool) Call(ctx context.Context, args string) (string, error) {
	t.mu.Lock()
	t.calls = append(t.calls, args)
	t.mu.Unlock()

	return t.fn(ctx, args)
}

// Calls returns the recorded args in order.
func (t *RecordingTool) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.calls...)
}
