package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/agentloop/logging"
)

// FunctionOptions configures a FunctionTool.
type FunctionOptions struct {
	// Validate checks the raw args before fn runs. Nil accepts everything.
	Validate func(args string) error
	// Logger receives tool.call.* events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// It normalizes error handling so callers receive *ToolError with consistent codes:
//
//	VALIDATION_ERROR -> Validate rejected the args
//	EXECUTION_ERROR  -> fn returned an error (non-ToolError)
//	custom codes     -> preserved if fn returns *ToolError directly
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	fn          func(ctx context.Context, args string) (string, error)
	validate    func(args string) error
	logger      logging.Logger
}

// NewFunctionTool constructs a FunctionTool.
//
// Example:
//
//	echo := tool.NewFunctionTool(
//	  "Echo",
//	  "Echo returns args unchanged.",
//	  func(_ context.Context, args string) (string, error) { return args, nil },
//	)
func NewFunctionTool(
	name, description string,
	fn func(ctx context.Context, args string) (string, error),
	optFns ...func(o *FunctionOptions),
) *FunctionTool {
	opts := FunctionOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &FunctionTool{
		name:        name,
		description: description,
		fn:          fn,
		validate:    opts.Validate,
		logger:      opts.Logger,
	}
}

// Name returns the unique tool name.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Call validates args then invokes the wrapped function.
func (t *FunctionTool) Call(ctx context.Context, args string) (string, error) {
	start := time.Now()

	t.logger.Debug("tool.call.start", "tool", t.name)

	if t.validate != nil {
		if err := t.validate(args); err != nil {
			t.logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

			return "", &ToolError{
				Tool:    t.name,
				Message: fmt.Sprintf("invalid arguments: %v", err),
				Code:    CodeValidation,
				Details: err,
			}
		}
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			t.logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return "", toolErr
		}

		t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return "", &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
			Details: err,
		}
	}

	t.logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
