// Package tool implements the capability subsystem that lets agents invoke
// named tools with opaque, model-authored argument strings, with consistent
// error handling and an immutable registry built before any run.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// The argument string's grammar is tool specific and never interpreted by the
// agent loop. Tools are called with model-authored input and are responsible
// for their own validation and sandboxing.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Document their argument grammar in the description
//   - Respect context cancellation for I/O
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier the model uses to select this tool.
	Name() string

	// Description tells the model what the tool does and how to format args.
	Description() string

	// Call executes the tool with the raw argument string.
	Call(ctx context.Context, args string) (string, error)
}

// Error codes attached to ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details error  `json:"details,omitempty"` // Underlying cause, if any
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error { return e.Details }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
