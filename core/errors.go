package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Typed errors below match these
// through errors.Is, so callers can branch on the class without unwrapping.
var (
	// ErrTransport reports that the model backend was unreachable or rejected the call.
	ErrTransport = errors.New("model transport failure")
	// ErrParse reports model output that does not match the expected schema.
	ErrParse = errors.New("model output parse failure")
	// ErrToolNotFound reports an action naming an unregistered tool.
	ErrToolNotFound = errors.New("tool not found")
	// ErrWorkerNotFound reports a routing decision naming an unknown worker.
	ErrWorkerNotFound = errors.New("worker not found")
	// ErrToolExecution reports a tool's own runtime failure.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrMaxIterationsExceeded reports a reasoning loop that hit its iteration ceiling.
	ErrMaxIterationsExceeded = errors.New("max iterations exceeded")
	// ErrDuplicateName reports a registry or directory built with a repeated name.
	ErrDuplicateName = errors.New("duplicate name")
)

// TransportError wraps a model backend failure.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying backend error.
func (e *TransportError) Unwrap() error { return e.Err }

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ParseErrorKind classifies decode failures.
type ParseErrorKind string

const (
	// ParseMalformed means the output is not a well-formed JSON object.
	ParseMalformed ParseErrorKind = "malformed"
	// ParseMissingField means a required field is absent.
	ParseMissingField ParseErrorKind = "missing_field"
	// ParseWrongType means a field holds a value of the wrong JSON type.
	ParseWrongType ParseErrorKind = "wrong_type"
	// ParseEmpty means the output carried no usable content.
	ParseEmpty ParseErrorKind = "empty"
)

// ParseError describes model output that failed schema validation.
type ParseError struct {
	Schema string // action, routing or plan
	Kind   ParseErrorKind
	Field  string
	Raw    string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s: %s: field %q", e.Schema, e.Kind, e.Field)
	}
	return fmt.Sprintf("parse %s: %s", e.Schema, e.Kind)
}

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ToolNotFoundError names an action's unresolved tool.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Tool)
}

// Is matches ErrToolNotFound.
func (e *ToolNotFoundError) Is(target error) bool { return target == ErrToolNotFound }

// WorkerNotFoundError names a routing decision's unresolved worker.
type WorkerNotFoundError struct {
	Worker string
}

func (e *WorkerNotFoundError) Error() string {
	return fmt.Sprintf("worker not found: %s", e.Worker)
}

// Is matches ErrWorkerNotFound.
func (e *WorkerNotFoundError) Is(target error) bool { return target == ErrWorkerNotFound }

// ToolExecutionError wraps a tool's runtime failure together with the call
// that triggered it.
type ToolExecutionError struct {
	Tool string
	Args string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed with args %q: %v", e.Tool, e.Args, e.Err)
}

// Unwrap returns the tool's error.
func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Is matches ErrToolExecution.
func (e *ToolExecutionError) Is(target error) bool { return target == ErrToolExecution }

// MaxIterationsError reports the configured ceiling that was reached.
type MaxIterationsError struct {
	Limit int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("max iterations (%d) reached without a %s action", e.Limit, FinishTool)
}

// Is matches ErrMaxIterationsExceeded.
func (e *MaxIterationsError) Is(target error) bool { return target == ErrMaxIterationsExceeded }

// StepError locates a failure inside a plan.
type StepError struct {
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("plan step %d (%q) failed: %v", e.Index+1, e.Step, e.Err)
}

// Unwrap returns the step's error.
func (e *StepError) Unwrap() error { return e.Err }
