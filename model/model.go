package model

import (
	"context"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "bedrock", "mock", ...
}

// Model is the minimal interface agents use to drive generation.
//
// Call sends one prompt and returns the complete response text. It blocks
// until the backend answers or ctx is done. Implementations must be safe for
// concurrent use so one handle can serve independent runs.
type Model interface {
	Call(ctx context.Context, prompt string) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}
