// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. Each call sends an optional system message plus the
// prompt as a single user message and returns the first choice's content.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

const provider = "openai"

// Options configure the OpenAI model adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	// System is sent as a system message ahead of every prompt when set.
	System string
	// APIKey overrides the OPENAI_API_KEY environment variable.
	APIKey string
	// BaseURL targets an OpenAI compatible endpoint.
	BaseURL string
}

// Model wraps the OpenAI Chat Completions API behind the model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 4096,
	}
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: provider}
}

// Call implements model.Model.
func (m *Model) Call(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(prompt))
	if err != nil {
		return "", &core.TransportError{Provider: provider, Err: fmt.Errorf("openai api error: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &core.TransportError{Provider: provider, Err: fmt.Errorf("no choices returned")}
	}

	return resp.Choices[0].Message.Content, nil
}

func (m *Model) buildParams(prompt string) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if m.opts.System != "" {
		messages = append(messages, openai.SystemMessage(m.opts.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
}
