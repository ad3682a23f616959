// Package anthropic provides a model.Model for Claude via the Anthropic
// Messages API, either directly or through AWS Bedrock.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

// Options configures the Anthropic model adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	// System is sent as the system prompt of every call when set.
	System string
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
	// BaseURL targets a compatible endpoint.
	BaseURL string

	// UseBedrock routes calls through AWS Bedrock with the default AWS
	// credential chain instead of an API key.
	UseBedrock bool
	AWSRegion  string
	AWSProfile string
}

// Model wraps the Anthropic Messages API behind the model.Model interface.
type Model struct {
	client   *anthropic.Client
	opts     Options
	provider string
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	provider := "anthropic"

	if opts.UseBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if opts.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(opts.AWSRegion))
		}
		if opts.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.AWSProfile))
		}

		clientOpts = append(clientOpts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
		opts.Model = BedrockModel(opts.Model)
		provider = "bedrock"
	} else if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts, provider: provider}, nil
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts, provider: "anthropic"}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		Temperature: 0.2,
		MaxTokens:   4096,
	}
}

// BedrockModel converts a standard model name to its Bedrock cross-region
// inference profile. Unknown names are returned unchanged.
func BedrockModel(m anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(m), "us.anthropic.") {
		return m
	}

	profiles := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaude3_7Sonnet20250219:  "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if p, ok := profiles[m]; ok {
		return anthropic.Model(p)
	}

	return m
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: m.provider}
}

// Call implements model.Model.
func (m *Model) Call(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	if m.opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: m.opts.System}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", &core.TransportError{Provider: m.provider, Err: fmt.Errorf("anthropic api error: %w", err)}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	if sb.Len() == 0 {
		return "", &core.TransportError{Provider: m.provider, Err: fmt.Errorf("response contained no text (stop reason %s)", resp.StopReason)}
	}

	return sb.String(), nil
}
