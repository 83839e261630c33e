// Package openai adapts the OpenAI chat completions API, and any server that
// speaks it (Ollama, vLLM, Azure-style gateways), to pkextract.ChatProvider.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/internal/provider/status"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gpt-4.1-mini"

// Client wraps the OpenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
	strict bool
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{model: DefaultModel, strict: true}
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(c, cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}

type clientConfig struct {
	baseURL string
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client, *clientConfig)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client, _ *clientConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
// Local servers rarely implement strict structured output, so the schema is
// sent in non-strict mode.
func WithBaseURL(url string) ClientOption {
	return func(c *Client, cfg *clientConfig) {
		cfg.baseURL = url
		c.strict = false
	}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != nil {
		model = options.Model.String()
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.ResponseSchema != nil {
		format, err := buildSchemaFormat(options.ResponseSchema, c.strict)
		if err != nil {
			return nil, err
		}
		params.ResponseFormat = format
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewTransientError("openai: response has no choices", 0, nil)
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage:        ai.Usage(int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens)),
	}, nil
}

// wrapError categorizes OpenAI API errors by status code and Retry-After.
// Anything else (network failures) is returned as-is for heuristic handling.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return status.Wrap(err, apiErr.StatusCode, status.RetryAfter(apiErr.Response))
}

var _ ai.ChatProvider = (*Client)(nil)
