// Package anthropic adapts the Anthropic Messages API to pkextract.ChatProvider.
//
// Structured output is obtained by forcing a single synthetic tool whose input
// schema is the response schema; the tool input is returned as the content.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/internal/provider/status"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "claude-sonnet-4-5"

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != nil {
		model = options.Model.String()
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}

	structured := options.ResponseSchema != nil
	if structured {
		tool, choice, err := responseTool(options.ResponseSchema)
		if err != nil {
			return nil, err
		}
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = choice
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	var text strings.Builder
	content := ""
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			if structured && block.Name == responseToolName {
				content = string(block.Input)
			}
		}
	}
	if !structured {
		content = text.String()
	}

	return &ai.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage:        ai.Usage(int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)),
	}, nil
}

// wrapError categorizes Anthropic API errors by status code and Retry-After.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return status.Wrap(err, apiErr.StatusCode, status.RetryAfter(apiErr.Response))
}

var _ ai.ChatProvider = (*Client)(nil)
