// Package google adapts the Gemini API (google.golang.org/genai) to
// pkextract.ChatProvider.
package google

import (
	"context"
	"errors"
	"strings"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/internal/provider/status"
	"google.golang.org/genai"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
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

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if options.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		sch, fallback, err := responseSchema(options.ResponseSchema)
		if err != nil {
			return nil, err
		}
		if sch != nil {
			config.ResponseSchema = sch
		} else {
			system = append(system, fallback)
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: textParts(system)}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	var content strings.Builder
	finishReason := ""
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		finishReason = string(cand.FinishReason)
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				content.WriteString(part.Text)
			}
		}
	}

	usage := ai.ZeroUsage
	if resp.UsageMetadata != nil {
		usage = ai.Usage(int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}

	return &ai.Response{
		Content:      content.String(),
		FinishReason: finishReason,
		Usage:        usage,
	}, nil
}

// convertMessages maps roles onto Gemini's user/model turns and collects
// system prompts for the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, []string) {
	var contents []*genai.Content
	var system []string

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, msg.Content)
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: textParts([]string{msg.Content})})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: textParts([]string{msg.Content})})
		}
	}
	return contents, system
}

func textParts(texts []string) []*genai.Part {
	parts := make([]*genai.Part, len(texts))
	for i, t := range texts {
		parts[i] = &genai.Part{Text: t}
	}
	return parts
}

// wrapError categorizes Gemini API errors by status code. genai.APIError does
// not expose headers, so no Retry-After is available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return status.Wrap(err, apiErr.Code, 0)
}

var _ ai.ChatProvider = (*Client)(nil)
