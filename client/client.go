package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/internal/provider/anthropic"
	"github.com/spetersoncode/pkextract/internal/provider/google"
	"github.com/spetersoncode/pkextract/internal/provider/openai"
	"github.com/spetersoncode/pkextract/retry"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// BaseURLs overrides provider endpoints.
type BaseURLs struct {
	// OpenAI points OpenAI-protocol requests at a compatible server such as
	// Ollama (http://localhost:11434/v1). No API key is required when set.
	OpenAI string
}

// Defaults holds the default chat model.
// The model's provider determines which backend is used.
type Defaults struct {
	Chat ai.Model
}

// Config holds configuration for creating a unified client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// BaseURLs overrides provider endpoints.
	BaseURLs BaseURLs

	// Defaults contains the default chat model.
	Defaults Defaults

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses default retry configuration (10 attempts with exponential backoff).
	// Use retry.Disabled() when the caller retries around the client.
	RetryConfig *retry.Config

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ErrMissingAPIKey is returned when a model is used but no API key
// is configured for that model's provider.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrNoModel is returned when no model is specified and no default is configured.
type ErrNoModel struct {
	Operation string
}

func (e *ErrNoModel) Error() string {
	return fmt.Sprintf("no model specified for %s: set client.Config Defaults.Chat or use pkextract.WithModel()", e.Operation)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithChatProvider installs p as the backend for provider, bypassing lazy
// SDK construction. Useful for proxies and tests.
func WithChatProvider(provider ai.Provider, p ai.ChatProvider) ClientOption {
	return func(c *Client) {
		c.providers[provider] = p
	}
}

// Client is a unified interface to the supported chat providers.
// Provider clients are lazily initialized when first needed.
type Client struct {
	apiKeys         APIKeys
	baseURLs        BaseURLs
	defaults        Defaults
	retryConfig     retry.Config
	events          chan<- Event
	defaultChatOpts []ai.Option

	mu        sync.RWMutex
	providers map[ai.Provider]ai.ChatProvider
	initErrs  map[ai.Provider]error
}

// New creates a unified client with the given configuration.
// Provider clients are lazily initialized when first needed based on the model used.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	c := &Client{
		apiKeys:     cfg.APIKeys,
		baseURLs:    cfg.BaseURLs,
		defaults:    cfg.Defaults,
		retryConfig: retryConfig,
		events:      cfg.Events,
		providers:   make(map[ai.Provider]ai.ChatProvider),
		initErrs:    make(map[ai.Provider]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatProvider returns the backend for provider, initializing it if needed.
func (c *Client) chatProvider(ctx context.Context, provider ai.Provider, modelID string) (ai.ChatProvider, error) {
	c.mu.RLock()
	p, ok := c.providers[provider]
	initErr := c.initErrs[provider]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}
	if initErr != nil {
		return nil, initErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := c.providers[provider]; ok {
		return p, nil
	}
	if err := c.initErrs[provider]; err != nil {
		return nil, err
	}

	switch provider {
	case ai.ProviderAnthropic:
		if c.apiKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		p = anthropic.New(c.apiKeys.Anthropic)

	case ai.ProviderOpenAI:
		key := c.apiKeys.OpenAI
		var opts []openai.ClientOption
		if c.baseURLs.OpenAI != "" {
			opts = append(opts, openai.WithBaseURL(c.baseURLs.OpenAI))
			if key == "" {
				key = "local"
			}
		}
		if key == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		p = openai.New(key, opts...)

	case ai.ProviderGoogle:
		if c.apiKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: provider.String(), Model: modelID}
		}
		gc, err := google.New(ctx, c.apiKeys.Google)
		if err != nil {
			c.initErrs[provider] = fmt.Errorf("failed to initialize Google client: %w", err)
			return nil, c.initErrs[provider]
		}
		p = gc

	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	c.providers[provider] = p
	return p, nil
}

// Chat sends a conversation and returns a complete response.
// The model can be specified via WithModel option, or the default chat model is used.
// Automatically retries on transient errors according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	// Prepend default options so per-request options override them
	opts = append(append([]ai.Option(nil), c.defaultChatOpts...), opts...)
	options := ai.ApplyOptions(opts...)

	model := options.Model
	if model == nil {
		model = c.defaults.Chat
	}
	if model == nil {
		return nil, &ErrNoModel{Operation: "chat"}
	}
	provider := model.Provider()

	chatProvider, err := c.chatProvider(ctx, provider, model.String())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emit(c.events, Event{
		Type:      EventRequestStart,
		Operation: "chat",
		Provider:  provider,
		Model:     model.String(),
	})

	// Ensure model is passed to the underlying provider
	if options.Model == nil {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}

	var retryEvents chan retry.Event
	var forwarded sync.WaitGroup
	if c.events != nil {
		retryEvents = make(chan retry.Event, 10)
		forwarded.Add(1)
		go func() {
			defer forwarded.Done()
			c.forwardRetryEvents(retryEvents, "chat", provider, model.String())
		}()
	}

	resp, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, func() (*ai.Response, error) {
		return chatProvider.Chat(ctx, messages, opts...)
	})

	if retryEvents != nil {
		close(retryEvents)
		forwarded.Wait()
	}

	if err != nil {
		emit(c.events, Event{
			Type:      EventRequestError,
			Operation: "chat",
			Provider:  provider,
			Model:     model.String(),
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	usage := resp.Usage
	emit(c.events, Event{
		Type:      EventRequestComplete,
		Operation: "chat",
		Provider:  provider,
		Model:     model.String(),
		Duration:  time.Since(start),
		Usage:     &usage,
	})
	return resp, nil
}

// forwardRetryEvents reads from a retry events channel and forwards events
// to the client's event channel as EventRetry events.
func (c *Client) forwardRetryEvents(retryEvents <-chan retry.Event, operation string, provider ai.Provider, model string) {
	for re := range retryEvents {
		reCopy := re
		emit(c.events, Event{
			Type:       EventRetry,
			Operation:  operation,
			Provider:   provider,
			Model:      model,
			RetryEvent: &reCopy,
		})
	}
}

var _ ai.ChatProvider = (*Client)(nil)
