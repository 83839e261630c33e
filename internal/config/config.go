// Package config loads the settings shared by the pkextract binaries from
// environment variables and an optional .env file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/agent"
	"github.com/spetersoncode/pkextract/client"
	"github.com/spetersoncode/pkextract/model"
	"github.com/spetersoncode/pkextract/pipeline"
	"github.com/spetersoncode/pkextract/retry"
)

// Config holds the configuration loaded from environment variables.
type Config struct {
	LogLevel string // debug, info, warn, error

	// Model id, e.g. gpt-4.1-mini, claude-haiku-4-5 or ollama/qwen3:8b.
	Model string

	// API Keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string

	// OllamaURL is the OpenAI-compatible endpoint for ollama/ models.
	OllamaURL string

	// Extraction
	MaxAttempts int
	Interval    time.Duration // minimum gap between model calls
	Timeout     time.Duration // per table
	Concurrency int
}

// Load loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func Load() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		LogLevel:     getEnvOrDefault("PKEXTRACT_LOG_LEVEL", "info"),
		Model:        getEnvOrDefault("PKEXTRACT_MODEL", model.GPT41Mini.String()),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleKey:    os.Getenv("GOOGLE_API_KEY"),
		OllamaURL:    getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		MaxAttempts:  getEnvIntOrDefault("PKEXTRACT_MAX_ATTEMPTS", 5),
		Interval:     getEnvDurationOrDefault("PKEXTRACT_INTERVAL", 0),
		Timeout:      getEnvDurationOrDefault("PKEXTRACT_TIMEOUT", 10*time.Minute),
		Concurrency:  getEnvIntOrDefault("PKEXTRACT_CONCURRENCY", 4),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("PKEXTRACT_MODEL is required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("PKEXTRACT_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("PKEXTRACT_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if model.IsLocal(c.Model) {
		return nil
	}
	switch m := model.Parse(c.Model); m.Provider() {
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for model %s", m)
		}
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for model %s", m)
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for model %s", m)
		}
	}
	return nil
}

// ChatModel resolves the configured model.
func (c *Config) ChatModel() model.ChatModel {
	return model.Parse(c.Model)
}

// NewClient creates the model client. The client makes a single request per
// call: every failure is handed to the agent, whose budget of MaxAttempts
// covers transport and answer errors alike.
func (c *Config) NewClient(opts ...client.ClientOption) *client.Client {
	transport := retry.Disabled()
	cc := client.Config{
		APIKeys: client.APIKeys{
			Anthropic: c.AnthropicKey,
			OpenAI:    c.OpenAIKey,
			Google:    c.GoogleKey,
		},
		Defaults:    client.Defaults{Chat: c.ChatModel()},
		RetryConfig: &transport,
	}
	if model.IsLocal(c.Model) {
		cc.BaseURLs.OpenAI = c.OllamaURL
	}
	return client.New(cc, opts...)
}

// NewLogger creates a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewExtractor creates an extractor on top of cm.
func (c *Config) NewExtractor(cm ai.Completer, logger *slog.Logger) *pipeline.Extractor {
	rc := retry.AgentConfig()
	rc.MaxAttempts = c.MaxAttempts
	return pipeline.NewExtractor(cm,
		pipeline.WithAgentOptions(agent.WithRetryConfig(rc)),
		pipeline.WithInterval(c.Interval),
		pipeline.WithTimeout(c.Timeout),
		pipeline.WithLogger(logger),
	)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", s)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
