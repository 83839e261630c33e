package model

import (
	"strings"

	ai "github.com/spetersoncode/pkextract"
)

// ChatModel represents a chat model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the USD cost of the given usage on this model.
func (m ChatModel) Cost(u ai.TokenUsage) float64 { return m.pricing.Cost(u) }

// Anthropic Claude Models
// Model pricing last verified: December 14, 2025
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI Models
// Model pricing last verified: December 14, 2025
var (
	GPT5     = ChatModel{id: "gpt-5", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	GPT5Mini = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00}}

	// GPT-4.1 and 4o are the families table extraction was tuned on.
	GPT41     = ChatModel{id: "gpt-4.1", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 8.00}}
	GPT41Mini = ChatModel{id: "gpt-4.1-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.40, OutputPerMillion: 1.60}}
	GPT4o     = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT41Mini
)

// Google Gemini Models
// Model pricing last verified: December 14, 2025
var (
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.075, OutputPerMillion: 0.30}}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

var known = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	GPT5, GPT5Mini, GPT41, GPT41Mini, GPT4o, GPT4oMini,
	Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
}

// OllamaPrefix marks models served by a local OpenAI-compatible endpoint.
const OllamaPrefix = "ollama/"

// Parse resolves a model identifier. Known ids carry their pricing; unknown
// ids get a provider inferred from the name and zero pricing. Ids prefixed
// with "ollama/" are served through the OpenAI-compatible provider with the
// prefix stripped.
func Parse(id string) ChatModel {
	id = strings.TrimSpace(id)
	for _, m := range known {
		if m.id == id {
			return m
		}
	}

	if rest, ok := strings.CutPrefix(id, OllamaPrefix); ok {
		return ChatModel{id: rest, provider: ai.ProviderOpenAI}
	}

	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "claude"):
		return ChatModel{id: id, provider: ai.ProviderAnthropic}
	case strings.HasPrefix(lower, "gemini"):
		return ChatModel{id: id, provider: ai.ProviderGoogle}
	default:
		return ChatModel{id: id, provider: ai.ProviderOpenAI}
	}
}

// IsLocal reports whether id names a locally served model.
func IsLocal(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), OllamaPrefix)
}
