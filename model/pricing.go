package model

import ai "github.com/spetersoncode/pkextract"

// ChatPricing contains pricing per million tokens (USD) for chat models.
// Local models have zero pricing.
type ChatPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// IsFree reports whether the model has no per-token cost.
func (p ChatPricing) IsFree() bool {
	return p.InputPerMillion == 0 && p.OutputPerMillion == 0
}

// Cost returns the USD cost of the given usage.
func (p ChatPricing) Cost(u ai.TokenUsage) float64 {
	return float64(u.PromptTokens)*p.InputPerMillion/1e6 +
		float64(u.CompletionTokens)*p.OutputPerMillion/1e6
}
