package pkextract

import "fmt"

// TokenUsage counts the tokens billed for one or more model calls.
// The zero value is the identity for Merge.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ZeroUsage is the empty accumulator.
var ZeroUsage = TokenUsage{}

// Usage builds a TokenUsage from prompt and completion counts.
// Negative counts are clamped to zero.
func Usage(prompt, completion int) TokenUsage {
	prompt, completion = clamp(prompt), clamp(completion)
	return TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Merge returns the pointwise sum of a and b. Neither argument is modified.
func Merge(a, b TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     clamp(a.PromptTokens) + clamp(b.PromptTokens),
		CompletionTokens: clamp(a.CompletionTokens) + clamp(b.CompletionTokens),
		TotalTokens:      clamp(a.TotalTokens) + clamp(b.TotalTokens),
	}
}

// Add returns u merged with other.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return Merge(u, other)
}

// IsZero reports whether no tokens were counted.
func (u TokenUsage) IsZero() bool {
	return u == ZeroUsage
}

// String formats the counters for logs and step notifications.
func (u TokenUsage) String() string {
	return fmt.Sprintf("prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
