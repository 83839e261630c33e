package pkextract

import "context"

// Provider identifies an AI provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Model identifies a chat model and the provider that serves it.
type Model interface {
	String() string
	Provider() Provider
}

// ChatProvider defines the interface for AI chat providers.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
}

// CompletionRequest is one structured completion: a system prompt, an
// instruction, optional extra conversational turns and the target schema.
type CompletionRequest struct {
	System      string
	Instruction string
	// Schema constrains the answer. Nil asks for free text.
	Schema *ResponseSchema
	// Extra turns are appended after the instruction, in order.
	Extra []Message
}

// Messages flattens the request into a conversation.
func (r CompletionRequest) Messages() []Message {
	msgs := make([]Message, 0, len(r.Extra)+2)
	if r.System != "" {
		msgs = append(msgs, SystemMessage(r.System))
	}
	msgs = append(msgs, UserMessage(r.Instruction))
	msgs = append(msgs, r.Extra...)
	return msgs
}

// Completion is the answer to a CompletionRequest.
type Completion struct {
	// Content is the JSON document when a schema was requested, free text otherwise.
	Content string
	Usage   TokenUsage
}

// Completer is the structured completion capability consumed by agents.
// Implementations must return content that validates against req.Schema or an
// error; calls must be safe to repeat.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Completion, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req CompletionRequest, opts ...Option) (*Completion, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest, opts ...Option) (*Completion, error) {
	return f(ctx, req, opts...)
}
