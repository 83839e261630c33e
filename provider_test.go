package pkextract

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRequestMessages(t *testing.T) {
	req := CompletionRequest{
		System:      "You extract tables.",
		Instruction: "Categorize the columns.",
		Extra: []Message{
			AssistantMessage(`{"categories":{}}`),
			UserMessage("Every column must be categorized."),
		},
	}

	msgs := req.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, "Categorize the columns.", msgs[1].Content)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.Equal(t, "Every column must be categorized.", msgs[3].Content)
}

func TestCompletionRequestMessagesWithoutSystem(t *testing.T) {
	msgs := CompletionRequest{Instruction: "hi"}.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestApplyOptions(t *testing.T) {
	schema := ResponseSchema{Name: "drugs", Schema: json.RawMessage(`{"type":"object"}`)}
	opts := ApplyOptions(WithMaxTokens(512), WithTemperature(0), WithResponseSchema(schema))

	assert.Equal(t, 512, opts.MaxTokens)
	require.NotNil(t, opts.Temperature)
	assert.Equal(t, 0.0, *opts.Temperature)
	require.NotNil(t, opts.ResponseSchema)
	assert.Equal(t, "drugs", opts.ResponseSchema.Name)
	assert.Nil(t, opts.Model)
}

func TestCompleterFunc(t *testing.T) {
	var got CompletionRequest
	c := CompleterFunc(func(ctx context.Context, req CompletionRequest, opts ...Option) (*Completion, error) {
		got = req
		return &Completion{Content: "ok", Usage: Usage(1, 1)}, nil
	})

	out, err := c.Complete(context.Background(), CompletionRequest{Instruction: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Content)
	assert.Equal(t, "ping", got.Instruction)
}

func TestGenerateMessageID(t *testing.T) {
	a, b := GenerateMessageID(), GenerateMessageID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "msg-")
}
