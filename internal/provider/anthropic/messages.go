package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/pkextract"
)

// responseToolName is the name of the synthetic tool used for structured output.
const responseToolName = "record_answer"

// convertMessages splits system prompts out of the conversation. Empty
// messages are skipped because the API rejects empty text blocks.
func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case ai.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, system
}

func responseTool(rs *ai.ResponseSchema) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam, error) {
	var schema map[string]any
	if err := json.Unmarshal(rs.Schema, &schema); err != nil {
		return anthropic.ToolUnionParam{}, anthropic.ToolChoiceUnionParam{},
			ai.NewUserInputError(fmt.Sprintf("anthropic: response schema %q is not valid JSON", rs.Name), 0, err)
	}

	description := "Record the answer as structured JSON."
	if rs.Description != "" {
		description = rs.Description
	}

	var required []string
	if reqVal, ok := schema["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        responseToolName,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   required,
			},
		},
	}

	choice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: responseToolName},
	}

	return tool, choice, nil
}
