package openai

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/schema"
)

func buildSchemaFormat(rs *ai.ResponseSchema, strict bool) (openai.ChatCompletionNewParamsResponseFormatUnion, error) {
	var schemaMap map[string]any
	if err := json.Unmarshal(rs.Schema, &schemaMap); err != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{},
			ai.NewUserInputError(fmt.Sprintf("openai: response schema %q is not valid JSON", rs.Name), 0, err)
	}

	name := rs.Name
	if name == "" {
		name = "response_schema"
	}

	// Strict mode needs closed objects with every property required, which
	// rules out mappings with free-form keys.
	if strict && schema.HasMap(schemaMap) {
		strict = false
	}
	if strict {
		closeObjects(schemaMap)
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type: "json_schema",
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(rs.Description),
				Schema:      schemaMap,
				Strict:      openai.Bool(strict),
			},
		},
	}, nil
}

// closeObjects recursively sets additionalProperties: false on every object
// and marks all of its properties required.
func closeObjects(node map[string]any) {
	if node == nil {
		return
	}

	if t, ok := node["type"].(string); ok && t == "object" {
		node["additionalProperties"] = false
		if props, ok := node["properties"].(map[string]any); ok {
			required := make([]any, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			node["required"] = required
		}
	}

	if props, ok := node["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				closeObjects(pm)
			}
		}
	}

	if items, ok := node["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
