package google

import (
	"encoding/json"
	"fmt"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/schema"
	"google.golang.org/genai"
)

// responseSchema converts a JSON Schema into the OpenAPI subset Gemini accepts.
// Gemini has no notion of free-form keys, so schemas containing a mapping are
// returned as prompt text instead and the answer is checked by the caller.
func responseSchema(rs *ai.ResponseSchema) (*genai.Schema, string, error) {
	var m map[string]any
	if err := json.Unmarshal(rs.Schema, &m); err != nil {
		return nil, "", ai.NewUserInputError(fmt.Sprintf("google: response schema %q is not valid JSON", rs.Name), 0, err)
	}
	if schema.HasMap(m) {
		return nil, "Answer with a single JSON document that follows this JSON Schema:\n" + string(rs.Schema), nil
	}
	return convertSchemaObject(m), "", nil
}

func convertSchemaObject(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	result := &genai.Schema{}

	switch m["type"] {
	case "string":
		result.Type = genai.TypeString
	case "number":
		result.Type = genai.TypeNumber
	case "integer":
		result.Type = genai.TypeInteger
	case "boolean":
		result.Type = genai.TypeBoolean
	case "array":
		result.Type = genai.TypeArray
	case "object":
		result.Type = genai.TypeObject
	}

	if desc, ok := m["description"].(string); ok {
		result.Description = desc
	}

	if enumVal, ok := m["enum"].([]any); ok {
		for _, e := range enumVal {
			if s, ok := e.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}

	if props, ok := m["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(pm)
			}
		}
	}

	if required, ok := m["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}

	if items, ok := m["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}

	return result
}
