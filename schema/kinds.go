package schema

// ReasoningField is the name of the free-text audit field carried by most
// response schemas.
const ReasoningField = "reasoning"

// Reasoning returns the required free-text field explaining an answer.
func Reasoning() *RequiredField {
	return String().Desc("Step-by-step reasoning behind the answer.").Required()
}

// StringList returns a list-of-string schema.
func StringList(description string) *ArrayBuilder {
	return Array(String()).Desc(description)
}

// StringMatrix returns a list-of-list-of-string schema.
func StringMatrix(description string) *ArrayBuilder {
	return Array(Array(String())).Desc(description)
}

// StringMap returns a mapping-of-string-to-string schema.
func StringMap(description string) *MapBuilder {
	return Map(String()).Desc(description)
}

// HasMap reports whether the built schema contains a mapping anywhere.
// Providers that only accept closed objects use it to fall back to prompting.
func HasMap(raw map[string]any) bool {
	if _, ok := raw["additionalProperties"].(map[string]any); ok {
		return true
	}
	if props, ok := raw["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok && HasMap(pm) {
				return true
			}
		}
	}
	if items, ok := raw["items"].(map[string]any); ok {
		return HasMap(items)
	}
	return false
}
