package openai

import (
	"testing"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchemaFormatStrict(t *testing.T) {
	rs := &ai.ResponseSchema{
		Name: "drug_info",
		Schema: schema.Object().
			Field("reasoning", schema.Reasoning()).
			Field("drugs", schema.StringMatrix("triples").Required()).
			Field("note", schema.String()).
			MustBuild(),
	}

	format, err := buildSchemaFormat(rs, true)
	require.NoError(t, err)
	require.NotNil(t, format.OfJSONSchema)

	js := format.OfJSONSchema.JSONSchema
	assert.Equal(t, "drug_info", js.Name)
	assert.True(t, js.Strict.Value)

	m := js.Schema.(map[string]any)
	assert.Equal(t, false, m["additionalProperties"])
	assert.ElementsMatch(t, []any{"reasoning", "drugs", "note"}, m["required"])
}

func TestBuildSchemaFormatMapDisablesStrict(t *testing.T) {
	rs := &ai.ResponseSchema{
		Schema: schema.Object().
			Field("categories", schema.StringMap("categories").Required()).
			MustBuild(),
	}

	format, err := buildSchemaFormat(rs, true)
	require.NoError(t, err)

	js := format.OfJSONSchema.JSONSchema
	assert.Equal(t, "response_schema", js.Name)
	assert.False(t, js.Strict.Value)

	props := js.Schema.(map[string]any)["properties"].(map[string]any)
	cats := props["categories"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, cats["additionalProperties"])
}

func TestBuildSchemaFormatInvalidJSON(t *testing.T) {
	_, err := buildSchemaFormat(&ai.ResponseSchema{Name: "x", Schema: []byte("{")}, true)
	assert.True(t, ai.IsUserInput(err))
}

func TestConvertMessages(t *testing.T) {
	msgs := convertMessages([]ai.Message{
		ai.SystemMessage("sys"),
		ai.UserMessage("hi"),
		ai.AssistantMessage(""),
		ai.AssistantMessage("answer"),
	})
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}
