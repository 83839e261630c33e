package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestScalarBuilders(t *testing.T) {
	tests := []struct {
		name    string
		builder Builder
		want    map[string]any
	}{
		{"string", String(), map[string]any{"type": "string"}},
		{"string desc", String().Desc("A name"), map[string]any{"type": "string", "description": "A name"}},
		{"string enum", String().Enum("a", "b"), map[string]any{"type": "string", "enum": []any{"a", "b"}}},
		{"string length", String().MinLength(1).MaxLength(9), map[string]any{"type": "string", "minLength": float64(1), "maxLength": float64(9)}},
		{"integer", Integer().Min(0).Max(10), map[string]any{"type": "integer", "minimum": float64(0), "maximum": float64(10)}},
		{"boolean", Boolean().Desc("flag"), map[string]any{"type": "boolean", "description": "flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.builder.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, decode(t, got))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder Builder
		wantErr error
	}{
		{"string range", String().MinLength(10).MaxLength(1), ErrInvalidRange},
		{"bad pattern", String().Pattern(`[oops`), ErrInvalidPattern},
		{"int range", Int().Min(5).Max(1), ErrInvalidRange},
		{"array range", Array(String()).MinItems(3).MaxItems(1), ErrInvalidRange},
		{"nested field", Object().Field("n", Int().Min(2).Max(1)), ErrInvalidRange},
		{"map values", Map(String().MinLength(3).MaxLength(1)), ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() { Int().Min(5).Max(1).MustBuild() })
}

func TestObjectBuilder(t *testing.T) {
	raw := Object().
		Field("reasoning", Reasoning()).
		Field("drugs", StringMatrix("drug, analyte, specimen triples").Required()).
		Field("note", String()).
		StrictMode().
		MustBuild()

	m := decode(t, raw)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []any{"reasoning", "drugs"}, m["required"])
	assert.Equal(t, false, m["additionalProperties"])

	props := m["properties"].(map[string]any)
	drugs := props["drugs"].(map[string]any)
	assert.Equal(t, "array", drugs["type"])
	assert.Equal(t, "array", drugs["items"].(map[string]any)["type"])
}

func TestObjectRequiredDeduplicated(t *testing.T) {
	m := decode(t, Object().
		Field("a", String().Required()).
		Field("a", String().Required()).
		MustBuild())
	assert.Equal(t, []any{"a"}, m["required"])
}

func TestObjectFieldPanicsOnBadType(t *testing.T) {
	assert.Panics(t, func() { Object().Field("x", 42) })
}

func TestMapBuilder(t *testing.T) {
	m := decode(t, StringMap("header to category").MustBuild())
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, map[string]any{"type": "string"}, m["additionalProperties"])
	assert.True(t, HasMap(m))

	assert.False(t, HasMap(decode(t, Object().Field("x", StringList("x")).MustBuild())))
	assert.True(t, HasMap(decode(t, Object().Field("x", StringMap("x")).MustBuild())))
	assert.True(t, HasMap(decode(t, Array(StringMap("x")).MustBuild())))
}

func TestValidate(t *testing.T) {
	sch := Object().
		Field("reasoning", Reasoning()).
		Field("categories", StringMap("categories").Required()).
		Field("count", Integer().Min(0)).
		MustBuild()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"reasoning":"r","categories":{"Drug":"Drug name"},"count":2}`, false},
		{"missing required", `{"reasoning":"r"}`, true},
		{"wrong map value", `{"reasoning":"r","categories":{"Drug":1}}`, true},
		{"below minimum", `{"reasoning":"r","categories":{},"count":-1}`, true},
		{"not json", `{"reasoning":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(sch, tt.doc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEmptySchema(t *testing.T) {
	assert.NoError(t, Validate(nil, "free text"))
}

func TestValidateCachesCompiledSchema(t *testing.T) {
	sch := Array(String()).MustBuild()
	require.NoError(t, Validate(sch, `["a"]`))
	require.NoError(t, Validate(sch, `["b","c"]`))

	compiled.RLock()
	defer compiled.RUnlock()
	_, ok := compiled.cache[string(sch)]
	assert.True(t, ok)
}
