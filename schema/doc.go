// Package schema provides a fluent API for building the JSON Schemas that
// constrain model answers, and for checking answers against them.
//
// Builders cover the field kinds extraction steps ask for: strings, integers,
// booleans, lists, nested lists and string-to-string mappings. Most response
// schemas also carry a free-text "reasoning" field kept for audit logs.
//
//	categories := schema.Object().
//		Field("reasoning", schema.Reasoning()).
//		Field("categories", schema.StringMap("Column header to category.").Required()).
//		MustBuild()
//
// Use Build() instead of MustBuild() to handle construction errors:
//
//	_, err := schema.Array(schema.String()).MinItems(5).MaxItems(1).Build()
//	// errors.Is(err, schema.ErrInvalidRange)
//
// Validate checks a model answer against a built schema:
//
//	if err := schema.Validate(categories, answer); err != nil {
//		// errors.Is(err, schema.ErrMismatch)
//	}
package schema
