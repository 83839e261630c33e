package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is the interface implemented by all schema builders.
// It provides a fluent API for constructing JSON Schema objects.
type Builder interface {
	// Build serializes the schema to json.RawMessage.
	// Returns an error if the schema is invalid.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	// schema returns the internal representation for composition.
	schema() *schemaNode
}

// schemaNode is the internal representation of a JSON Schema.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Integer constraints
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Array constraints
	Items    *schemaNode `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	// Object constraints. AdditionalProperties holds either a *bool or, for
	// maps, the *schemaNode every value must satisfy.
	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties any                    `json:"additionalProperties,omitempty"`
}

// Sentinel errors for schema construction.
var (
	// ErrInvalidRange is returned when min exceeds max.
	ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

	// ErrInvalidPattern is returned when a regex pattern is invalid.
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")

	// ErrNilItems is returned when an array has no items schema.
	ErrNilItems = errors.New("schema: array requires items schema")
)

// ValidationError represents an inconsistent schema definition.
type ValidationError struct {
	Field   string // The field name (for objects)
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validate checks the schema for internal consistency.
func (s *schemaNode) validate() error {
	switch s.Type {
	case "string":
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return &ValidationError{Message: "minLength exceeds maxLength", Err: ErrInvalidRange}
		}
		if s.Pattern != "" {
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return &ValidationError{
					Message: fmt.Sprintf("invalid pattern %q: %v", s.Pattern, err),
					Err:     ErrInvalidPattern,
				}
			}
		}

	case "integer":
		if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
			return &ValidationError{Message: "minimum exceeds maximum", Err: ErrInvalidRange}
		}

	case "array":
		if s.Items == nil {
			return &ValidationError{Message: "array requires items schema", Err: ErrNilItems}
		}
		if s.MinItems != nil && s.MaxItems != nil && *s.MinItems > *s.MaxItems {
			return &ValidationError{Message: "minItems exceeds maxItems", Err: ErrInvalidRange}
		}
		if err := s.Items.validate(); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid items schema: %v", err), Err: err}
		}

	case "object":
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
		if values, ok := s.AdditionalProperties.(*schemaNode); ok {
			if err := values.validate(); err != nil {
				return &ValidationError{Message: fmt.Sprintf("invalid map values schema: %v", err), Err: err}
			}
		}
	}
	return nil
}

// node is embedded by every builder and supplies the shared terminal methods.
type node struct {
	n *schemaNode
}

// Build serializes the schema to json.RawMessage.
func (b node) Build() (json.RawMessage, error) {
	if err := b.n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.n)
}

// MustBuild is like Build but panics on error.
func (b node) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

// Required marks this field as required when used in an object.
// Returns a RequiredField wrapper for use with ObjectBuilder.Field().
func (b node) Required() *RequiredField {
	return &RequiredField{node: b.n}
}

func (b node) schema() *schemaNode {
	return b.n
}

// RequiredField wraps a schema to mark it as required in an object.
type RequiredField struct {
	node *schemaNode
}

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}
