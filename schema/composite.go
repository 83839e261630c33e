package schema

import "fmt"

// Array creates a new array schema builder with the specified item type.
func Array(items Builder) *ArrayBuilder {
	return &ArrayBuilder{node{&schemaNode{Type: "array", Items: items.schema()}}}
}

// ArrayBuilder constructs array type schemas.
type ArrayBuilder struct {
	node
}

// Desc sets the description.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.n.Description = description
	return b
}

// MinItems sets the minimum number of items.
func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	b.n.MinItems = ptr(n)
	return b
}

// MaxItems sets the maximum number of items.
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	b.n.MaxItems = ptr(n)
	return b
}

// Object creates a new object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{node{&schemaNode{
		Type:       "object",
		Properties: make(map[string]*schemaNode),
	}}}
}

// ObjectBuilder constructs object type schemas with named fields.
type ObjectBuilder struct {
	node
}

// Desc sets the description for the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.n.Description = description
	return b
}

// Field adds a field with its schema.
// The field argument can be a Builder or a *RequiredField.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.node
		b.addRequired(name)
	case Builder:
		b.n.Properties[name] = f.schema()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

// addRequired adds a field to the required list without duplicates.
func (b *ObjectBuilder) addRequired(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// StrictMode disallows properties that were not declared with Field.
func (b *ObjectBuilder) StrictMode() *ObjectBuilder {
	b.n.AdditionalProperties = ptr(false)
	return b
}

// Map creates a schema for an object with arbitrary keys whose values all
// follow the given schema.
func Map(values Builder) *MapBuilder {
	return &MapBuilder{node{&schemaNode{
		Type:                 "object",
		AdditionalProperties: values.schema(),
	}}}
}

// MapBuilder constructs mapping schemas.
type MapBuilder struct {
	node
}

// Desc sets the description.
func (b *MapBuilder) Desc(description string) *MapBuilder {
	b.n.Description = description
	return b
}
