package schema

// String creates a new string schema builder.
func String() *StringBuilder {
	return &StringBuilder{node{&schemaNode{Type: "string"}}}
}

// StringBuilder constructs string type schemas.
type StringBuilder struct {
	node
}

// Desc sets the description for this field.
func (b *StringBuilder) Desc(description string) *StringBuilder {
	b.n.Description = description
	return b
}

// Enum restricts the value to one of the provided options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// MinLength sets the minimum string length.
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.n.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum string length.
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.n.MaxLength = ptr(n)
	return b
}

// Pattern sets a regex pattern the string must match.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Int creates a new integer schema builder.
func Int() *IntBuilder {
	return &IntBuilder{node{&schemaNode{Type: "integer"}}}
}

// Integer is an alias for Int.
func Integer() *IntBuilder {
	return Int()
}

// IntBuilder constructs integer type schemas.
type IntBuilder struct {
	node
}

// Desc sets the description.
func (b *IntBuilder) Desc(description string) *IntBuilder {
	b.n.Description = description
	return b
}

// Min sets the minimum value (inclusive).
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.n.Minimum = ptr(float64(n))
	return b
}

// Max sets the maximum value (inclusive).
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.n.Maximum = ptr(float64(n))
	return b
}

// Bool creates a new boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{node{&schemaNode{Type: "boolean"}}}
}

// Boolean is an alias for Bool.
func Boolean() *BoolBuilder {
	return Bool()
}

// BoolBuilder constructs boolean type schemas.
type BoolBuilder struct {
	node
}

// Desc sets the description.
func (b *BoolBuilder) Desc(description string) *BoolBuilder {
	b.n.Description = description
	return b
}
