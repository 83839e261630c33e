package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrMismatch is returned by Validate when a document does not satisfy its schema.
var ErrMismatch = errors.New("schema: document does not match schema")

var compiled = struct {
	sync.RWMutex
	cache map[string]*jsonschema.Schema
}{cache: make(map[string]*jsonschema.Schema)}

// Validate checks a JSON document against a JSON Schema. Compiled schemas are
// cached by their text, so repeated validation against a step's static schema
// compiles once. It is safe for concurrent use.
func Validate(schemaJSON []byte, document string) error {
	if len(schemaJSON) == 0 {
		return nil
	}

	sch, err := compile(schemaJSON)
	if err != nil {
		return fmt.Errorf("schema: compile: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(document))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrMismatch, err)
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrMismatch, flatten(ve))
		}
		return fmt.Errorf("%w: %v", ErrMismatch, err)
	}
	return nil
}

func compile(schemaJSON []byte) (*jsonschema.Schema, error) {
	key := string(schemaJSON)

	compiled.RLock()
	if sch, ok := compiled.cache[key]; ok {
		compiled.RUnlock()
		return sch, nil
	}
	compiled.RUnlock()

	compiled.Lock()
	defer compiled.Unlock()

	if sch, ok := compiled.cache[key]; ok {
		return sch, nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(key))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	url := fmt.Sprintf("pkextract://response-schema/%d", len(compiled.cache))
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	compiled.cache[key] = sch
	return sch, nil
}

// flatten renders the leaf causes of a validation error as one line.
func flatten(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		return fmt.Sprintf("%s: %s", loc, ve.Error())
	}
	parts := make([]string, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		parts = append(parts, flatten(c))
	}
	return strings.Join(parts, "; ")
}
