package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/outline/internal/outline"
)

// ErrInvalidDocument is returned when a value does not match its schema.
var ErrInvalidDocument = errors.New("document does not match schema")

// Validator checks values against the compiled embedded schemas.
// It is safe for concurrent use.
type Validator struct {
	compiled map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	schemas, err := All()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	for _, s := range schemas {
		if err := compiler.AddResource(s.Name+".json", bytes.NewReader(s.Source)); err != nil {
			return nil, fmt.Errorf("failed to load schema %s: %w", s.Name, err)
		}
	}

	v := &Validator{compiled: make(map[string]*jsonschema.Schema, len(schemas))}
	for _, s := range schemas {
		compiled, err := compiler.Compile(s.Name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", s.Name, err)
		}
		v.compiled[s.Name] = compiled
	}
	return v, nil
}

// Validate encodes value as JSON and checks it against the named schema.
func (v *Validator) Validate(name string, value any) error {
	s, ok := v.compiled[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for validation: %w", name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode %s for validation: %w", name, err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ValidateDocument checks an outline document against the document schema.
func (v *Validator) ValidateDocument(doc outline.Document) error {
	return v.Validate(Document, doc)
}
