// Package schema holds the JSON Schemas of the files and responses outline
// produces, and validates documents against them before they leave the
// process.
package schema

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Document is the name of the outline document schema.
const Document = "document"

// Schema is a named JSON Schema.
type Schema struct {
	Name   string // Schema name (e.g., "document")
	Source []byte // JSON Schema source
}

// registry lists every embedded schema by name.
var registry = []string{Document}

// All returns all schemas sorted by name.
func All() ([]Schema, error) {
	names := make([]string, len(registry))
	copy(names, registry)
	sort.Strings(names)

	schemas := make([]Schema, 0, len(names))
	for _, name := range names {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, n := range registry {
		if n != name {
			continue
		}
		content, err := schemaFS.ReadFile(filename(n))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", n, err)
		}
		return &Schema{Name: n, Source: content}, nil
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func filename(name string) string {
	return fmt.Sprintf("schemas/%s.json", strings.ToLower(name))
}
