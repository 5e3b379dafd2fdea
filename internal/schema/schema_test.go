package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackzampolin/outline/internal/outline"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(schemas) == 0 {
		t.Fatal("expected at least one schema")
	}

	for _, s := range schemas {
		var parsed map[string]any
		if err := json.Unmarshal(s.Source, &parsed); err != nil {
			t.Errorf("schema %s is not valid JSON: %v", s.Name, err)
		}
	}
}

func TestGet(t *testing.T) {
	t.Run("existing schema", func(t *testing.T) {
		s, err := Get(Document)
		if err != nil {
			t.Fatalf("Get(document) error = %v", err)
		}
		if s.Name != Document {
			t.Errorf("expected name document, got %s", s.Name)
		}
		if len(s.Source) == 0 {
			t.Error("schema source is empty")
		}
	})

	t.Run("non-existent schema", func(t *testing.T) {
		if _, err := Get("NonExistent"); err == nil {
			t.Error("expected error for non-existent schema")
		}
	})
}

func TestValidateDocument(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	tests := []struct {
		name    string
		doc     outline.Document
		wantErr bool
	}{
		{
			name: "valid",
			doc: outline.Document{Title: "Report", Outline: []outline.Entry{
				{Level: 1, Text: "Introduction", Page: 1},
				{Level: 6, Text: "Detail", Page: 12},
			}},
		},
		{
			name: "empty outline",
			doc:  outline.Document{Title: outline.Untitled, Outline: []outline.Entry{}},
		},
		{
			name:    "nil outline encodes as null",
			doc:     outline.Document{Title: "Report"},
			wantErr: true,
		},
		{
			name:    "level too deep",
			doc:     outline.Document{Title: "Report", Outline: []outline.Entry{{Level: 7, Text: "Deep", Page: 1}}},
			wantErr: true,
		},
		{
			name:    "body level",
			doc:     outline.Document{Title: "Report", Outline: []outline.Entry{{Level: outline.LevelBody, Text: "Body", Page: 1}}},
			wantErr: true,
		},
		{
			name:    "page zero",
			doc:     outline.Document{Title: "Report", Outline: []outline.Entry{{Level: 1, Text: "Intro", Page: 0}}},
			wantErr: true,
		},
		{
			name:    "empty text",
			doc:     outline.Document{Title: "Report", Outline: []outline.Entry{{Level: 1, Text: "", Page: 1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDocument(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}

	t.Run("unknown schema", func(t *testing.T) {
		if err := v.Validate("missing", struct{}{}); err == nil || errors.Is(err, ErrInvalidDocument) {
			t.Errorf("expected lookup error, got %v", err)
		}
	})
}
