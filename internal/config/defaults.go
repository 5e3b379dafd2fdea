package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is a single configuration key with its default value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default.
// These seed viper so each key can be overridden by file or environment.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	p := d.Pipeline
	return []Entry{
		// ===================
		// Pipeline
		// ===================
		{
			Key:         "pipeline.cluster_tolerance",
			Value:       p.ClusterTolerance,
			Description: "Font size distance (pt) within which sizes share a heading level",
		},
		{
			Key:         "pipeline.colon_size_tolerance",
			Value:       p.ColonSizeTolerance,
			Description: "Size difference (pt) that marks text after a colon as differently styled",
		},
		{
			Key:         "pipeline.sentence_min_length",
			Value:       p.SentenceMinLength,
			Description: "Lines longer than this with a comma and many spaces are sentences",
		},
		{
			Key:         "pipeline.sentence_min_spaces",
			Value:       p.SentenceMinSpaces,
			Description: "Space count above which a long comma line is a sentence",
		},
		{
			Key:         "pipeline.center_band",
			Value:       p.CenterBand,
			Description: "Fraction of page width around the center that counts as centered",
		},
		{
			Key:         "pipeline.top_band",
			Value:       p.TopBand,
			Description: "Fraction of page height from the top that counts as top of page",
		},
		{
			Key:         "pipeline.max_words",
			Value:       p.MaxWords,
			Description: "Lines with more words are rejected as headings",
		},
		{
			Key:         "pipeline.min_length",
			Value:       p.MinLength,
			Description: "Shortest heading text in characters",
		},
		{
			Key:         "pipeline.max_length",
			Value:       p.MaxLength,
			Description: "Longest heading text in characters",
		},
		{
			Key:         "pipeline.group_size_tolerance",
			Value:       p.GroupSizeTolerance,
			Description: "Size difference (pt) within which stacked lines merge",
		},
		{
			Key:         "pipeline.group_gap",
			Value:       p.GroupGap,
			Description: "Vertical gap (pt) from the first line within which stacked lines merge",
		},
		{
			Key:         "pipeline.group_gap_extended",
			Value:       p.GroupGapExtended,
			Description: "Vertical gap (pt) allowed once a group has two or more lines",
		},
		{
			Key:         "pipeline.breakpoint_threshold",
			Value:       p.BreakpointThreshold,
			Description: "Line count at which a level is treated as body text",
		},
		{
			Key:         "pipeline.max_level_with_breakpoint",
			Value:       p.MaxLevelWithBreakpoint,
			Description: "Deepest level kept when a breakpoint exists (1-6)",
		},
		{
			Key:         "pipeline.max_level_without_breakpoint",
			Value:       p.MaxLevelWithoutBreakpoint,
			Description: "Deepest level kept when no breakpoint exists (1-6)",
		},

		// ===================
		// Extraction
		// ===================
		{
			Key:         "extract.row_tolerance",
			Value:       d.Extract.RowTolerance,
			Description: "Baseline difference (pt) within which glyphs share a row",
		},
		{
			Key:         "extract.word_margin",
			Value:       d.Extract.WordMargin,
			Description: "Gap, as a fraction of font size, that inserts a space",
		},
		{
			Key:         "extract.char_margin",
			Value:       d.Extract.CharMargin,
			Description: "Gap, as a fraction of font size, that splits a row into lines",
		},

		// ===================
		// Batch
		// ===================
		{
			Key:         "batch.workers",
			Value:       d.Batch.Workers,
			Description: "Documents processed concurrently",
		},
		{
			Key:         "batch.output_dir",
			Value:       d.Batch.OutputDir,
			Description: "Directory for outline files (empty: {home}/output)",
		},
		{
			Key:         "batch.format",
			Value:       d.Batch.Format,
			Description: "Output file format: json or yaml",
		},

		// ===================
		// Server
		// ===================
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Interface the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Port the HTTP server listens on",
		},
		{
			Key:         "server.max_upload_mb",
			Value:       d.Server.MaxUploadMB,
			Description: "Largest accepted upload in megabytes",
		},
		{
			Key:         "server.shutdown_grace",
			Value:       d.Server.ShutdownGrace,
			Description: "Time allowed for in-flight requests on shutdown",
		},
	}
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, and underscores.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// GetDefault returns the default entry for a config key.
// Returns ErrNoDefault if the key is unknown.
func GetDefault(key string) (*Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w for key %q", ErrNoDefault, key)
}
