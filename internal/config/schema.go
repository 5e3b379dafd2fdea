package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/pdftext"
)

// ErrInvalid is returned when a loaded configuration cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds outline configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Pipeline outline.Params `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Extract  pdftext.Config `mapstructure:"extract" yaml:"extract" json:"extract"`
	Batch    BatchCfg       `mapstructure:"batch" yaml:"batch" json:"batch"`
	Server   ServerCfg      `mapstructure:"server" yaml:"server" json:"server"`
}

// BatchCfg configures directory and file batch runs.
type BatchCfg struct {
	// Workers is the number of documents processed concurrently.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
	// OutputDir is where outline files are written. Empty means {home}/output.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	// Format is "json" or "yaml".
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host          string        `mapstructure:"host" yaml:"host" json:"host"`
	Port          string        `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB   int64         `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace" json:"shutdown_grace"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: outline.DefaultParams(),
		Extract:  pdftext.DefaultConfig(),
		Batch: BatchCfg{
			Workers: 4,
			Format:  "json",
		},
		Server: ServerCfg{
			Host:          "127.0.0.1",
			Port:          "8080",
			MaxUploadMB:   100,
			ShutdownGrace: 10 * time.Second,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch {
	case c.Extract.RowTolerance < 0:
		return fmt.Errorf("%w: extract.row_tolerance must not be negative", ErrInvalid)
	case c.Extract.WordMargin <= 0 || c.Extract.CharMargin <= c.Extract.WordMargin:
		return fmt.Errorf("%w: extract.char_margin must exceed extract.word_margin", ErrInvalid)
	case c.Batch.Workers < 1:
		return fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalid)
	case c.Batch.Format != "json" && c.Batch.Format != "yaml":
		return fmt.Errorf("%w: batch.format must be json or yaml", ErrInvalid)
	case c.Server.MaxUploadMB < 1:
		return fmt.Errorf("%w: server.max_upload_mb must be at least 1", ErrInvalid)
	}
	return nil
}

// Addr returns the listen address of the server.
func (s ServerCfg) Addr() string {
	return s.Host + ":" + s.Port
}
