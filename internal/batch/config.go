package batch

import (
	"log/slog"

	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/outline"
	"github.com/jackzampolin/outline/internal/pdftext"
)

// NewRunner builds a Runner backed by the PDF extractor from loaded
// configuration. v may be nil to skip output validation.
func NewRunner(cfg *config.Config, v Validator, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pl, err := outline.NewPipeline(cfg.Pipeline, logger)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Extractor: pdftext.New(cfg.Extract, cfg.Pipeline.ColonSizeTolerance, logger),
		Pipeline:  pl,
		Validator: v,
		Logger:    logger,
		Workers:   cfg.Batch.Workers,
		Format:    cfg.Batch.Format,
	}, nil
}
