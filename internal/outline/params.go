package outline

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid pipeline parameters")

// Params holds the numeric tolerances and cutoffs of the pipeline.
// The defaults reproduce the reference behaviour; they are empirical and exposed
// through configuration so they can be tuned per corpus.
type Params struct {
	// ClusterTolerance is the absolute font-size distance (pt) within which two
	// sizes belong to the same level.
	ClusterTolerance float64 `mapstructure:"cluster_tolerance" yaml:"cluster_tolerance" json:"cluster_tolerance"`

	// ColonSizeTolerance is the size difference (pt) above which the text after a
	// colon counts as differently styled.
	ColonSizeTolerance float64 `mapstructure:"colon_size_tolerance" yaml:"colon_size_tolerance" json:"colon_size_tolerance"`

	// Classifier thresholds.
	SentenceMinLength int     `mapstructure:"sentence_min_length" yaml:"sentence_min_length" json:"sentence_min_length"`
	SentenceMinSpaces int     `mapstructure:"sentence_min_spaces" yaml:"sentence_min_spaces" json:"sentence_min_spaces"`
	CenterBand        float64 `mapstructure:"center_band" yaml:"center_band" json:"center_band"`
	TopBand           float64 `mapstructure:"top_band" yaml:"top_band" json:"top_band"`
	MaxWords          int     `mapstructure:"max_words" yaml:"max_words" json:"max_words"`
	MinLength         int     `mapstructure:"min_length" yaml:"min_length" json:"min_length"`
	MaxLength         int     `mapstructure:"max_length" yaml:"max_length" json:"max_length"`

	// Vertical grouping.
	GroupSizeTolerance float64 `mapstructure:"group_size_tolerance" yaml:"group_size_tolerance" json:"group_size_tolerance"`
	GroupGap           float64 `mapstructure:"group_gap" yaml:"group_gap" json:"group_gap"`
	GroupGapExtended   float64 `mapstructure:"group_gap_extended" yaml:"group_gap_extended" json:"group_gap_extended"`

	// Breakpoint filtering.
	BreakpointThreshold       int `mapstructure:"breakpoint_threshold" yaml:"breakpoint_threshold" json:"breakpoint_threshold"`
	MaxLevelWithBreakpoint    int `mapstructure:"max_level_with_breakpoint" yaml:"max_level_with_breakpoint" json:"max_level_with_breakpoint"`
	MaxLevelWithoutBreakpoint int `mapstructure:"max_level_without_breakpoint" yaml:"max_level_without_breakpoint" json:"max_level_without_breakpoint"`
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		ClusterTolerance:          0.1,
		ColonSizeTolerance:        0.5,
		SentenceMinLength:         20,
		SentenceMinSpaces:         5,
		CenterBand:                0.3,
		TopBand:                   0.3,
		MaxWords:                  10,
		MinLength:                 2,
		MaxLength:                 100,
		GroupSizeTolerance:        0.5,
		GroupGap:                  50,
		GroupGapExtended:          80,
		BreakpointThreshold:       14,
		MaxLevelWithBreakpoint:    6,
		MaxLevelWithoutBreakpoint: 5,
	}
}

// MaxOutlineLevel is the deepest level an outline entry may carry (H6).
const MaxOutlineLevel = 6

// Validate checks that the parameters describe a usable pipeline.
func (p Params) Validate() error {
	switch {
	case p.ClusterTolerance <= 0:
		return fmt.Errorf("%w: cluster_tolerance must be positive", ErrInvalidParams)
	case p.ColonSizeTolerance < 0:
		return fmt.Errorf("%w: colon_size_tolerance must not be negative", ErrInvalidParams)
	case p.CenterBand < 0 || p.CenterBand > 1:
		return fmt.Errorf("%w: center_band must be within [0,1]", ErrInvalidParams)
	case p.TopBand < 0 || p.TopBand > 1:
		return fmt.Errorf("%w: top_band must be within [0,1]", ErrInvalidParams)
	case p.MinLength > p.MaxLength:
		return fmt.Errorf("%w: min_length exceeds max_length", ErrInvalidParams)
	case p.GroupGap < 0 || p.GroupGapExtended < p.GroupGap:
		return fmt.Errorf("%w: group_gap_extended must be at least group_gap", ErrInvalidParams)
	case p.BreakpointThreshold < 1:
		return fmt.Errorf("%w: breakpoint_threshold must be at least 1", ErrInvalidParams)
	case p.MaxLevelWithBreakpoint < 1 || p.MaxLevelWithoutBreakpoint < 1:
		return fmt.Errorf("%w: level caps must be at least 1", ErrInvalidParams)
	case p.MaxLevelWithBreakpoint > MaxOutlineLevel || p.MaxLevelWithoutBreakpoint > MaxOutlineLevel:
		return fmt.Errorf("%w: level caps must not exceed %d", ErrInvalidParams, MaxOutlineLevel)
	}
	return nil
}
