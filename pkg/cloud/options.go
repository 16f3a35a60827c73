// Package cloud provides the core word cloud pipeline.
//
// This package implements the complete analyze → plan → render pipeline that
// can be used by the CLI or embedded directly. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Analyze: Turn raw text into a ranked, normalized word list
//  2. Plan: Greedily place each word on the shrinking canvas
//  3. Render: Composite the placements into a PNG
//
// The whole run is single-threaded and synchronous: each placement mutates
// occupancy state the next word's search depends on, so there is no
// parallelism across words. A caller wanting bounded latency must impose its
// own wall-clock cutoff around Execute.
//
// # Usage
//
//	runner := cloud.NewRunner(cache, nil, logger)
//	opts := cloud.Options{Width: 800, Height: 600, Seed: 42, HasSeed: true}
//	result, err := runner.Execute(ctx, text, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("cloud.png", result.PNG, 0644)
package cloud

import (
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/wordhaze/wordhaze/pkg/cache"
	"github.com/wordhaze/wordhaze/pkg/errors"
	"github.com/wordhaze/wordhaze/pkg/frequency"
	"github.com/wordhaze/wordhaze/pkg/layout"
	"github.com/wordhaze/wordhaze/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Embedders
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600

	// DefaultScale is the default output resolution multiplier.
	DefaultScale = 1.0

	// DefaultBackground is the default background color.
	DefaultBackground = "#000000"

	// DefaultMaxWords is the default truncation limit for the ranked list.
	DefaultMaxWords = 200

	// DefaultMinFontSize is the hard lower bound of the size search.
	DefaultMinFontSize = 4.0

	// DefaultFontStep is the decay granularity of the size search.
	DefaultFontStep = 1.0

	// DefaultWordMargin is the padding added around each word's bounding box.
	DefaultWordMargin = 2

	// DefaultRotateChance is the probability of an initially rotated word.
	DefaultRotateChance = 0.10

	// DefaultRelativeScaling blends neighboring words' frequency ratio into
	// size inheritance.
	DefaultRelativeScaling = 0.5

	// DefaultArtifactTTL is how long rendered artifacts stay cached.
	DefaultArtifactTTL = 7 * 24 * time.Hour
)

// Options contains all configuration for the word cloud pipeline.
// This struct supports TOML deserialization for config files.
type Options struct {
	// Canvas options. MaskPath switches to mask mode: the canvas takes the
	// mask's dimensions and placement is constrained to its silhouette.
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	MaskPath   string  `toml:"mask"`
	Scale      float64 `toml:"scale"`
	Background string  `toml:"background"`

	// Analyzer options
	Pattern        string   `toml:"pattern"`
	MinWordLength  int      `toml:"min_word_length"`
	ExcludeNumbers bool     `toml:"exclude_numbers"`
	ExcludeWords   []string `toml:"exclude_words"`
	CustomWords    []string `toml:"custom_words"`
	MaxWords       int      `toml:"max_words"`

	// Placement options
	FontPath        string  `toml:"font"`
	WordMargin      int     `toml:"word_margin"`
	MinFontSize     float64 `toml:"min_font_size"`
	MaxFontSize     float64 `toml:"max_font_size"`
	FontStep        float64 `toml:"font_step"`
	Repeat          bool    `toml:"repeat"`
	RotateChance    float64 `toml:"rotate_chance"`
	RelativeScaling float64 `toml:"relative_scaling"`

	// Seed makes the run reproducible. HasSeed distinguishes an explicit
	// zero seed from an unset one; unset means nondeterministic (and
	// disables artifact caching, since the output is not reproducible).
	Seed    uint64 `toml:"seed"`
	HasSeed bool   `toml:"-"`

	// Refresh bypasses the artifact cache for this run.
	Refresh bool `toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger      `toml:"-"`
	Colors render.ColorFunc `toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `toml:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Words is the ranked, normalized word list. Empty on a full artifact
	// cache hit, which skips analysis entirely.
	Words []frequency.WordFrequency

	// Placed is the ordered placement sequence. Empty on an artifact hit.
	Placed []layout.PlacedWord

	// PNG is the rendered image.
	PNG []byte

	// Width, Height are the canvas dimensions actually used (the mask's in
	// mask mode).
	Width  int
	Height int

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WordCount   int
	PlacedCount int
	AnalyzeTime time.Duration
	PlanTime    time.Duration
	RenderTime  time.Duration
}

// Skipped returns the number of ranked words that found no position.
func (s Stats) Skipped() int {
	return s.WordCount - s.PlacedCount
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	ArtifactHit bool // Whether the rendered PNG came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.MaskPath == "" {
		if o.Width == 0 {
			o.Width = DefaultWidth
		}
		if o.Height == 0 {
			o.Height = DefaultHeight
		}
		if o.Width <= 0 || o.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig,
				"canvas dimensions must be positive, got %dx%d", o.Width, o.Height)
		}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if _, err := o.BackgroundColor(); err != nil {
		return err
	}

	if o.MaxWords == 0 {
		o.MaxWords = DefaultMaxWords
	} else if o.MaxWords < 0 {
		o.MaxWords = 0 // explicit negative means unlimited
	}

	if o.MinFontSize == 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.MinFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"min font size must not be negative, got %g", o.MinFontSize)
	}
	if o.MaxFontSize != 0 && o.MaxFontSize < o.MinFontSize {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max font size %g is below min font size %g", o.MaxFontSize, o.MinFontSize)
	}
	if o.FontStep == 0 {
		o.FontStep = DefaultFontStep
	}
	if o.FontStep <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font step must be positive, got %g", o.FontStep)
	}
	if o.WordMargin == 0 {
		o.WordMargin = DefaultWordMargin
	}
	if o.WordMargin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"word margin must not be negative, got %d", o.WordMargin)
	}
	if o.RotateChance == 0 {
		o.RotateChance = DefaultRotateChance
	}
	if o.RotateChance < 0 || o.RotateChance > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"rotate chance must be in [0,1], got %g", o.RotateChance)
	}
	if o.RelativeScaling == 0 {
		o.RelativeScaling = DefaultRelativeScaling
	} else if o.RelativeScaling < 0 {
		o.RelativeScaling = 0 // explicit negative disables scaling
	}
	if o.RelativeScaling > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"relative scaling must be in [0,1], got %g", o.RelativeScaling)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Colors == nil {
		o.Colors = render.RandomHue
	}

	o.validated = true
	return nil
}

// BackgroundColor parses the configured background into a color.
func (o *Options) BackgroundColor() (color.Color, error) {
	s := o.Background
	if s == "" {
		s = DefaultBackground
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err,
			"invalid background color %q (expected #rrggbb)", s)
	}
	return c, nil
}

// FrequencyConfig maps the analyzer-facing options.
func (o *Options) FrequencyConfig() frequency.Config {
	return frequency.Config{
		Pattern:        o.Pattern,
		MinWordLength:  o.MinWordLength,
		ExcludeNumbers: o.ExcludeNumbers,
		ExcludeWords:   o.ExcludeWords,
		MaxWords:       o.MaxWords,
	}
}

// LayoutOptions maps the planner-facing options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		MinFontSize:     o.MinFontSize,
		MaxFontSize:     o.MaxFontSize,
		FontStep:        o.FontStep,
		WordMargin:      o.WordMargin,
		RotateChance:    o.RotateChance,
		RelativeScaling: o.RelativeScaling,
		Repeat:          o.Repeat,
	}
}

// ArtifactKeyOpts returns cache key options for the rendered artifact.
func (o *Options) ArtifactKeyOpts(maskHash, fontHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Width:           o.Width,
		Height:          o.Height,
		MaskHash:        maskHash,
		Scale:           o.Scale,
		Background:      o.Background,
		WordMargin:      o.WordMargin,
		MinFontSize:     o.MinFontSize,
		MaxFontSize:     o.MaxFontSize,
		FontStep:        o.FontStep,
		FontHash:        fontHash,
		Seed:            o.Seed,
		Repeat:          o.Repeat,
		RotateChance:    o.RotateChance,
		RelativeScaling: o.RelativeScaling,
	}
}

// FrequencyKeyOpts returns cache key options for the analyzed word list.
func (o *Options) FrequencyKeyOpts() cache.FrequencyKeyOpts {
	return cache.FrequencyKeyOpts{
		Pattern:        o.Pattern,
		MinWordLength:  o.MinWordLength,
		ExcludeNumbers: o.ExcludeNumbers,
		ExcludeWords:   o.ExcludeWords,
		MaxWords:       o.MaxWords,
		CustomWords:    o.CustomWords,
	}
}
