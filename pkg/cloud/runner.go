package cloud

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"

	"github.com/wordhaze/wordhaze/pkg/cache"
	"github.com/wordhaze/wordhaze/pkg/errors"
	"github.com/wordhaze/wordhaze/pkg/fonts"
	"github.com/wordhaze/wordhaze/pkg/frequency"
	"github.com/wordhaze/wordhaze/pkg/layout"
	"github.com/wordhaze/wordhaze/pkg/observability"
	"github.com/wordhaze/wordhaze/pkg/render"
	"github.com/wordhaze/wordhaze/pkg/sat"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Reuse one Runner across runs to share the cache handle.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete analyze → plan → render pipeline with caching.
//
// With a seed set, the run is bit-for-bit reproducible and the rendered PNG
// is cached under a key derived from the text hash and every option that
// influences the output. Without a seed the run is nondeterministic and the
// artifact cache is skipped.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Resolve collaborators up front: their identity goes into the cache key.
	font, fontHash, err := r.resolveFont(opts)
	if err != nil {
		return nil, err
	}
	mask, maskHash, err := r.loadMask(opts)
	if err != nil {
		return nil, err
	}
	if mask != nil {
		result.Width, result.Height = mask.Width, mask.Height
	} else {
		result.Width, result.Height = opts.Width, opts.Height
	}

	textHash := cache.Hash([]byte(text))
	freqKey := r.Keyer.FrequencyKey(textHash, opts.FrequencyKeyOpts())
	// Chain the frequency key into the artifact key so analyzer options
	// invalidate rendered artifacts too.
	artifactKey := r.Keyer.ArtifactKey(freqKey, opts.ArtifactKeyOpts(maskHash, fontHash))

	cacheable := opts.HasSeed
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, artifactKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.PNG = data
			result.CacheInfo.ArtifactHit = true
			r.Logger.Debug("artifact cache hit", "bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Stage 1: Analyze
	analyzeStart := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, len(text))
	words, err := r.analyze(text, opts)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	observability.Pipeline().OnAnalyzeComplete(ctx, len(words), result.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, err
	}
	result.Words = words
	result.Stats.WordCount = len(words)
	r.Logger.Info("analyzed text",
		"words", len(words),
		"duration", result.Stats.AnalyzeTime)

	// One RNG stream drives orientation draws, position sampling, and word
	// colors, in that order, so a fixed seed reproduces everything.
	seed := opts.Seed
	if !opts.HasSeed {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	// Stage 2: Plan
	occ, err := r.buildOccupancy(mask, opts)
	if err != nil {
		return nil, err
	}
	measurer := render.NewFaceMeasurer(font)

	planStart := time.Now()
	observability.Pipeline().OnPlanStart(ctx, len(words), occ.Masked())
	placed, err := layout.Plan(words, measurer, occ, rng, opts.LayoutOptions())
	result.Stats.PlanTime = time.Since(planStart)
	observability.Pipeline().OnPlanComplete(ctx, len(placed), result.Stats.PlanTime, err)
	if err != nil {
		return nil, err
	}
	result.Placed = placed
	result.Stats.PlacedCount = len(placed)
	r.Logger.Info("planned placements",
		"placed", len(placed),
		"skipped", len(words)-len(placed),
		"duration", result.Stats.PlanTime)

	// Stage 3: Render
	background, err := opts.BackgroundColor()
	if err != nil {
		return nil, err
	}
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, result.Width, result.Height, opts.Scale)
	compositor := render.NewCompositor(measurer, background, opts.Colors)
	img, err := compositor.Render(placed, result.Width, result.Height, opts.Scale, rng)
	if err == nil {
		result.PNG, err = render.EncodePNG(img)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, len(result.PNG), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("rendered image",
		"bytes", len(result.PNG),
		"duration", result.Stats.RenderTime)

	if cacheable {
		if err := r.Cache.Set(ctx, artifactKey, result.PNG, DefaultArtifactTTL); err != nil {
			r.Logger.Debug("artifact cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(result.PNG))
		}
	}
	return result, nil
}

// Analyze runs only the frequency stage. Used by the analyze command.
func (r *Runner) Analyze(ctx context.Context, text string, opts Options) ([]frequency.WordFrequency, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, len(text))
	words, err := r.analyze(text, opts)
	observability.Pipeline().OnAnalyzeComplete(ctx, len(words), time.Since(start), err)
	return words, err
}

// Close releases the cache handle.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// analyze builds the segmenter and analyzer from the options and runs them.
func (r *Runner) analyze(text string, opts Options) ([]frequency.WordFrequency, error) {
	seg, err := frequency.NewGseSegmenter(opts.CustomWords...)
	if err != nil {
		return nil, err
	}
	analyzer, err := frequency.NewAnalyzer(seg, opts.FrequencyConfig())
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(text)
}

// resolveFont loads the configured font, or the process default.
// The returned hash identifies the font in cache keys.
func (r *Runner) resolveFont(opts Options) (*truetype.Font, string, error) {
	if opts.FontPath != "" {
		f, err := fonts.Load(opts.FontPath)
		if err != nil {
			return nil, "", err
		}
		return f, cache.Hash([]byte(opts.FontPath)), nil
	}
	f, err := fonts.Default()
	if err != nil {
		return nil, "", err
	}
	return f, "default", nil
}

// loadMask reads and decodes the mask when configured.
func (r *Runner) loadMask(opts Options) (*render.Mask, string, error) {
	if opts.MaskPath == "" {
		return nil, "", nil
	}
	data, err := os.ReadFile(opts.MaskPath)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err,
			"failed to read mask file %s", opts.MaskPath)
	}
	mask, err := render.DecodeMask(data)
	if err != nil {
		return nil, "", err
	}
	return mask, cache.Hash(data), nil
}

// buildOccupancy creates the occupancy model for the run: seeded from the
// mask in mask mode, empty otherwise.
func (r *Runner) buildOccupancy(mask *render.Mask, opts Options) (*sat.Occupancy, error) {
	if mask != nil {
		return mask.Occupancy()
	}
	return sat.New(opts.Width, opts.Height)
}

// applyLogger ensures opts carries the runner's logger when none was set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
