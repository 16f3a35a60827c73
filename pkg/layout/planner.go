// Package layout implements the greedy placement planner for word clouds.
//
// Words arrive ranked by descending weight. For each word the planner picks
// an initial orientation at random, measures the bounding box at the current
// font size, and searches the occupancy model for a free anchor. When no
// anchor fits, the font size decays by a fixed step; when upright placement
// is exhausted, the other orientation is retried once from the word's
// original size. A word that fits nowhere is skipped; the run continues with
// the decayed size carried forward.
//
// The planner is a single-pass heuristic, not a solver: it never revisits a
// committed placement.
//
// All randomness (orientation draws, position sampling) comes from one
// explicit *rand.Rand consumed in a fixed order, so a fixed seed reproduces
// the placement sequence bit for bit.
package layout

import (
	"math/rand"

	"github.com/wordhaze/wordhaze/pkg/errors"
	"github.com/wordhaze/wordhaze/pkg/frequency"
	"github.com/wordhaze/wordhaze/pkg/sat"
)

// startHeightFactor sizes the first measurement probe relative to the canvas
// height when deriving the starting font size.
const startHeightFactor = 0.55

// Measurer is the glyph metrics boundary: the pixel bounding box of text at
// a font size, accounting for kerning and the font's natural line height.
type Measurer interface {
	Measure(text string, size float64) (width, height int, err error)
}

// PlacedWord is one committed placement. Immutable once created; the ordered
// sequence of PlacedWord records is the planner's sole output.
type PlacedWord struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`

	// X, Y anchor the drawn glyphs (top-left, margin already applied).
	X int `json:"x"`
	Y int `json:"y"`

	// Width, Height are the glyph bounding box at FontSize in the committed
	// orientation, without margin.
	Width  int `json:"width"`
	Height int `json:"height"`

	Rotated   bool    `json:"rotated"`
	Frequency float64 `json:"frequency"`
	Index     int     `json:"index"`
}

// Options bound the font-size search and orientation policy.
type Options struct {
	// MinFontSize is the hard lower bound of the size search.
	MinFontSize float64

	// MaxFontSize clamps the starting size heuristic. Zero means no clamp.
	MaxFontSize float64

	// FontStep is the decay granularity of the size search.
	FontStep float64

	// WordMargin is added to both bounding box dimensions before placement.
	WordMargin int

	// RotateChance is the probability that a word's initial orientation is
	// rotated 90 degrees.
	RotateChance float64

	// RelativeScaling blends the previous and current word's weight ratio
	// into the inherited font size. Zero disables inheritance scaling.
	RelativeScaling float64

	// Repeat disables relative scaling between words: each word attempts its
	// inherited size unscaled.
	Repeat bool
}

// Plan places the ranked words onto the occupancy model and returns the
// ordered placements.
//
// The starting font size is a heuristic seed for the decay loop, never a
// bound: the first word is measured at a fraction of the canvas height, the
// result rescaled by its aspect ratio against the canvas width, and, in mask
// mode, shrunk by the fraction of cells actually free.
//
// When relative scaling pushes the inherited size below MinFontSize the
// whole run stops: later words are ranked lower and would scale smaller
// still. A word failing at every size and orientation is skipped on its own
// and does not stop the run.
func Plan(words []frequency.WordFrequency, m Measurer, occ *sat.Occupancy, rng *rand.Rand, opts Options) ([]PlacedWord, error) {
	if len(words) == 0 {
		return nil, errors.New(errors.ErrCodeNoWords, "no words to place")
	}

	fontSize, err := startingFontSize(words[0].Text, m, occ, opts)
	if err != nil {
		return nil, err
	}

	placed := make([]PlacedWord, 0, len(words))
	lastFreq := 1.0
	for _, wf := range words {
		if !opts.Repeat && opts.RelativeScaling != 0 {
			fontSize *= opts.RelativeScaling*(wf.Weight/lastFreq) + (1 - opts.RelativeScaling)
		}
		if fontSize < opts.MinFontSize {
			break
		}

		result, newSize, err := placeWord(wf.Text, fontSize, m, occ, rng, opts)
		fontSize = newSize
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue // skipped; decayed size carries forward
		}

		result.word.Frequency = wf.Weight
		result.word.Index = len(placed)
		placed = append(placed, *result.word)
		occ.Commit(result.rect, result.anchor)
		lastFreq = wf.Weight
	}
	return placed, nil
}

// placement couples a PlacedWord with the margin-padded rectangle and anchor
// to commit to the occupancy model.
type placement struct {
	word   *PlacedWord
	rect   sat.Rect
	anchor sat.Point
}

// placeWord runs the size/orientation search for one word. It returns the
// placement (nil when the word fails at every size and orientation) and the
// font size the search ended on, which the caller inherits either way.
func placeWord(text string, fontSize float64, m Measurer, occ *sat.Occupancy, rng *rand.Rand, opts Options) (*placement, float64, error) {
	initialSize := fontSize
	rotated := rng.Float64() < opts.RotateChance
	triedBoth := false

	for {
		gw, gh, err := m.Measure(text, fontSize)
		if err != nil {
			return nil, fontSize, errors.Wrap(errors.ErrCodeInvalidFont, err,
				"failed to measure %q at size %.1f", text, fontSize)
		}
		if rotated {
			gw, gh = gh, gw
		}
		rect := sat.Rect{Width: gw + opts.WordMargin, Height: gh + opts.WordMargin}

		if rect.Width > occ.Width() || rect.Height > occ.Height() {
			next, ok := stepDown(fontSize, opts)
			if !ok {
				return nil, fontSize, nil
			}
			fontSize = next
			continue
		}

		if p, ok := occ.FindFree(rect, rng); ok {
			half := opts.WordMargin / 2
			return &placement{
				word: &PlacedWord{
					Text:     text,
					FontSize: fontSize,
					X:        p.X + half,
					Y:        p.Y + half,
					Width:    gw,
					Height:   gh,
					Rotated:  rotated,
				},
				rect:   rect,
				anchor: p,
			}, fontSize, nil
		}

		if next, ok := stepDown(fontSize, opts); ok {
			fontSize = next
		} else if !triedBoth {
			// One retry with the orientation toggled, from the original size.
			rotated = !rotated
			triedBoth = true
			fontSize = initialSize
		} else {
			return nil, fontSize, nil
		}
	}
}

// stepDown yields the next smaller size in the search, or ok=false when the
// search is exhausted.
func stepDown(fontSize float64, opts Options) (float64, bool) {
	next := fontSize - opts.FontStep
	if next >= opts.MinFontSize && next > 0 {
		return next, true
	}
	return 0, false
}

// startingFontSize derives the heuristic starting scale from the
// highest-weight word.
func startingFontSize(first string, m Measurer, occ *sat.Occupancy, opts Options) (float64, error) {
	probe := float64(occ.Height()) * startHeightFactor
	w, h, err := m.Measure(first, probe)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFont, err,
			"failed to measure %q at size %.1f", first, probe)
	}
	w += opts.WordMargin
	h += opts.WordMargin

	size := float64(occ.Width()) * (float64(h) / float64(w))
	if occ.Masked() {
		size *= occ.FreeFraction()
	}
	if opts.MaxFontSize > 0 && size > opts.MaxFontSize {
		size = opts.MaxFontSize
	}
	return size, nil
}
