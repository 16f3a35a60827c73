// Package frequency turns raw text into a ranked, normalized word list.
//
// The analyzer pre-tokenizes text with a configurable pattern, hands each
// chunk to a dictionary-based Segmenter (whitespace is not a reliable word
// boundary for Chinese text), filters and counts the resulting word units,
// merges surface forms that differ only in casing, and normalizes counts
// into weights in (0, 1].
//
// The output order is fully deterministic: descending weight, ties broken by
// ascending lexicographic order of the surface form. No randomness is
// involved at this stage.
//
// # Usage
//
//	seg, err := frequency.NewGseSegmenter()
//	if err != nil {
//	    return err
//	}
//	a, err := frequency.NewAnalyzer(seg, frequency.Config{MinWordLength: 2})
//	if err != nil {
//	    return err
//	}
//	words, err := a.Analyze(text)
package frequency

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wordhaze/wordhaze/pkg/errors"
)

// DefaultPattern matches runs of word characters. RE2's \w is ASCII-only, so
// the Unicode letter/number classes are spelled out to keep CJK runs intact.
const DefaultPattern = `[\p{L}\p{N}_][\p{L}\p{N}_']*`

// WordFrequency is one entry of the analyzer output: a surface form and its
// weight normalized against the most frequent word. Immutable once produced.
type WordFrequency struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`

	// Count is the merged occurrence count behind the weight. It is carried
	// for reporting (the analyze command) and plays no role in placement.
	Count int `json:"count"`
}

// Config controls the analysis pipeline.
type Config struct {
	// Pattern is the pre-tokenization regexp. Empty selects DefaultPattern.
	Pattern string

	// MinWordLength drops segments shorter than this many runes.
	MinWordLength int

	// ExcludeNumbers drops segments consisting only of digits.
	ExcludeNumbers bool

	// ExcludeWords drops segments present in this list, case-insensitively.
	ExcludeWords []string

	// MaxWords truncates the ranked output. Zero means unlimited.
	MaxWords int
}

// Analyzer runs the frequency pipeline with a fixed configuration and
// segmenter. Safe for reuse across inputs; not safe for concurrent use if
// the segmenter is not.
type Analyzer struct {
	seg     Segmenter
	re      *regexp.Regexp
	cfg     Config
	exclude map[string]struct{}
}

// NewAnalyzer creates an analyzer. The pattern is compiled once here; an
// invalid pattern is a configuration error.
func NewAnalyzer(seg Segmenter, cfg Config) (*Analyzer, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err,
			"failed to compile token pattern %q", pattern)
	}

	exclude := make(map[string]struct{}, len(cfg.ExcludeWords))
	for _, w := range cfg.ExcludeWords {
		exclude[strings.ToLower(w)] = struct{}{}
	}

	return &Analyzer{seg: seg, re: re, cfg: cfg, exclude: exclude}, nil
}

// Analyze produces the ranked word list for text.
//
// An empty result is a fatal error (ErrCodeNoWords): the caller has nothing
// to place and must not silently render an empty image.
func (a *Analyzer) Analyze(text string) ([]WordFrequency, error) {
	counts := a.count(text)
	counts = mergeCaseVariants(counts)

	if len(counts) == 0 {
		return nil, errors.New(errors.ErrCodeNoWords,
			"no placeable words after filtering")
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	words := make([]WordFrequency, 0, len(counts))
	for text, c := range counts {
		words = append(words, WordFrequency{
			Text:   text,
			Weight: float64(c) / float64(maxCount),
			Count:  c,
		})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Weight != words[j].Weight {
			return words[i].Weight > words[j].Weight
		}
		return words[i].Text < words[j].Text
	})

	if a.cfg.MaxWords > 0 && len(words) > a.cfg.MaxWords {
		words = words[:a.cfg.MaxWords]
	}
	return words, nil
}

// count tokenizes, segments, filters and counts by exact surface form.
func (a *Analyzer) count(text string) map[string]int {
	counts := make(map[string]int)
	for _, chunk := range a.re.FindAllString(text, -1) {
		for _, word := range a.seg.Segment(chunk) {
			if a.keep(word) {
				counts[word]++
			}
		}
	}
	return counts
}

// keep applies the per-segment filters.
func (a *Analyzer) keep(word string) bool {
	if utf8.RuneCountInString(word) < a.cfg.MinWordLength {
		return false
	}
	if word == "" || strings.TrimSpace(word) == "" {
		return false
	}
	if a.cfg.ExcludeNumbers && allDigits(word) {
		return false
	}
	if _, ok := a.exclude[strings.ToLower(word)]; ok {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// mergeCaseVariants groups surface forms that are identical under
// lower-casing. Each group keeps a single representative - the form with the
// highest count, ties going to the lexicographically greater form - holding
// the group's summed count. "Word" and "word" therefore become one entry
// while a naturally occurring capitalization survives.
func mergeCaseVariants(counts map[string]int) map[string]int {
	groups := make(map[string][]string)
	for surface := range counts {
		key := strings.ToLower(surface)
		groups[key] = append(groups[key], surface)
	}

	merged := make(map[string]int, len(groups))
	for _, surfaces := range groups {
		rep := surfaces[0]
		total := 0
		for _, s := range surfaces {
			total += counts[s]
			if counts[s] > counts[rep] || (counts[s] == counts[rep] && s > rep) {
				rep = s
			}
		}
		merged[rep] = total
	}
	return merged
}
