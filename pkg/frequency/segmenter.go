package frequency

import (
	"github.com/go-ego/gse"

	"github.com/wordhaze/wordhaze/pkg/errors"
)

// Segmenter splits a pre-tokenized chunk into semantic word units.
//
// The analyzer depends on this interface rather than a concrete library so
// that segmentation stays a replaceable collaborator: tests inject trivial
// implementations, and callers with domain vocabularies can wrap their own.
type Segmenter interface {
	Segment(text string) []string
}

// GseSegmenter is the default Segmenter, backed by the gse dictionary
// segmenter with its embedded Chinese dictionary. Latin-script chunks pass
// through as single units; mixed and CJK chunks are split on dictionary
// word boundaries.
type GseSegmenter struct {
	seg gse.Segmenter
}

// NewGseSegmenter loads the embedded dictionary and registers any extra
// words. Loading the dictionary is the expensive step; construct once and
// reuse.
func NewGseSegmenter(extraWords ...string) (*GseSegmenter, error) {
	g := &GseSegmenter{}
	if err := g.seg.LoadDictEmbed(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err,
			"failed to load embedded segmentation dictionary")
	}
	for _, w := range extraWords {
		if err := g.AddWord(w); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddWord registers an additional dictionary entry so the segmenter keeps it
// whole instead of splitting it.
func (g *GseSegmenter) AddWord(word string) error {
	if err := g.seg.AddToken(word, 100, "n"); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err,
			"failed to register word %q", word)
	}
	return nil
}

// Segment implements Segmenter.
func (g *GseSegmenter) Segment(text string) []string {
	return g.seg.Cut(text)
}
