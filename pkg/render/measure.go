// Package render hosts the external collaborators of the layout core: glyph
// metrics, mask decoding, and the pixel compositor.
//
// None of these make placement decisions. The planner sees them only through
// the layout.Measurer interface and the sat occupancy seeded from a mask;
// the compositor consumes the planner's finished placement list.
package render

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/wordhaze/wordhaze/pkg/errors"
)

// FaceMeasurer measures text bounding boxes against a parsed TrueType font.
// It caches one font.Face per requested size, since the planner re-measures
// at every step of its size decay loop.
//
// Width is the advance width of the string; height is the font's natural
// line height (ascent plus descent) at the requested size. Not safe for
// concurrent use - the layout run is single-threaded by design.
type FaceMeasurer struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewFaceMeasurer wraps a parsed font.
func NewFaceMeasurer(f *truetype.Font) *FaceMeasurer {
	return &FaceMeasurer{
		font:  f,
		faces: make(map[float64]font.Face),
	}
}

// Face returns the cached face for a size, creating it on first use.
func (m *FaceMeasurer) Face(size float64) font.Face {
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(m.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m.faces[size] = f
	return f
}

// Measure implements layout.Measurer.
func (m *FaceMeasurer) Measure(text string, size float64) (int, int, error) {
	if size <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig,
			"font size must be positive, got %.2f", size)
	}
	face := m.Face(size)
	advance := font.MeasureString(face, text)
	metrics := face.Metrics()
	w := advance.Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	return w, h, nil
}

// Ascent returns the baseline offset from the top of the line box at a size.
// The compositor anchors strings by their top-left corner and needs this to
// convert to gg's baseline-anchored drawing.
func (m *FaceMeasurer) Ascent(size float64) float64 {
	return float64(m.Face(size).Metrics().Ascent.Ceil())
}
