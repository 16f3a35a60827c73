package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"

	"github.com/fogleman/gg"

	"github.com/wordhaze/wordhaze/pkg/errors"
	"github.com/wordhaze/wordhaze/pkg/layout"
)

// Compositor rasterizes a finished placement list onto a background-colored
// canvas. It performs no placement decisions.
type Compositor struct {
	measurer   *FaceMeasurer
	background color.Color
	colorFn    ColorFunc
}

// NewCompositor creates a compositor. A nil colorFn selects RandomHue.
func NewCompositor(m *FaceMeasurer, background color.Color, colorFn ColorFunc) *Compositor {
	if colorFn == nil {
		colorFn = RandomHue
	}
	return &Compositor{measurer: m, background: background, colorFn: colorFn}
}

// Render draws the placements in order onto a canvas of width x height cells
// rendered at scale times that resolution. Placement coordinates stay in
// base resolution; only rendering is scaled.
func (c *Compositor) Render(placed []layout.PlacedWord, width, height int, scale float64, rng *rand.Rand) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"canvas dimensions must be positive, got %dx%d", width, height)
	}
	if scale <= 0 {
		scale = 1
	}

	dc := gg.NewContext(
		int(math.Round(float64(width)*scale)),
		int(math.Round(float64(height)*scale)),
	)
	dc.SetColor(c.background)
	dc.Clear()

	for i := range placed {
		w := &placed[i]
		size := w.FontSize * scale
		dc.SetFontFace(c.measurer.Face(size))
		dc.SetColor(c.colorFn(w, rng))

		ascent := c.measurer.Ascent(size)
		x := float64(w.X) * scale
		y := float64(w.Y) * scale
		if w.Rotated {
			// The rotated box is Width wide (the upright line height).
			// Rotate 90 degrees about the anchor and shift right by that
			// width so the glyphs land inside the committed rectangle.
			dc.Push()
			dc.Translate(x+float64(w.Width)*scale, y)
			dc.Rotate(gg.Radians(90))
			dc.DrawString(w.Text, 0, ascent)
			dc.Pop()
		} else {
			dc.DrawString(w.Text, x, y+ascent)
		}
	}
	return dc.Image(), nil
}

// EncodePNG serializes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode PNG")
	}
	return buf.Bytes(), nil
}
