package render

import (
	"bytes"
	"image"
	_ "image/jpeg" // mask decoding
	_ "image/png"  // mask decoding

	"github.com/disintegration/imaging"

	"github.com/wordhaze/wordhaze/pkg/errors"
	"github.com/wordhaze/wordhaze/pkg/sat"
)

// Mask is a decoded grayscale silhouette. Pixel value 0 ("black") is the
// placeable region; any other value is permanently occupied. Computed once
// from the source image and read-only afterward.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// DecodeMask decodes PNG or JPEG bytes into a grayscale mask.
// Malformed or degenerate images are fatal configuration errors.
func DecodeMask(data []byte) (*Mask, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMask, err,
			"failed to decode mask image")
	}

	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidMask,
			"mask has degenerate dimensions %dx%d", w, h)
	}

	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Grayscale output has R == G == B.
			pix[y*w+x] = gray.NRGBAAt(b.Min.X+x, b.Min.Y+y).R
		}
	}
	return &Mask{Width: w, Height: h, Pix: pix}, nil
}

// Occupancy seeds an occupancy model from the mask.
func (m *Mask) Occupancy() (*sat.Occupancy, error) {
	return sat.NewFromMask(m.Pix, m.Width, m.Height)
}
