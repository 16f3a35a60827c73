package render

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/wordhaze/wordhaze/pkg/layout"
)

// ColorFunc selects the tint for one placed word. It receives the placement
// (size, weight, index are all available for themed strategies) and the run's
// RNG, so custom strategies stay deterministic under a fixed seed.
type ColorFunc func(word *layout.PlacedWord, rng *rand.Rand) color.Color

// RandomHue is the default color strategy: a random hue at full saturation
// and half lightness, one draw per word from the shared RNG stream.
func RandomHue(_ *layout.PlacedWord, rng *rand.Rand) color.Color {
	return colorful.Hsl(rng.Float64()*360, 1.0, 0.5)
}

// SingleColor returns a strategy that tints every word the same color.
func SingleColor(c color.Color) ColorFunc {
	return func(*layout.PlacedWord, *rand.Rand) color.Color {
		return c
	}
}
