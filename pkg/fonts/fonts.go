// Package fonts locates and parses the TrueType fonts used for measurement
// and compositing.
//
// The default font is discovered lazily on first use from a preference list
// of common system fonts (CJK-capable families first, since the segmenter
// targets mixed Chinese/Latin text) and never mutated after load. Callers
// override it per run by configuring an explicit font path.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"

	"github.com/wordhaze/wordhaze/pkg/errors"
)

// DefaultNames is the discovery preference list for the default font,
// tried in order against the system font directories.
var DefaultNames = []string{
	"wqy-microhei.ttc",
	"wqy-zenhei.ttc",
	"NotoSansCJK-Regular.ttc",
	"NotoSansSC-Regular.otf",
	"DroidSansFallbackFull.ttf",
	"msyh.ttf",
	"simhei.ttf",
	"DejaVuSans.ttf",
	"Arial.ttf",
}

var (
	defaultFont *truetype.Font
	defaultErr  error
	defaultOnce sync.Once
)

// Load reads and parses a TrueType font file.
func Load(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err,
			"failed to read font file %s", path)
	}
	return Parse(data)
}

// Parse parses TrueType font data.
func Parse(data []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err,
			"failed to parse font data")
	}
	return f, nil
}

// Default returns the process-wide default font, discovering and parsing it
// on first call. The result is immutable and shared; subsequent calls return
// the same font (or the same error).
func Default() (*truetype.Font, error) {
	defaultOnce.Do(func() {
		for _, name := range DefaultNames {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			f, err := Load(path)
			if err != nil {
				continue
			}
			defaultFont = f
			return
		}
		defaultErr = errors.New(errors.ErrCodeFontNotFound,
			"no usable default font found; configure one with --font")
	})
	return defaultFont, defaultErr
}
