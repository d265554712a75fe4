// Package fonts provides the typeface used for schematic labels.
//
// The Go Regular font ships inside golang.org/x/image, so raster rendering
// needs no font files on the host.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultSize is the label size in points.
const DefaultSize = 12.0

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = "Go, 'DejaVu Sans', Arial, sans-serif"

// Parsed font (computed once on first access).
var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse go regular font: %w", regularErr)
		}
	})
	return regular, regularErr
}

// Face returns a font face of the given size in points. A non-positive size
// selects [DefaultSize].
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}
