package render

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/gatesketch/pkg/circuit"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/fonts"
)

// Option configures raster and SVG rendering.
type Option func(*options)

type options struct {
	scale      float64
	lineWidth  float64
	background color.Color
	foreground color.Color
	fontSize   float64
}

func defaultOptions() options {
	return options{
		scale:      1,
		lineWidth:  2,
		background: color.White,
		foreground: color.Black,
		fontSize:   fonts.DefaultSize,
	}
}

// WithScale multiplies the output resolution (default 1).
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithLineWidth sets the stroke width in canvas units (default 2).
func WithLineWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.lineWidth = w
		}
	}
}

// WithBackground sets the canvas colour (default white).
func WithBackground(bg color.Color) Option {
	return func(o *options) { o.background = bg }
}

// WithColors sets the background and stroke colours.
func WithColors(bg, fg color.Color) Option {
	return func(o *options) { o.background, o.foreground = bg, fg }
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MaxRasterPixels caps the scaled image a RasterSurface allocates.
const MaxRasterPixels = 128 << 20

// RasterSurface draws onto an in-memory image.
type RasterSurface struct {
	dc *gg.Context
}

// NewRasterSurface creates a width x height canvas (in canvas units) cleared
// to the background colour. Canvases above MaxRasterPixels once scaled are
// refused with INVALID_INPUT.
func NewRasterSurface(width, height int, opts ...Option) (*RasterSurface, error) {
	o := newOptions(opts)

	w, h := int(float64(width)*o.scale), int(float64(height)*o.scale)
	if w <= 0 || h <= 0 || float64(w)*float64(h) > MaxRasterPixels {
		return nil, gserrors.New(gserrors.ErrCodeInvalidInput,
			"canvas %dx%d at scale %g exceeds %d pixels", width, height, o.scale, MaxRasterPixels)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(o.background)
	dc.Clear()
	dc.Scale(o.scale, o.scale)

	face, err := fonts.Face(o.fontSize * o.scale)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.SetColor(o.foreground)
	dc.SetLineWidth(o.lineWidth)
	dc.SetLineCap(gg.LineCapSquare)
	return &RasterSurface{dc: dc}, nil
}

func (r *RasterSurface) Line(x1, y1, x2, y2 float64) {
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

func (r *RasterSurface) Rect(x, y, w, h float64) {
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Stroke()
}

func (r *RasterSurface) Circle(cx, cy, radius float64) {
	r.dc.DrawCircle(cx, cy, radius)
	r.dc.Stroke()
}

func (r *RasterSurface) Text(s string, x, y float64) {
	r.dc.DrawStringAnchored(s, x, y, 0, 1)
}

// Image returns the canvas.
func (r *RasterSurface) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the canvas as PNG.
func (r *RasterSurface) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

var _ Surface = (*RasterSurface)(nil)

// RenderPNG draws c and encodes it as PNG.
func RenderPNG(c *circuit.Circuit, opts ...Option) ([]byte, error) {
	s, err := NewRasterSurface(c.Width, c.Height, opts...)
	if err != nil {
		return nil, err
	}
	Draw(c, s)

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
