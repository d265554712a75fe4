package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"

	"github.com/matzehuels/gatesketch/pkg/circuit"
	"github.com/matzehuels/gatesketch/pkg/fonts"
)

// SVGSurface accumulates SVG markup.
type SVGSurface struct {
	buf    bytes.Buffer
	stroke string
	width  float64
}

// NewSVGSurface starts a width x height document.
func NewSVGSurface(width, height int, opts ...Option) *SVGSurface {
	o := newOptions(opts)
	s := &SVGSurface{stroke: hexColor(o.foreground), width: o.lineWidth}

	w, h := float64(width)*o.scale, float64(height)*o.scale
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%.0f" height="%.0f">`+"\n",
		width, height, w, h)
	fmt.Fprintf(&s.buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hexColor(o.background))
	fmt.Fprintf(&s.buf, `  <g stroke="%s" stroke-width="%.1f" fill="none" stroke-linecap="square" font-family="%s" font-size="%.0f">`+"\n",
		s.stroke, s.width, fonts.FontFamily, o.fontSize)
	return s
}

func (s *SVGSurface) Line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&s.buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
}

func (s *SVGSurface) Rect(x, y, w, h float64) {
	fmt.Fprintf(&s.buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", x, y, w, h)
}

func (s *SVGSurface) Circle(cx, cy, r float64) {
	fmt.Fprintf(&s.buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, r)
}

func (s *SVGSurface) Text(text string, x, y float64) {
	fmt.Fprintf(&s.buf, `    <text x="%.1f" y="%.1f" stroke="none" fill="%s" dominant-baseline="hanging">`, x, y, s.stroke)
	_ = xml.EscapeText(&s.buf, []byte(text))
	s.buf.WriteString("</text>\n")
}

// Bytes closes the document and returns it. The surface must not be drawn on
// afterwards.
func (s *SVGSurface) Bytes() []byte {
	s.buf.WriteString("  </g>\n</svg>\n")
	return s.buf.Bytes()
}

var _ Surface = (*SVGSurface)(nil)

// RenderSVG draws c as an SVG document.
func RenderSVG(c *circuit.Circuit, opts ...Option) []byte {
	s := NewSVGSurface(c.Width, c.Height, opts...)
	Draw(c, s)
	return s.Bytes()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
