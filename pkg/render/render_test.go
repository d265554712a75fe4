package render

import (
	"bytes"
	"fmt"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/gatesketch/pkg/circuit"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// recorder is a Surface that records the commands it receives.
type recorder struct {
	ops []string
}

func (r *recorder) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, fmt.Sprintf("line %g,%g %g,%g", x1, y1, x2, y2))
}
func (r *recorder) Rect(x, y, w, h float64) {
	r.ops = append(r.ops, fmt.Sprintf("rect %g,%g %gx%g", x, y, w, h))
}
func (r *recorder) Circle(cx, cy, rad float64) {
	r.ops = append(r.ops, fmt.Sprintf("circle %g,%g r%g", cx, cy, rad))
}
func (r *recorder) Text(s string, x, y float64) {
	r.ops = append(r.ops, fmt.Sprintf("text %q %g,%g", s, x, y))
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

func mustBuild(t *testing.T, s string) *circuit.Circuit {
	t.Helper()
	c, err := circuit.Build(s, circuit.WithSeed(3))
	if err != nil {
		t.Fatalf("Build(%q): %v", s, err)
	}
	return c
}

func TestDraw_AndGate(t *testing.T) {
	c := mustBuild(t, "a&b")
	var rec recorder
	Draw(c, &rec)

	want := []string{
		"line 30,50 10,50",
		`text "a" 15,30`,
		"line 30,150 10,150",
		`text "b" 15,130`,
		"rect 105,35 30x50",
		`text "&" 120,40`,
		"line 155,60 135,60",
	}
	if !reflect.DeepEqual(rec.ops[:len(want)], want) {
		t.Errorf("ops = %v\nwant prefix %v", rec.ops, want)
	}
	if rec.count("circle") != 0 {
		t.Error("AND gate should have no bubble")
	}
}

func TestDraw_Counts(t *testing.T) {
	c := mustBuild(t, "~(a&b)|c")
	var rec recorder
	Draw(c, &rec)

	segments := 0
	for _, conn := range c.Connections {
		segments += len(conn.Path) - 1
	}
	if got := rec.count("rect"); got != 3 {
		t.Errorf("rects = %d, want 3", got)
	}
	if got := rec.count("circle"); got != 1 {
		t.Errorf("circles = %d, want 1 (NOT bubble)", got)
	}
	if got := rec.count("text"); got != 6 {
		t.Errorf("texts = %d, want 3 labels + 3 symbols", got)
	}
	if got := rec.count("line"); got != 3+3+segments {
		t.Errorf("lines = %d, want %d", got, 3+3+segments)
	}
	if !strings.Contains(strings.Join(rec.ops, "\n"), "circle 335,100 r5") {
		t.Errorf("NOT bubble missing from %v", rec.ops)
	}
}

func TestRenderPNG(t *testing.T) {
	c := mustBuild(t, "~(a&b)|c")

	for _, scale := range []float64{1, 2} {
		t.Run(fmt.Sprintf("scale %g", scale), func(t *testing.T) {
			data, err := RenderPNG(c, WithScale(scale))
			if err != nil {
				t.Fatalf("RenderPNG() error: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != int(float64(c.Width)*scale) || b.Dy() != int(float64(c.Height)*scale) {
				t.Errorf("size = %dx%d, want %gx%g", b.Dx(), b.Dy(), float64(c.Width)*scale, float64(c.Height)*scale)
			}

			if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
				t.Errorf("corner should be background, got r=%x", r)
			}
			x, y := int(20*scale), int(50*scale)
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0x8000 {
				t.Errorf("operand lead pixel (%d,%d) should be dark, got r=%x", x, y, r)
			}
		})
	}
}

func TestRenderPNG_PixelBudget(t *testing.T) {
	c := mustBuild(t, "~(a&b)|c")
	tests := []struct {
		name  string
		c     *circuit.Circuit
		scale float64
	}{
		{"scaled past budget", c, 1000},
		{"oversized canvas", &circuit.Circuit{Width: 409400, Height: 81950}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(tt.c, WithScale(tt.scale))
			if data != nil {
				t.Error("no image should be produced")
			}
			if !gserrors.Is(err, gserrors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want INVALID_INPUT", gserrors.GetCode(err))
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	c := mustBuild(t, "~(a&b)|c")
	svg := string(RenderSVG(c))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document: %q", svg[:min(60, len(svg))])
	}
	if !strings.Contains(svg, `viewBox="0 0 600 310"`) {
		t.Error("viewBox should match circuit extent")
	}
	if got := strings.Count(svg, "<rect x="); got != 3 {
		t.Errorf("gate rects = %d, want 3", got)
	}
	if got := strings.Count(svg, "<circle"); got != 1 {
		t.Errorf("circles = %d, want 1", got)
	}
	if !strings.Contains(svg, ">&amp;</text>") {
		t.Error("AND symbol should be escaped")
	}
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	c := mustBuild(t, "a|~b")
	data, err := RenderJSON(c)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, back) {
		t.Error("geometry changed through JSON")
	}

	var a, b recorder
	Draw(c, &a)
	Draw(back, &b)
	if !reflect.DeepEqual(a.ops, b.ops) {
		t.Error("decoded circuit draws differently")
	}
}
