package circuit

import gserrors "github.com/matzehuels/gatesketch/pkg/errors"

// Layout holds the geometry constants of a schematic. All values are in
// canvas units (pixels for raster output).
type Layout struct {
	LeftMargin      int `json:"left_margin" toml:"left_margin"`
	TopMargin       int `json:"top_margin" toml:"top_margin"`
	BottomMargin    int `json:"bottom_margin" toml:"bottom_margin"`
	VerticalPitch   int `json:"vertical_pitch" toml:"vertical_pitch"`
	BaseX           int `json:"base_x" toml:"base_x"`
	HorizontalPitch int `json:"horizontal_pitch" toml:"horizontal_pitch"`

	// PairOffset shifts a two-input gate below its first input.
	PairOffset int `json:"pair_offset" toml:"pair_offset"`
	// A candidate y within MinSeparation of a placed gate moves down by
	// CollisionStep. CollisionStep must exceed MinSeparation.
	MinSeparation int `json:"min_separation" toml:"min_separation"`
	CollisionStep int `json:"collision_step" toml:"collision_step"`

	GateWidth      int `json:"gate_width" toml:"gate_width"`
	GateHeight     int `json:"gate_height" toml:"gate_height"`
	TerminalSpread int `json:"terminal_spread" toml:"terminal_spread"`
	OutputLead     int `json:"output_lead" toml:"output_lead"`
	OperandLead    int `json:"operand_lead" toml:"operand_lead"`
	MaxJog         int `json:"max_jog" toml:"max_jog"`

	MinWidth int `json:"min_width" toml:"min_width"`
	// EmptyMaxY stands in for the lowest gate when there are none.
	EmptyMaxY int `json:"empty_max_y" toml:"empty_max_y"`

	// MaxCanvasPixels caps Width*Height. Zero disables the check.
	MaxCanvasPixels int `json:"max_canvas_pixels" toml:"max_canvas_pixels"`
}

// DefaultLayout is the standard schematic geometry.
var DefaultLayout = Layout{
	LeftMargin:      30,
	TopMargin:       50,
	BottomMargin:    50,
	VerticalPitch:   100,
	BaseX:           120,
	HorizontalPitch: 200,
	PairOffset:      10,
	MinSeparation:   39,
	CollisionStep:   40,
	GateWidth:       30,
	GateHeight:      50,
	TerminalSpread:  10,
	OutputLead:      20,
	OperandLead:     20,
	MaxJog:          30,
	MinWidth:        200,
	EmptyMaxY:       100,
	MaxCanvasPixels: 32 << 20,
}

// operandPos returns the connection point of the i-th operand wire.
func (l Layout) operandPos(i int) Point {
	return Point{X: l.LeftMargin, Y: i*l.VerticalPitch + l.TopMargin}
}

// gateX returns the column of the n-th gate.
func (l Layout) gateX(n int) int {
	return l.BaseX + n*l.HorizontalPitch
}

// outputPos returns the connection point of a gate's output wire.
func (l Layout) outputPos(gate Point) Point {
	return Point{X: gate.X + l.GateWidth/2 + l.OutputLead, Y: gate.Y}
}

// extent returns the canvas size for a circuit with the given number of
// gates and operands whose lowest gate sits at maxY.
func (l Layout) extent(gates, operands, maxY int) (width, height int) {
	width = max(gates*l.HorizontalPitch, l.MinWidth)
	height = max(maxY+l.BottomMargin, operands*l.VerticalPitch)
	return width, height
}

// checkExtent returns an INVALID_INPUT error when a width x height canvas
// exceeds the pixel budget.
func (l Layout) checkExtent(width, height int) error {
	if l.MaxCanvasPixels > 0 && int64(width)*int64(height) > int64(l.MaxCanvasPixels) {
		return gserrors.New(gserrors.ErrCodeInvalidInput,
			"circuit too large: %dx%d canvas exceeds %d pixels", width, height, l.MaxCanvasPixels)
	}
	return nil
}

// Validate returns an INVALID_CONFIG error when the collision loop would not
// terminate or the geometry is unusable.
func (l Layout) Validate() error {
	if !l.valid() {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "invalid layout: %+v", l)
	}
	return nil
}

func (l Layout) valid() bool {
	return l.CollisionStep > l.MinSeparation && l.MinSeparation >= 0 &&
		l.VerticalPitch > 0 && l.HorizontalPitch > 0 && l.MaxJog >= 0 &&
		l.GateWidth > 0 && l.GateHeight > 0 && l.MaxCanvasPixels >= 0
}
