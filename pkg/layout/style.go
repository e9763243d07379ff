package layout

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // Children laid out left-to-right
	Column                  // Children laid out top-to-bottom
)

// Style contains the layout properties for a node.
//
// Width and Height are main- or cross-axis constraints depending on the
// parent's Direction. Min/Max clamps apply after the constraint resolves;
// a Max of 0 means unconstrained.
type Style struct {
	Width  Value
	Height Value

	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// Container properties
	Direction Direction
	Gap       int // Cells between children on the main axis
	Padding   Edges
}

// DefaultStyle returns a Style that fills its parent and stacks children
// top-to-bottom.
func DefaultStyle() Style {
	return Style{
		Width:     Fill(),
		Height:    Fill(),
		Direction: Column,
	}
}

// clampAxis restricts n to [minVal, maxVal], treating maxVal == 0 as
// unconstrained. minVal wins when the two conflict.
func clampAxis(n, minVal, maxVal int) int {
	if maxVal > 0 && n > maxVal {
		n = maxVal
	}
	if n < minVal {
		n = minVal
	}
	if n < 0 {
		return 0
	}
	return n
}
