package weft

import "github.com/weftui/weft/pkg/layout"

// Re-exports of the layout package so callers building trees do not need a
// second import for sizes and rectangles.

// Rect is a rectangle in terminal cell coordinates.
type Rect = layout.Rect

// LayoutStyle describes how a node sizes itself and arranges its children.
// The name avoids colliding with the visual Style type.
type LayoutStyle = layout.Style

// Value is a sizing constraint along one axis.
type Value = layout.Value

// Direction is the main axis for child placement.
type Direction = layout.Direction

// Edges holds per-side spacing.
type Edges = layout.Edges

const (
	// Row lays children out left to right.
	Row = layout.Row
	// Column lays children out top to bottom.
	Column = layout.Column
)

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height int) Rect {
	return layout.NewRect(x, y, width, height)
}

// Fixed requests an exact number of cells.
func Fixed(n int) Value {
	return layout.Fixed(n)
}

// Percent requests a fraction of the parent's content extent.
func Percent(p float64) Value {
	return layout.Percent(p)
}

// Fill requests an equal share of the space left after Fixed and Percent
// siblings are placed.
func Fill() Value {
	return layout.Fill()
}

// DefaultLayout returns the default layout style: fill both axes, stack
// children top to bottom.
func DefaultLayout() LayoutStyle {
	return layout.DefaultStyle()
}

// EdgeAll returns Edges with the same spacing on every side.
func EdgeAll(n int) Edges {
	return layout.EdgeAll(n)
}

// EdgeSymmetric returns Edges with vertical and horizontal spacing.
func EdgeSymmetric(vertical, horizontal int) Edges {
	return layout.EdgeSymmetric(vertical, horizontal)
}
