package layout

// Layoutable is the interface for anything that participates in layout
// calculation. The engine works entirely with this interface; the component
// tree implements it over its arena nodes.
//
// Hidden children must be excluded from LayoutChildren by the implementation;
// the engine lays out exactly what it is handed.
type Layoutable interface {
	// LayoutStyle returns the layout properties for this node.
	LayoutStyle() Style

	// LayoutChildren returns the children to be laid out, in declaration order.
	LayoutChildren() []Layoutable

	// SetRect stores the computed absolute rectangle.
	SetRect(Rect)

	// LayoutRect returns the last computed rectangle.
	LayoutRect() Rect

	// LayoutDirty reports whether this subtree needs recalculation.
	// Dirtiness propagates to ancestors, so a clean node guarantees a clean
	// subtree.
	LayoutDirty() bool

	// SetLayoutDirty updates the dirty flag.
	SetLayoutDirty(bool)
}
