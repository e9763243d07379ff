package layout

// Calculate performs layout on the tree rooted at root, storing an absolute
// Rect on every node. Only dirty subtrees are recalculated.
//
// availableWidth and availableHeight specify the root constraint (typically
// the terminal size). Non-positive available space degenerates every rect to
// zero area; callers treat that as "nothing renders this frame".
func Calculate(root Layoutable, availableWidth, availableHeight int) {
	if root == nil {
		return
	}
	if availableWidth < 0 {
		availableWidth = 0
	}
	if availableHeight < 0 {
		availableHeight = 0
	}

	style := root.LayoutStyle()

	width := availableWidth
	if !style.Width.IsFill() {
		width = style.Width.Resolve(availableWidth)
	}
	height := availableHeight
	if !style.Height.IsFill() {
		height = style.Height.Resolve(availableHeight)
	}
	width = clampAxis(min(width, availableWidth), style.MinWidth, style.MaxWidth)
	height = clampAxis(min(height, availableHeight), style.MinHeight, style.MaxHeight)

	calculateNode(root, NewRect(0, 0, width, height))
}

// calculateNode assigns the node its border box and lays out its children
// within the content rect (border box minus padding).
func calculateNode(node Layoutable, box Rect) {
	if !node.LayoutDirty() {
		return
	}

	style := node.LayoutStyle()
	node.SetRect(box)

	children := node.LayoutChildren()
	if len(children) > 0 {
		layoutChildren(style, children, box.Inset(style.Padding))
	}

	node.SetLayoutDirty(false)
}

// layoutChildren stacks children along the container's main axis.
//
// Two passes: the first resolves Fixed and Percent demands against the content
// extent (with Min/Max clamps), the second distributes the remainder equally
// among Fill siblings, handing leftover cells to the earliest Fill siblings in
// declaration order. If total demand exceeds the extent, every sibling is
// scaled down proportionally; sizes never go negative.
func layoutChildren(parent Style, children []Layoutable, content Rect) {
	isRow := parent.Direction == Row

	mainExtent := content.Height
	crossExtent := content.Width
	if isRow {
		mainExtent, crossExtent = crossExtent, mainExtent
	}

	totalGap := parent.Gap * max(0, len(children)-1)
	mainAvail := max(0, mainExtent-totalGap)

	sizes := solveAxis(children, isRow, mainAvail)

	offset := 0
	for i, child := range children {
		style := child.LayoutStyle()

		cross := resolveCross(style, isRow, crossExtent)

		var box Rect
		if isRow {
			box = Rect{
				X:      content.X + offset,
				Y:      content.Y,
				Width:  sizes[i],
				Height: cross,
			}
		} else {
			box = Rect{
				X:      content.X,
				Y:      content.Y + offset,
				Width:  cross,
				Height: sizes[i],
			}
		}
		offset += sizes[i] + parent.Gap

		// Children always recurse here: the parent was dirty, so every
		// descendant rect is stale.
		child.SetLayoutDirty(true)
		calculateNode(child, box)
	}
}

// solveAxis resolves every child's main-axis size. See layoutChildren for the
// algorithm contract.
func solveAxis(children []Layoutable, isRow bool, available int) []int {
	sizes := make([]int, len(children))
	var fills []int
	demand := 0

	for i, child := range children {
		style := child.LayoutStyle()
		v, minV, maxV := mainConstraint(style, isRow)

		if v.IsFill() {
			fills = append(fills, i)
			continue
		}
		n := clampAxis(v.Resolve(available), minV, maxV)
		sizes[i] = n
		demand += n
	}

	if demand > available {
		scaleDown(sizes, demand, available)
		return sizes
	}

	if len(fills) > 0 {
		remaining := available - demand
		each := remaining / len(fills)
		extra := remaining % len(fills)
		for j, i := range fills {
			n := each
			if j < extra {
				n++
			}
			style := children[i].LayoutStyle()
			_, minV, maxV := mainConstraint(style, isRow)
			sizes[i] = clampAxis(n, minV, maxV)
		}
	}

	return sizes
}

// scaleDown proportionally shrinks sizes so their sum equals available.
// Floor scaling first, then leftover cells go to the earliest siblings whose
// scaled size fell short of their demand.
func scaleDown(sizes []int, demand, available int) {
	if available <= 0 {
		for i := range sizes {
			sizes[i] = 0
		}
		return
	}

	orig := make([]int, len(sizes))
	copy(orig, sizes)

	total := 0
	for i, n := range sizes {
		sizes[i] = n * available / demand
		total += sizes[i]
	}
	for i := 0; total < available && i < len(sizes); i++ {
		if sizes[i] < orig[i] {
			sizes[i]++
			total++
		}
	}
}

// mainConstraint returns the main-axis Value and Min/Max clamps for a child.
func mainConstraint(style Style, isRow bool) (Value, int, int) {
	if isRow {
		return style.Width, style.MinWidth, style.MaxWidth
	}
	return style.Height, style.MinHeight, style.MaxHeight
}

// resolveCross sizes a child on the cross axis: explicit Fixed/Percent values
// are honored (clamped to the extent), Fill stretches to the full extent.
func resolveCross(style Style, isRow bool, extent int) int {
	var v Value
	var minV, maxV int
	if isRow {
		v, minV, maxV = style.Height, style.MinHeight, style.MaxHeight
	} else {
		v, minV, maxV = style.Width, style.MinWidth, style.MaxWidth
	}

	n := extent
	if !v.IsFill() {
		n = min(v.Resolve(extent), extent)
	}
	return clampAxis(n, minV, maxV)
}
