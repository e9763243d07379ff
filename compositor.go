package weft

// Renderer composes frames: base tree in pre-order, overlays in stack order,
// then a diff of the result against the previous frame. It owns the
// double-buffered grid; callers own the tree and overlay stack.
type Renderer struct {
	buf       *Buffer
	forceFull bool
}

// NewRenderer creates a renderer with no frame history; the first Render
// emits a full redraw.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Invalidate forces the next Render to repaint every cell. Use after the
// terminal contents may have been scrambled externally.
func (r *Renderer) Invalidate() {
	r.forceFull = true
}

// Render builds the frame for the given terminal size and returns the draw
// operations that bring the terminal up to date. Unchanged input yields zero
// ops. A zero or negative size renders nothing.
func (r *Renderer) Render(tree *Tree, overlays *OverlayStack, width, height int) []DrawOp {
	if width <= 0 || height <= 0 {
		return nil
	}

	full := r.forceFull
	r.forceFull = false
	switch {
	case r.buf == nil:
		r.buf = NewBuffer(width, height)
		full = true
	case r.buf.Width() != width || r.buf.Height() != height:
		r.buf.Resize(width, height)
		full = true
	}

	if full || tree.NeedsLayout() {
		tree.Calculate(width, height)
	}

	r.buf.Clear()
	bounds := r.buf.Bounds()

	tree.walk(tree.nodes[tree.root], func(n *treeNode) bool {
		r.paintNode(n, bounds)
		return true
	})

	if overlays != nil {
		overlays.Each(func(_ Handle, ov Overlay) {
			r.paintOverlay(tree, ov, bounds)
		})
	}

	var ops []DrawOp
	if full {
		ops = r.buf.FullDiff()
	} else {
		ops = r.buf.Diff()
	}
	r.buf.Swap()
	return ops
}

func (r *Renderer) paintNode(n *treeNode, bounds Rect) {
	clip := n.rect.Intersect(bounds)
	if clip.IsEmpty() {
		return
	}

	switch n.kind {
	case KindBox:
		r.buf.Fill(clip, ' ', n.style)

	case KindText:
		r.buf.Fill(clip, ' ', n.style)
		r.paintLines(n.rect, clip, n.content, n.style)

	case KindCustom:
		if n.custom.Measure != nil {
			w, h := n.custom.Measure(n.rect.Width, n.rect.Height)
			clip = clip.Intersect(NewRect(n.rect.X, n.rect.Y, w, h))
			if clip.IsEmpty() {
				return
			}
		}
		n.custom.Paint(r.buf, clip)
	}
}

func (r *Renderer) paintOverlay(tree *Tree, ov Overlay, bounds Rect) {
	rect := ov.Anchor
	if ov.Target != 0 {
		// Anchor is relative to the target node; a removed target degrades
		// to absolute placement.
		if base, err := tree.NodeRect(ov.Target); err == nil {
			rect = rect.Translate(base.X, base.Y)
		}
	}

	clip := rect.Intersect(bounds)
	if clip.IsEmpty() {
		return
	}

	r.buf.Fill(clip, ' ', ov.Style)
	r.paintLines(rect, clip, ov.Content, ov.Style)
}

// paintLines writes content lines into rect, clipped to clip. Lines beyond
// the clip are dropped; overlong lines are cut at the clip edge.
func (r *Renderer) paintLines(rect, clip Rect, lines []string, style Style) {
	for i, line := range lines {
		y := rect.Y + i
		if y < clip.Y {
			continue
		}
		if y >= clip.Bottom() {
			break
		}
		r.buf.SetStringClipped(rect.X, y, line, style, clip)
	}
}
