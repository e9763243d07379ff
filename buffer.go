package weft

import "strings"

// DrawOp is one positioned, styled write: a run of text placed at a cell
// coordinate. The compositor emits a minimal list of DrawOps per frame and
// the Terminal serializes them however its protocol requires.
type DrawOp struct {
	X, Y  int
	Style Style
	Text  string
}

// Buffer is a double-buffered grid of cells. Writes go to the back buffer;
// Diff compares it against the front buffer and Swap promotes it.
type Buffer struct {
	front  []Cell // what the terminal currently shows
	back   []Cell // the frame being built
	width  int
	height int
}

// NewBuffer creates a buffer of the given dimensions with both planes
// initialized to blank cells.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	size := width * height
	front := make([]Cell, size)
	back := make([]Cell, size)

	blank := NewCell(' ', NewStyle())
	for i := range front {
		front[i] = blank
		back[i] = blank
	}

	return &Buffer{
		front:  front,
		back:   back,
		width:  width,
		height: height,
	}
}

// Width returns the buffer width in columns.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in rows.
func (b *Buffer) Height() int {
	return b.height
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the buffer area as a Rect at the origin.
func (b *Buffer) Bounds() Rect {
	return NewRect(0, 0, b.width, b.height)
}

// idx converts (x, y) to a flat index, or -1 when out of bounds.
func (b *Buffer) idx(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.width + x
}

// Cell returns the back-buffer cell at (x, y), or a zero Cell out of bounds.
func (b *Buffer) Cell(x, y int) Cell {
	i := b.idx(x, y)
	if i < 0 {
		return Cell{}
	}
	return b.back[i]
}

// SetCell writes a cell directly into the back buffer. Out-of-bounds writes
// are dropped. Callers that place wide runes should use SetRune, which keeps
// leader/continuation pairs consistent.
func (b *Buffer) SetCell(x, y int, c Cell) {
	i := b.idx(x, y)
	if i < 0 {
		return
	}
	b.back[i] = c
}

// SetRune writes a rune at (x, y). Wide runes occupy two cells: the leader
// holds the glyph, the next cell is marked as a continuation. Writing over
// either half of an existing wide rune blanks the orphaned half.
func (b *Buffer) SetRune(x, y int, r rune, style Style) {
	if b.idx(x, y) < 0 {
		return
	}

	width := RuneWidth(r)
	target := b.Cell(x, y)

	if target.IsContinuation() {
		b.clearWideAt(x, y)
	}
	if target.Width == 2 {
		b.clearWideAt(x, y)
	}

	// A wide rune landing on the left half of another wide rune, or on its
	// continuation, orphans that rune too.
	if width == 2 && x+1 < b.width {
		next := b.Cell(x+1, y)
		if next.Width == 2 || next.IsContinuation() {
			b.clearWideAt(x+1, y)
		}
	}

	// A wide rune cannot straddle the right edge.
	if width == 2 && x+1 >= b.width {
		b.SetCell(x, y, NewCell(' ', style))
		return
	}

	b.SetCell(x, y, NewCellWithWidth(r, style, uint8(width)))
	if width == 2 {
		b.SetCell(x+1, y, NewCellWithWidth(0, style, 0))
	}
}

// clearWideAt blanks both halves of the wide rune covering (x, y).
func (b *Buffer) clearWideAt(x, y int) {
	blank := NewCell(' ', NewStyle())
	cell := b.Cell(x, y)

	switch {
	case cell.IsContinuation():
		if x > 0 {
			b.SetCell(x-1, y, blank)
		}
		b.SetCell(x, y, blank)
	case cell.Width == 2:
		b.SetCell(x, y, blank)
		b.SetCell(x+1, y, blank)
	}
}

// SetString writes a string starting at (x, y), stopping at the right edge
// without wrapping. Returns the display width consumed.
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	if y < 0 || y >= b.height {
		return 0
	}

	total := 0
	cur := x
	for _, r := range s {
		if cur >= b.width {
			break
		}
		w := RuneWidth(r)
		if cur < 0 {
			cur += w
			continue
		}
		if w == 2 && cur+1 >= b.width {
			break
		}
		b.SetRune(cur, y, r, style)
		cur += w
		total += w
	}
	return total
}

// SetStringClipped writes a string confined to clip. Runes outside the clip
// rectangle are skipped; a wide rune that would straddle the clip's right
// edge is dropped entirely. Returns the display width rendered.
func (b *Buffer) SetStringClipped(x, y int, s string, style Style, clip Rect) int {
	if y < clip.Y || y >= clip.Bottom() {
		return 0
	}

	total := 0
	cur := x
	for _, r := range s {
		w := RuneWidth(r)
		if cur+w <= clip.X {
			cur += w
			continue
		}
		if cur >= clip.Right() {
			break
		}
		if cur >= clip.X {
			if w == 2 && cur+1 >= clip.Right() {
				cur += w
				continue
			}
			b.SetRune(cur, y, r, style)
			total += w
		}
		cur += w
	}
	return total
}

// Fill fills a rectangle with the given rune and style. The rectangle is
// clipped to the buffer.
func (b *Buffer) Fill(rect Rect, r rune, style Style) {
	rect = rect.Intersect(b.Bounds())
	if rect.IsEmpty() {
		return
	}

	w := RuneWidth(r)
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); {
			if w == 2 && x+1 >= rect.Right() {
				b.SetRune(x, y, ' ', style)
				x++
				continue
			}
			b.SetRune(x, y, r, style)
			x += w
		}
	}
}

// Clear resets the entire back buffer to blank cells.
func (b *Buffer) Clear() {
	b.ClearRect(b.Bounds())
}

// ClearRect resets a rectangular region to blank cells, repairing any wide
// runes cut by the region's edges.
func (b *Buffer) ClearRect(rect Rect) {
	rect = rect.Intersect(b.Bounds())
	if rect.IsEmpty() {
		return
	}

	blank := NewCell(' ', NewStyle())
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			cell := b.Cell(x, y)
			if x == rect.X && cell.IsContinuation() && x > 0 {
				b.SetCell(x-1, y, blank)
			}
			if x+1 == rect.Right() && cell.Width == 2 {
				b.SetCell(x+1, y, blank)
			}
			b.SetCell(x, y, blank)
		}
	}
}

// Diff returns the draw operations that transform the front buffer into the
// back buffer. Adjacent changed cells on the same row with the same style
// coalesce into one op, so a repainted line costs one cursor move.
func (b *Buffer) Diff() []DrawOp {
	return b.diff(false)
}

// FullDiff returns draw operations for every cell of the back buffer,
// ignoring the front buffer. Used for the first frame and after a resize.
func (b *Buffer) FullDiff() []DrawOp {
	return b.diff(true)
}

func (b *Buffer) diff(full bool) []DrawOp {
	var ops []DrawOp

	for y := 0; y < b.height; y++ {
		row := y * b.width

		var text strings.Builder
		runX := -1
		nextX := 0
		var runStyle Style

		flush := func() {
			if runX >= 0 && text.Len() > 0 {
				ops = append(ops, DrawOp{X: runX, Y: y, Style: runStyle, Text: text.String()})
			}
			runX = -1
			text.Reset()
		}

		for x := 0; x < b.width; x++ {
			cell := b.back[row+x]
			if cell.IsContinuation() {
				// Covered by the leader's glyph; does not break the run.
				continue
			}

			changed := full || !cell.Equal(b.front[row+x])
			if !changed && cell.Width == 2 && x+1 < b.width {
				changed = !b.back[row+x+1].Equal(b.front[row+x+1])
			}
			if !changed {
				continue
			}

			if runX < 0 || x != nextX || !cell.Style.Equal(runStyle) {
				flush()
				runX = x
				runStyle = cell.Style
			}

			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			text.WriteRune(r)

			w := int(cell.Width)
			if w < 1 {
				w = 1
			}
			nextX = x + w
		}
		flush()
	}

	return ops
}

// Swap promotes the back buffer to the front. The planes exchange by pointer,
// so the new back buffer holds the frame before last; callers clear or fully
// repaint it before the next Diff.
func (b *Buffer) Swap() {
	b.front, b.back = b.back, b.front
}

// Resize changes the buffer dimensions, preserving content in the
// overlapping region. The front plane is blanked so the next Diff repaints
// everything the terminal may have scrambled.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return
	}

	size := width * height
	front := make([]Cell, size)
	back := make([]Cell, size)

	blank := NewCell(' ', NewStyle())
	for i := range front {
		front[i] = blank
		back[i] = blank
	}

	copyW := min(width, b.width)
	copyH := min(height, b.height)
	for y := 0; y < copyH; y++ {
		copy(back[y*width:y*width+copyW], b.back[y*b.width:y*b.width+copyW])
	}

	b.front = front
	b.back = back
	b.width = width
	b.height = height
}

// String renders the back buffer for debugging, one line per row.
// Continuation cells are skipped so wide runes appear once.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cell := b.back[y*b.width+x]
			if cell.IsContinuation() {
				continue
			}
			if cell.Rune == 0 {
				sb.WriteRune(' ')
			} else {
				sb.WriteRune(cell.Rune)
			}
		}
		if y < b.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// StringTrimmed is String with trailing spaces removed from each line.
func (b *Buffer) StringTrimmed() string {
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
