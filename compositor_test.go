package weft

import (
	"strings"
	"testing"
)

// screen applies DrawOps to a rune grid so tests can assert on the terminal
// state a sequence of frames produces.
type screen struct {
	width, height int
	cells         [][]rune
}

func newScreen(width, height int) *screen {
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = make([]rune, width)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return &screen{width: width, height: height, cells: cells}
}

func (s *screen) apply(ops []DrawOp) {
	for _, op := range ops {
		x := op.X
		for _, r := range op.Text {
			if op.Y >= 0 && op.Y < s.height && x >= 0 && x < s.width {
				s.cells[op.Y][x] = r
			}
			x += RuneWidth(r)
		}
	}
}

func (s *screen) row(y int) string {
	return string(s.cells[y])
}

func TestRenderer_FirstRenderIsFull(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()

	ops := r.Render(tree, nil, 10, 4)
	if len(ops) != 4 {
		t.Fatalf("expected one full-width op per row, got %d: %+v", len(ops), ops)
	}
}

func TestRenderer_UnchangedFrameEmitsZeroOps(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	mustInsert(t, tree, tree.Root(), Node{Kind: KindText, Content: []string{"steady"}})

	first := r.Render(tree, nil, 20, 5)
	if len(first) == 0 {
		t.Fatal("expected ops on first render")
	}

	second := r.Render(tree, nil, 20, 5)
	if len(second) != 0 {
		t.Fatalf("expected zero ops for unchanged frame, got %+v", second)
	}
}

func TestRenderer_ContentUpdateEmitsMinimalOps(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	text := mustInsert(t, tree, tree.Root(), Node{Kind: KindText, Content: []string{"aaaa"}})

	scr := newScreen(20, 5)
	scr.apply(r.Render(tree, nil, 20, 5))

	if err := tree.UpdateContent(text, []string{"abca"}); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	ops := r.Render(tree, nil, 20, 5)
	if len(ops) != 1 {
		t.Fatalf("expected 1 coalesced op, got %d: %+v", len(ops), ops)
	}
	if ops[0].X != 1 || ops[0].Y != 0 || ops[0].Text != "bc" {
		t.Errorf("expected only the changed cells, got %+v", ops[0])
	}

	scr.apply(ops)
	if got := scr.row(0); !strings.HasPrefix(got, "abca") {
		t.Errorf("expected row %q, got %q", "abca", got)
	}
}

func TestRenderer_ZeroSizeRendersNothing(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()

	if ops := r.Render(tree, nil, 0, 0); ops != nil {
		t.Errorf("expected nil for zero size, got %+v", ops)
	}
	if ops := r.Render(tree, nil, -3, 10); ops != nil {
		t.Errorf("expected nil for negative size, got %+v", ops)
	}
}

func TestRenderer_ResizeForcesFullRedraw(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	mustInsert(t, tree, tree.Root(), Node{Kind: KindText, Content: []string{"hi"}})

	r.Render(tree, nil, 10, 4)

	ops := r.Render(tree, nil, 8, 3)
	if len(ops) != 3 {
		t.Fatalf("expected a full redraw after resize, got %d ops: %+v", len(ops), ops)
	}
}

func TestRenderer_FixedPlusFillFrame(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	mustInsert(t, tree, tree.Root(), Node{
		Kind:    KindText,
		Content: []string{"header"},
		Layout:  LayoutStyle{Width: Fill(), Height: Fixed(2)},
	})
	mustInsert(t, tree, tree.Root(), Node{
		Kind:    KindText,
		Content: []string{"body"},
		Layout:  LayoutStyle{Width: Fill(), Height: Fill()},
	})

	scr := newScreen(20, 6)
	scr.apply(r.Render(tree, nil, 20, 6))

	if got := scr.row(0); !strings.HasPrefix(got, "header") {
		t.Errorf("row 0: expected header, got %q", got)
	}
	if got := scr.row(2); !strings.HasPrefix(got, "body") {
		t.Errorf("row 2: expected body, got %q", got)
	}
}

func TestRenderer_RemovedNodeNotPainted(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	text := mustInsert(t, tree, tree.Root(), Node{Kind: KindText, Content: []string{"gone"}})

	scr := newScreen(10, 2)
	scr.apply(r.Render(tree, nil, 10, 2))
	if got := scr.row(0); !strings.HasPrefix(got, "gone") {
		t.Fatalf("expected content before removal, got %q", got)
	}

	if err := tree.Remove(text); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	scr.apply(r.Render(tree, nil, 10, 2))
	if got := scr.row(0); strings.Contains(got, "gone") {
		t.Errorf("expected content cleared after removal, got %q", got)
	}
}

func TestRenderer_OverlayPaintsAboveTree(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	mustInsert(t, tree, tree.Root(), Node{Kind: KindText, Content: []string{"xxxxxxxxxx"}})

	overlays := NewOverlayStack()
	overlays.Push(Overlay{Anchor: NewRect(2, 0, 4, 1), Content: []string{"pop!"}})

	scr := newScreen(10, 2)
	scr.apply(r.Render(tree, overlays, 10, 2))

	if got := scr.row(0); got != "xxpop!xxxx" {
		t.Errorf("expected overlay over base tree, got %q", got)
	}
}

func TestRenderer_OverlayZOrder(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	overlays := NewOverlayStack()
	overlays.Push(Overlay{Anchor: NewRect(0, 0, 4, 1), Z: 1, Content: []string{"AAAA"}})
	overlays.Push(Overlay{Anchor: NewRect(1, 0, 2, 1), Z: 2, Content: []string{"BB"}})

	scr := newScreen(6, 1)
	scr.apply(r.Render(tree, overlays, 6, 1))

	if got := scr.row(0); !strings.HasPrefix(got, "ABBA") {
		t.Errorf("expected higher Z on top, got %q", got)
	}
}

func TestRenderer_OverlayRelativeAnchor(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	mustInsert(t, tree, tree.Root(), Node{
		Kind:   KindBox,
		Layout: LayoutStyle{Width: Fill(), Height: Fixed(2)},
	})
	body := mustInsert(t, tree, tree.Root(), Node{
		Kind:   KindBox,
		Layout: LayoutStyle{Width: Fill(), Height: Fill()},
	})

	overlays := NewOverlayStack()
	overlays.Push(Overlay{
		Target:  body,
		Anchor:  NewRect(3, 1, 5, 1),
		Content: []string{"tip"},
	})

	scr := newScreen(20, 6)
	scr.apply(r.Render(tree, overlays, 20, 6))

	// Body starts at row 2; the overlay offsets (3, 1) from it.
	if got := scr.row(3); got[3:6] != "tip" {
		t.Errorf("expected tip at (3,3), got row %q", got)
	}
}

func TestRenderer_OverlayClippedAfterShrink(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()
	overlays := NewOverlayStack()
	overlays.Push(Overlay{Anchor: NewRect(5, 3, 10, 4), Content: []string{"big overlay"}})

	r.Render(tree, overlays, 30, 10)

	// Shrinking pushes the overlay partially, then fully, off-screen.
	scr := newScreen(8, 4)
	scr.apply(r.Render(tree, overlays, 8, 4))
	if got := scr.row(3); got != "     big" {
		t.Errorf("expected clipped overlay, got %q", got)
	}

	if ops := r.Render(tree, overlays, 4, 2); len(ops) == 0 {
		// Resize forces a full redraw even when the overlay vanished.
		t.Error("expected redraw ops after shrink")
	}
}

func TestRenderer_CustomNode(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()

	var painted Rect
	mustInsert(t, tree, tree.Root(), Node{
		Kind: KindCustom,
		Custom: &CustomPainter{
			Measure: func(maxW, maxH int) (int, int) { return 4, 1 },
			Paint: func(buf *Buffer, rect Rect) {
				painted = rect
				buf.SetStringClipped(rect.X, rect.Y, "draw", NewStyle(), rect)
			},
		},
	})

	scr := newScreen(10, 3)
	scr.apply(r.Render(tree, nil, 10, 3))

	if painted != NewRect(0, 0, 4, 1) {
		t.Errorf("expected paint clip from Measure, got %+v", painted)
	}
	if got := scr.row(0); !strings.HasPrefix(got, "draw") {
		t.Errorf("expected custom content, got %q", got)
	}
}

func TestRenderer_InvalidateRepaintsAll(t *testing.T) {
	r := NewRenderer()
	tree := NewTree()

	r.Render(tree, nil, 10, 3)
	r.Invalidate()

	ops := r.Render(tree, nil, 10, 3)
	if len(ops) != 3 {
		t.Fatalf("expected full redraw after Invalidate, got %d ops", len(ops))
	}
}
