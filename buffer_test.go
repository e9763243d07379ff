package weft

import "testing"

func TestBuffer_DiffCoalescesRun(t *testing.T) {
	b := NewBuffer(20, 3)
	b.SetString(2, 1, "hello", NewStyle())

	ops := b.Diff()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %+v", len(ops), ops)
	}
	op := ops[0]
	if op.X != 2 || op.Y != 1 || op.Text != "hello" {
		t.Errorf("expected {2 1 hello}, got %+v", op)
	}
}

func TestBuffer_DiffSplitsOnStyleChange(t *testing.T) {
	b := NewBuffer(20, 1)
	red := NewStyle().Foreground(Red)
	b.SetString(0, 0, "ab", NewStyle())
	b.SetString(2, 0, "cd", red)

	ops := b.Diff()
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d: %+v", len(ops), ops)
	}
	if ops[0].Text != "ab" || ops[1].Text != "cd" {
		t.Errorf("expected runs ab/cd, got %+v", ops)
	}
	if !ops[1].Style.Equal(red) {
		t.Errorf("expected second run in red, got %+v", ops[1].Style)
	}
}

func TestBuffer_DiffSplitsOnGap(t *testing.T) {
	b := NewBuffer(20, 1)
	b.SetRune(0, 0, 'a', NewStyle())
	b.SetRune(5, 0, 'b', NewStyle())

	ops := b.Diff()
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d: %+v", len(ops), ops)
	}
	if ops[0].X != 0 || ops[1].X != 5 {
		t.Errorf("expected ops at x=0 and x=5, got %+v", ops)
	}
}

func TestBuffer_DiffEmptyWhenUnchanged(t *testing.T) {
	b := NewBuffer(10, 2)
	b.SetString(0, 0, "same", NewStyle())
	b.Swap()

	// Rebuild the identical frame in the new back buffer.
	b.Clear()
	b.SetString(0, 0, "same", NewStyle())

	if ops := b.Diff(); len(ops) != 0 {
		t.Fatalf("expected no ops for identical frame, got %+v", ops)
	}
}

func TestBuffer_DiffRowMajorOrder(t *testing.T) {
	b := NewBuffer(10, 3)
	b.SetRune(4, 2, 'z', NewStyle())
	b.SetRune(1, 0, 'a', NewStyle())

	ops := b.Diff()
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
	if ops[0].Y != 0 || ops[1].Y != 2 {
		t.Errorf("expected row-major order, got %+v", ops)
	}
}

func TestBuffer_FullDiffCoversEveryRow(t *testing.T) {
	b := NewBuffer(8, 4)
	ops := b.FullDiff()
	if len(ops) != 4 {
		t.Fatalf("expected one run per row, got %d: %+v", len(ops), ops)
	}
	for y, op := range ops {
		if op.Y != y || op.X != 0 {
			t.Errorf("row %d: expected full-width run at origin, got %+v", y, op)
		}
		if len([]rune(op.Text)) != 8 {
			t.Errorf("row %d: expected 8 cells of text, got %q", y, op.Text)
		}
	}
}

func TestBuffer_WideRune(t *testing.T) {
	b := NewBuffer(10, 1)
	b.SetRune(0, 0, '世', NewStyle())

	if got := b.Cell(0, 0); got.Rune != '世' || got.Width != 2 {
		t.Errorf("expected wide leader, got %+v", got)
	}
	if got := b.Cell(1, 0); !got.IsContinuation() {
		t.Errorf("expected continuation at x=1, got %+v", got)
	}

	ops := b.Diff()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d: %+v", len(ops), ops)
	}
	if ops[0].Text != "世" {
		t.Errorf("expected single wide rune in run, got %q", ops[0].Text)
	}
}

func TestBuffer_WideRuneRunStaysContiguous(t *testing.T) {
	b := NewBuffer(10, 1)
	b.SetString(0, 0, "a世b", NewStyle())

	ops := b.Diff()
	if len(ops) != 1 {
		t.Fatalf("expected 1 coalesced op, got %d: %+v", len(ops), ops)
	}
	if ops[0].Text != "a世b" {
		t.Errorf("expected %q, got %q", "a世b", ops[0].Text)
	}
}

func TestBuffer_WideRuneOverwrite(t *testing.T) {
	t.Run("overwriting leader blanks continuation", func(t *testing.T) {
		b := NewBuffer(10, 1)
		b.SetRune(0, 0, '世', NewStyle())
		b.SetRune(0, 0, 'a', NewStyle())

		if got := b.Cell(1, 0); got.IsContinuation() {
			t.Errorf("expected continuation cleared, got %+v", got)
		}
	})

	t.Run("overwriting continuation blanks leader", func(t *testing.T) {
		b := NewBuffer(10, 1)
		b.SetRune(0, 0, '世', NewStyle())
		b.SetRune(1, 0, 'x', NewStyle())

		if got := b.Cell(0, 0); got.Rune == '世' {
			t.Errorf("expected leader cleared, got %+v", got)
		}
		if got := b.Cell(1, 0); got.Rune != 'x' {
			t.Errorf("expected 'x' at x=1, got %+v", got)
		}
	})
}

func TestBuffer_WideRuneAtRightEdge(t *testing.T) {
	b := NewBuffer(3, 1)
	b.SetRune(2, 0, '世', NewStyle())

	if got := b.Cell(2, 0); got.Rune != ' ' {
		t.Errorf("expected space placeholder at right edge, got %+v", got)
	}
}

func TestBuffer_SetStringClipped(t *testing.T) {
	b := NewBuffer(20, 3)
	clip := NewRect(5, 1, 4, 1)

	b.SetStringClipped(3, 1, "abcdefgh", NewStyle(), clip)

	for x := 0; x < 20; x++ {
		cell := b.Cell(x, 1)
		inClip := x >= 5 && x < 9
		if inClip && cell.Rune == 0 {
			t.Errorf("expected rune inside clip at x=%d", x)
		}
		if !inClip && cell.Rune != 0 && cell.Rune != ' ' {
			t.Errorf("unexpected rune %q outside clip at x=%d", cell.Rune, x)
		}
	}
	if b.Cell(5, 1).Rune != 'c' {
		t.Errorf("expected 'c' at clip start, got %q", b.Cell(5, 1).Rune)
	}
}

func TestBuffer_Fill(t *testing.T) {
	b := NewBuffer(6, 4)
	b.Fill(NewRect(1, 1, 3, 2), '#', NewStyle())

	want := "      \n ###  \n ###  \n      "
	if got := b.String(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestBuffer_Resize(t *testing.T) {
	b := NewBuffer(10, 2)
	b.SetString(0, 0, "keep", NewStyle())

	b.Resize(6, 3)
	if b.Width() != 6 || b.Height() != 3 {
		t.Fatalf("expected 6x3, got %dx%d", b.Width(), b.Height())
	}
	if b.Cell(0, 0).Rune != 'k' {
		t.Errorf("expected content preserved, got %+v", b.Cell(0, 0))
	}

	// After a resize the previous frame is stale, so a full diff repaints.
	ops := b.FullDiff()
	if len(ops) != 3 {
		t.Errorf("expected one run per row after resize, got %d", len(ops))
	}
}

func TestBuffer_OutOfBoundsIgnored(t *testing.T) {
	b := NewBuffer(5, 5)
	b.SetRune(-1, 0, 'a', NewStyle())
	b.SetRune(0, -1, 'a', NewStyle())
	b.SetRune(5, 0, 'a', NewStyle())
	b.SetRune(0, 5, 'a', NewStyle())

	if ops := b.Diff(); len(ops) != 0 {
		t.Errorf("expected no writes, got %+v", ops)
	}
}
