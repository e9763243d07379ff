package weft

import (
	"errors"
	"testing"
)

func overlayOrder(s *OverlayStack) []Handle {
	var order []Handle
	s.Each(func(h Handle, _ Overlay) {
		order = append(order, h)
	})
	return order
}

func TestOverlayStack_OrdersByZ(t *testing.T) {
	s := NewOverlayStack()
	top := s.Push(Overlay{Z: 10})
	bottom := s.Push(Overlay{Z: 1})
	middle := s.Push(Overlay{Z: 5})

	got := overlayOrder(s)
	want := []Handle{bottom, middle, top}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestOverlayStack_EqualZStacksByInsertion(t *testing.T) {
	s := NewOverlayStack()
	first := s.Push(Overlay{Z: 3})
	second := s.Push(Overlay{Z: 3})

	got := overlayOrder(s)
	if got[0] != first || got[1] != second {
		t.Fatalf("expected later push on top, got %v", got)
	}
}

func TestOverlayStack_BringToFront(t *testing.T) {
	s := NewOverlayStack()
	a := s.Push(Overlay{Z: 3})
	b := s.Push(Overlay{Z: 3})
	high := s.Push(Overlay{Z: 9})

	if err := s.BringToFront(a); err != nil {
		t.Fatalf("BringToFront: %v", err)
	}

	got := overlayOrder(s)
	want := []Handle{b, a, high}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v (higher Z stays on top), got %v", want, got)
		}
	}
}

func TestOverlayStack_PopInvalidatesHandle(t *testing.T) {
	s := NewOverlayStack()
	h := s.Push(Overlay{})

	if err := s.Pop(h); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty stack, got %d", s.Len())
	}

	if err := s.Pop(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("second Pop: expected ErrStaleHandle, got %v", err)
	}
	if err := s.BringToFront(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("BringToFront: expected ErrStaleHandle, got %v", err)
	}
	if err := s.Update(h, Overlay{}); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Update: expected ErrStaleHandle, got %v", err)
	}
}

func TestOverlayStack_HandlesNeverReused(t *testing.T) {
	s := NewOverlayStack()
	old := s.Push(Overlay{})
	if err := s.Pop(old); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if fresh := s.Push(Overlay{}); fresh == old {
		t.Fatalf("handle %d was reused", old)
	}
}
