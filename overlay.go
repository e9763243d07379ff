package weft

import (
	"errors"
	"sort"
)

// ErrStaleHandle reports an operation on an overlay that was already popped.
var ErrStaleHandle = errors.New("overlay handle is no longer valid")

// Overlay is a floating region composited above the base tree. Overlays do
// not participate in layout; their position comes from the anchor rectangle.
type Overlay struct {
	// Anchor places the overlay. When Target is zero the anchor is absolute
	// in terminal coordinates; otherwise X and Y are offsets from the target
	// node's top-left corner.
	Anchor Rect

	// Target optionally ties the anchor to a base-tree node. The overlay
	// references the node, it does not own it: if the node is removed the
	// overlay falls back to absolute placement.
	Target NodeID

	// Z orders overlays; higher values composite later (on top). Overlays
	// with equal Z stack in insertion order, later on top.
	Z int

	Content []string
	Style   Style
}

// Handle identifies a pushed overlay. Handles are never reused.
type Handle int

type overlayEntry struct {
	handle  Handle
	seq     int // insertion order, the tiebreak within a Z layer
	overlay Overlay
}

// OverlayStack holds the overlays for one session, composited in ascending
// Z order after the base tree. Owned by a single session; no locking.
type OverlayStack struct {
	entries    []overlayEntry
	nextHandle Handle
	nextSeq    int
}

// NewOverlayStack creates an empty overlay stack.
func NewOverlayStack() *OverlayStack {
	return &OverlayStack{nextHandle: 1}
}

// Push adds an overlay and returns its handle.
func (s *OverlayStack) Push(ov Overlay) Handle {
	h := s.nextHandle
	s.nextHandle++
	s.entries = append(s.entries, overlayEntry{
		handle:  h,
		seq:     s.nextSeq,
		overlay: ov,
	})
	s.nextSeq++
	return h
}

// Pop removes the overlay for h. The handle is stale afterwards.
func (s *OverlayStack) Pop(h Handle) error {
	i := s.find(h)
	if i < 0 {
		return ErrStaleHandle
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// BringToFront moves the overlay above every other overlay in its Z layer.
// Overlays with a higher Z still composite above it.
func (s *OverlayStack) BringToFront(h Handle) error {
	i := s.find(h)
	if i < 0 {
		return ErrStaleHandle
	}
	s.entries[i].seq = s.nextSeq
	s.nextSeq++
	return nil
}

// Update replaces the overlay for h in place, keeping its stacking position.
func (s *OverlayStack) Update(h Handle, ov Overlay) error {
	i := s.find(h)
	if i < 0 {
		return ErrStaleHandle
	}
	s.entries[i].overlay = ov
	return nil
}

// Len returns the number of overlays on the stack.
func (s *OverlayStack) Len() int {
	return len(s.entries)
}

// Each visits overlays in compositing order: ascending Z, insertion order
// within a layer.
func (s *OverlayStack) Each(fn func(Handle, Overlay)) {
	ordered := make([]overlayEntry, len(s.entries))
	copy(ordered, s.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].overlay.Z != ordered[j].overlay.Z {
			return ordered[i].overlay.Z < ordered[j].overlay.Z
		}
		return ordered[i].seq < ordered[j].seq
	})
	for _, e := range ordered {
		fn(e.handle, e.overlay)
	}
}

func (s *OverlayStack) find(h Handle) int {
	for i, e := range s.entries {
		if e.handle == h {
			return i
		}
	}
	return -1
}
