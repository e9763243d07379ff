package weft

import "time"

// Input is one unit of external input: a chunk of raw bytes from the
// terminal, or a resize notification. Exactly one field is set.
type Input struct {
	Bytes  []byte
	Resize *ResizeEvent
}

// InputSource is the input collaborator of a session. The session loop's
// only suspension point is Poll; everything else runs to completion.
type InputSource interface {
	// Poll waits up to timeout for input. ok is false on timeout. A
	// negative timeout blocks until input arrives. A non-nil error is
	// fatal to the source (the session ends).
	Poll(timeout time.Duration) (in Input, ok bool, err error)

	// Close releases the source. Poll must not be called afterwards.
	Close() error
}

// resizeDebounceWindow coalesces the burst of resize signals a terminal
// emits while the user drags the window edge.
const resizeDebounceWindow = 16 * time.Millisecond
