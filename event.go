package weft

import "errors"

// Event is the base interface for all decoded terminal events.
// Use a type switch to handle specific event types.
type Event interface {
	// isEvent is a marker method to prevent external implementations.
	isEvent()
}

// KeyEvent represents a keyboard input event.
type KeyEvent struct {
	// Key is the key pressed. For printable characters this is KeyRune.
	Key Key

	// Rune is the character for KeyRune events. Zero for special keys.
	Rune rune

	// Mod contains modifier flags (Ctrl, Alt, Shift).
	Mod Modifier
}

func (KeyEvent) isEvent() {}

// IsRune returns true if this is a printable character event.
func (e KeyEvent) IsRune() bool {
	return e.Key == KeyRune
}

// Is checks if the event matches a specific key with optional modifiers.
// Example: event.Is(KeyEnter) or event.Is(KeyRune, ModCtrl).
func (e KeyEvent) Is(key Key, mods ...Modifier) bool {
	if e.Key != key {
		return false
	}
	if len(mods) == 0 {
		return true
	}
	var combined Modifier
	for _, m := range mods {
		combined |= m
	}
	return e.Mod == combined
}

// ResizeEvent is delivered when the terminal reports new dimensions.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) isEvent() {}

// MouseButton represents which mouse button was involved in an event.
type MouseButton int

const (
	// MouseLeft is the left (primary) mouse button.
	MouseLeft MouseButton = iota
	// MouseMiddle is the middle mouse button.
	MouseMiddle
	// MouseRight is the right (secondary) mouse button.
	MouseRight
	// MouseWheelUp is a scroll wheel up event.
	MouseWheelUp
	// MouseWheelDown is a scroll wheel down event.
	MouseWheelDown
	// MouseNone indicates no button (motion and legacy release events).
	MouseNone
)

// MouseAction represents the type of mouse action.
type MouseAction int

const (
	// MousePress indicates a button was pressed.
	MousePress MouseAction = iota
	// MouseRelease indicates a button was released.
	MouseRelease
	// MouseDrag indicates motion while a button is held.
	MouseDrag
)

// MouseEvent represents a mouse input event in 0-indexed cell coordinates.
type MouseEvent struct {
	Button MouseButton
	Action MouseAction
	X      int
	Y      int
	Mod    Modifier
}

func (MouseEvent) isEvent() {}

// PasteEvent carries the text of a bracketed paste as a single event, so
// pasted content is never misread as individual keystrokes.
type PasteEvent struct {
	Text string
}

func (PasteEvent) isEvent() {}

// ErrInvalidEncoding reports a malformed UTF-8 byte in the input stream.
// The offending byte is discarded and decoding continues.
var ErrInvalidEncoding = errors.New("invalid utf-8 in input stream")

// ErrorEvent surfaces a recoverable decode problem. It never terminates the
// event stream; callers may log it or ignore it.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}

func (e ErrorEvent) Error() string {
	return e.Err.Error()
}
