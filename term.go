package weft

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorDepth is the richest color encoding a terminal accepts.
type ColorDepth uint8

const (
	// Color16 supports only the 16 basic ANSI colors.
	Color16 ColorDepth = iota
	// Color256 supports the 256-entry palette.
	Color256
	// ColorTrue supports 24-bit RGB.
	ColorTrue
)

// Capabilities describes what the attached terminal can do. The escape
// builder degrades output to fit.
type Capabilities struct {
	Colors    ColorDepth
	AltScreen bool
	Mouse     bool
}

// Terminal is the output collaborator of a session. Implementations
// serialize draw operations however their protocol requires; the engine
// core never emits escape sequences itself.
type Terminal interface {
	// Size returns the current terminal dimensions in cells.
	Size() (width, height int)

	// Flush applies one frame's draw operations.
	Flush(ops []DrawOp) error

	// Clear erases the screen.
	Clear()

	SetCursor(x, y int)
	HideCursor()
	ShowCursor()

	// EnterRawMode and ExitRawMode bracket a session: byte-by-byte input,
	// no echo. Called once each at session start and end.
	EnterRawMode() error
	ExitRawMode() error

	EnterAltScreen()
	ExitAltScreen()

	EnableMouse()
	DisableMouse()

	Caps() Capabilities
}

// ANSITerminal implements Terminal for any ANSI-compatible emulator.
type ANSITerminal struct {
	out       io.Writer
	caps      Capabilities
	esc       *escBuilder
	lastStyle Style
	inFd      int
	outFd     int
	rawState  *term.State
}

// NewANSITerminal creates a terminal writing to out, with capabilities
// detected from the environment. in supplies the file descriptor for raw
// mode; pass os.Stdin for interactive use.
func NewANSITerminal(out io.Writer, in *os.File) *ANSITerminal {
	t := &ANSITerminal{
		out:  out,
		caps: detectCapabilities(),
		esc:  newEscBuilder(4096),
	}
	t.inFd = int(in.Fd())
	t.outFd = t.inFd
	if f, ok := out.(*os.File); ok {
		t.outFd = int(f.Fd())
	}
	return t
}

// NewANSITerminalWithCaps is NewANSITerminal with explicit capabilities.
func NewANSITerminalWithCaps(out io.Writer, in *os.File, caps Capabilities) *ANSITerminal {
	t := NewANSITerminal(out, in)
	t.caps = caps
	return t
}

// detectCapabilities inspects TERM and COLORTERM. Conservative: anything
// unrecognized gets the 256-color palette, which every terminal this engine
// targets accepts.
func detectCapabilities() Capabilities {
	caps := Capabilities{
		Colors:    Color256,
		AltScreen: true,
		Mouse:     true,
	}
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		caps.Colors = ColorTrue
	}
	if strings.Contains(os.Getenv("TERM"), "truecolor") {
		caps.Colors = ColorTrue
	}
	return caps
}

// Size returns the terminal dimensions, defaulting to 80x24 when the
// descriptor is not a terminal.
func (t *ANSITerminal) Size() (width, height int) {
	w, h, err := getTerminalSize(t.outFd)
	if err != nil {
		return 80, 24
	}
	return w, h
}

// Flush serializes one frame of draw operations inside a synchronized
// update block: one cursor move per run, style emitted only when it changes,
// a single write at the end.
func (t *ANSITerminal) Flush(ops []DrawOp) error {
	if len(ops) == 0 {
		return nil
	}

	t.esc.Reset()
	t.esc.BeginSyncUpdate()
	for _, op := range ops {
		t.esc.MoveTo(op.X, op.Y)
		if !op.Style.Equal(t.lastStyle) {
			t.esc.SetStyle(op.Style, t.caps)
			t.lastStyle = op.Style
		}
		t.esc.WriteString(op.Text)
	}
	t.esc.EndSyncUpdate()

	_, err := t.out.Write(t.esc.Bytes())
	return err
}

// Clear erases the screen and the scrollback, leaving the cursor at home.
func (t *ANSITerminal) Clear() {
	t.esc.Reset()
	t.esc.ResetStyle()
	t.esc.MoveTo(0, 0)
	t.esc.ClearScreen()
	t.esc.ClearScrollback()
	t.esc.MoveTo(0, 0)
	t.out.Write(t.esc.Bytes())
	t.lastStyle = NewStyle()
}

func (t *ANSITerminal) SetCursor(x, y int) {
	t.esc.Reset()
	t.esc.MoveTo(x, y)
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) HideCursor() {
	t.esc.Reset()
	t.esc.HideCursor()
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) ShowCursor() {
	t.esc.Reset()
	t.esc.ShowCursor()
	t.out.Write(t.esc.Bytes())
}

// EnterRawMode switches input to raw mode, saving the previous state.
func (t *ANSITerminal) EnterRawMode() error {
	state, err := term.MakeRaw(t.inFd)
	if err != nil {
		return err
	}
	t.rawState = state
	return nil
}

// ExitRawMode restores the terminal state saved by EnterRawMode. Safe to
// call when raw mode was never entered.
func (t *ANSITerminal) ExitRawMode() error {
	if t.rawState == nil {
		return nil
	}
	err := term.Restore(t.inFd, t.rawState)
	t.rawState = nil
	return err
}

func (t *ANSITerminal) EnterAltScreen() {
	if !t.caps.AltScreen {
		return
	}
	t.esc.Reset()
	t.esc.EnterAltScreen()
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) ExitAltScreen() {
	if !t.caps.AltScreen {
		return
	}
	t.esc.Reset()
	t.esc.ExitAltScreen()
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) EnableMouse() {
	if !t.caps.Mouse {
		return
	}
	t.esc.Reset()
	t.esc.EnableMouse()
	t.esc.EnableBracketedPaste()
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) DisableMouse() {
	if !t.caps.Mouse {
		return
	}
	t.esc.Reset()
	t.esc.DisableBracketedPaste()
	t.esc.DisableMouse()
	t.out.Write(t.esc.Bytes())
}

func (t *ANSITerminal) Caps() Capabilities {
	return t.caps
}
