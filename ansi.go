package weft

import "strconv"

// escBuilder builds ANSI escape sequences into a pre-allocated buffer so a
// frame flush performs a single write with no intermediate allocations.
type escBuilder struct {
	buf []byte
}

func newEscBuilder(capacity int) *escBuilder {
	return &escBuilder{buf: make([]byte, 0, capacity)}
}

func (e *escBuilder) Reset() {
	e.buf = e.buf[:0]
}

func (e *escBuilder) Bytes() []byte {
	return e.buf
}

func (e *escBuilder) writeCSI() {
	e.buf = append(e.buf, '\x1b', '[')
}

func (e *escBuilder) writeInt(n int) {
	e.buf = strconv.AppendInt(e.buf, int64(n), 10)
}

// MoveTo positions the cursor. Coordinates are 0-indexed; the wire format is
// 1-indexed.
func (e *escBuilder) MoveTo(x, y int) {
	e.writeCSI()
	e.writeInt(y + 1)
	e.buf = append(e.buf, ';')
	e.writeInt(x + 1)
	e.buf = append(e.buf, 'H')
}

func (e *escBuilder) ClearScreen() {
	e.writeCSI()
	e.buf = append(e.buf, '2', 'J')
}

// ClearScrollback clears the scrollback buffer; keeps resized sessions from
// leaving stale rows above the viewport.
func (e *escBuilder) ClearScrollback() {
	e.writeCSI()
	e.buf = append(e.buf, '3', 'J')
}

func (e *escBuilder) HideCursor() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '5', 'l')
}

func (e *escBuilder) ShowCursor() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '5', 'h')
}

func (e *escBuilder) EnterAltScreen() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '4', '9', 'h')
}

func (e *escBuilder) ExitAltScreen() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '4', '9', 'l')
}

// BeginSyncUpdate opens a synchronized update block (mode 2026): the
// terminal holds output until EndSyncUpdate and displays it atomically.
// Terminals without support ignore the sequence.
func (e *escBuilder) BeginSyncUpdate() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '0', '2', '6', 'h')
}

func (e *escBuilder) EndSyncUpdate() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '0', '2', '6', 'l')
}

// EnableMouse turns on button tracking plus SGR extended reporting, which
// encodes coordinates in decimal and so works past column 223.
func (e *escBuilder) EnableMouse() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '0', 'h')
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '2', 'h')
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '6', 'h')
}

func (e *escBuilder) DisableMouse() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '6', 'l')
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '2', 'l')
	e.writeCSI()
	e.buf = append(e.buf, '?', '1', '0', '0', '0', 'l')
}

// EnableBracketedPaste turns on paste bracketing (mode 2004) so pasted text
// arrives framed by CSI 200~ / 201~.
func (e *escBuilder) EnableBracketedPaste() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '0', '0', '4', 'h')
}

func (e *escBuilder) DisableBracketedPaste() {
	e.writeCSI()
	e.buf = append(e.buf, '?', '2', '0', '0', '4', 'l')
}

func (e *escBuilder) ResetStyle() {
	e.writeCSI()
	e.buf = append(e.buf, '0', 'm')
}

// SetStyle emits one SGR sequence for the full style. It starts from a reset
// so the previous run's attributes never leak into this one.
func (e *escBuilder) SetStyle(s Style, caps Capabilities) {
	e.writeCSI()
	e.buf = append(e.buf, '0')

	if s.HasAttr(AttrBold) {
		e.buf = append(e.buf, ';', '1')
	}
	if s.HasAttr(AttrDim) {
		e.buf = append(e.buf, ';', '2')
	}
	if s.HasAttr(AttrItalic) {
		e.buf = append(e.buf, ';', '3')
	}
	if s.HasAttr(AttrUnderline) {
		e.buf = append(e.buf, ';', '4')
	}
	if s.HasAttr(AttrBlink) {
		e.buf = append(e.buf, ';', '5')
	}
	if s.HasAttr(AttrReverse) {
		e.buf = append(e.buf, ';', '7')
	}
	if s.HasAttr(AttrStrikethrough) {
		e.buf = append(e.buf, ';', '9')
	}

	e.appendColor(s.Fg, true, caps)
	e.appendColor(s.Bg, false, caps)

	e.buf = append(e.buf, 'm')
}

// appendColor emits the color part of an SGR sequence, degrading RGB to the
// 256-color palette when the terminal cannot do better.
func (e *escBuilder) appendColor(c Color, fg bool, caps Capabilities) {
	if c.IsDefault() {
		return
	}

	base := 48
	if fg {
		base = 38
	}

	switch c.Type() {
	case ColorANSI:
		idx := c.ANSI()
		if idx < 16 {
			// Basic colors use the short codes: 30-37/90-97 fg, 40-47/100-107 bg.
			code := 30 + int(idx)
			if idx >= 8 {
				code = 90 + int(idx) - 8
			}
			if !fg {
				code += 10
			}
			e.buf = append(e.buf, ';')
			e.writeInt(code)
			return
		}
		if caps.Colors >= Color256 {
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '5', ';')
			e.writeInt(int(idx))
		}

	case ColorRGB:
		if caps.Colors >= ColorTrue {
			r, g, b := c.RGB()
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '2', ';')
			e.writeInt(int(r))
			e.buf = append(e.buf, ';')
			e.writeInt(int(g))
			e.buf = append(e.buf, ';')
			e.writeInt(int(b))
			return
		}
		if caps.Colors >= Color256 {
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '5', ';')
			e.writeInt(int(c.ToANSI().ANSI()))
		}
	}
}

func (e *escBuilder) WriteString(s string) {
	e.buf = append(e.buf, s...)
}
