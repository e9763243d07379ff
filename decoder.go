package weft

import (
	"time"
	"unicode/utf8"
)

// decodeState enumerates the decoder's escape-parsing states.
type decodeState uint8

const (
	stateIdle   decodeState = iota
	stateEscape             // consumed ESC, awaiting discriminator
	stateCSI                // inside ESC [ ..., accumulating parameters
	stateSS3                // consumed ESC O, awaiting final byte
	statePaste              // inside a bracketed paste block
)

const (
	// maxSequenceBytes bounds CSI parameter accumulation. Anything longer is
	// discarded as malformed and decoding resumes from the next byte, which
	// bounds memory and guarantees forward progress on garbage input.
	maxSequenceBytes = 32

	// DefaultEscapeTimeout is the window after a lone ESC byte before it is
	// emitted as an Escape keypress rather than the start of a sequence.
	// Terminals deliver multi-byte sequences in one burst, so tens of
	// milliseconds is enough headroom even over slow links.
	DefaultEscapeTimeout = 50 * time.Millisecond
)

// Decoder converts raw terminal byte chunks into Events. It is an explicit
// state machine: partial escape sequences and partial UTF-8 runes are carried
// between Feed calls, so chunk boundaries never affect the decoded stream.
//
// A Decoder belongs to exactly one session and performs no locking. Multiple
// independent Decoders may coexist in a process.
type Decoder struct {
	state decodeState
	seq   []byte // CSI/SS3 bytes after the introducer
	paste []byte // bracketed paste payload, including trailing partial terminator

	utf8buf  [utf8.UTFMax]byte
	utf8len  int
	utf8need int

	deadline      time.Time
	escapeTimeout time.Duration

	diag func(format string, args ...any)
	now  func() time.Time
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithEscapeTimeout sets the lone-ESC disambiguation window.
func WithEscapeTimeout(d time.Duration) DecoderOption {
	return func(dec *Decoder) {
		if d > 0 {
			dec.escapeTimeout = d
		}
	}
}

// WithDiagnostics installs a hook for discarded malformed sequences.
// Diagnostics are informational only; they never become errors.
func WithDiagnostics(fn func(format string, args ...any)) DecoderOption {
	return func(dec *Decoder) {
		if fn != nil {
			dec.diag = fn
		}
	}
}

// withClock overrides the decoder's time source for tests.
func withClock(now func() time.Time) DecoderOption {
	return func(dec *Decoder) {
		dec.now = now
	}
}

// NewDecoder creates a Decoder in the Idle state.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		escapeTimeout: DefaultEscapeTimeout,
		diag:          func(string, ...any) {},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed consumes an arbitrary-length byte chunk and returns the events decoded
// from it. State for incomplete sequences is carried to the next call.
func (d *Decoder) Feed(data []byte) []Event {
	var events []Event
	for _, b := range data {
		events = d.step(b, events)
	}

	// Any pending escape bytes arm the disambiguation deadline; new input
	// restarts the window. Paste blocks are unbounded by design: the
	// terminator arrives in-band.
	switch d.state {
	case stateEscape, stateCSI, stateSS3:
		d.deadline = d.now().Add(d.escapeTimeout)
	default:
		d.deadline = time.Time{}
	}

	return events
}

// Deadline reports when pending escape bytes expire, if any are buffered.
// The session loop caps its input poll at this deadline so a bare Escape
// keypress is never delayed longer than the timeout.
func (d *Decoder) Deadline() (time.Time, bool) {
	return d.deadline, !d.deadline.IsZero()
}

// Expire resolves pending escape bytes whose deadline has passed. A lone ESC
// becomes exactly one Escape key event; an unterminated longer sequence is
// discarded. Either way the decoder returns to Idle.
func (d *Decoder) Expire(now time.Time) []Event {
	if d.deadline.IsZero() || now.Before(d.deadline) {
		return nil
	}

	var events []Event
	switch d.state {
	case stateEscape:
		events = append(events, KeyEvent{Key: KeyEscape})
	case stateCSI, stateSS3:
		d.diag("discarding unterminated escape sequence (%d bytes)", len(d.seq)+2)
	}
	d.reset()
	return events
}

// reset returns the decoder to Idle, dropping any pending sequence bytes.
func (d *Decoder) reset() {
	d.state = stateIdle
	d.seq = d.seq[:0]
	d.deadline = time.Time{}
}

// step advances the state machine by one byte, appending any completed events.
func (d *Decoder) step(b byte, events []Event) []Event {
	switch d.state {
	case stateIdle:
		return d.stepIdle(b, events)
	case stateEscape:
		return d.stepEscape(b, events)
	case stateCSI:
		return d.stepCSI(b, events)
	case stateSS3:
		return d.stepSS3(b, events)
	case statePaste:
		return d.stepPaste(b, events)
	}
	return events
}

func (d *Decoder) stepIdle(b byte, events []Event) []Event {
	// A pending multi-byte rune claims continuation bytes first.
	if d.utf8need > 0 {
		return d.stepUTF8(b, events)
	}

	switch {
	case b == 0x1b:
		d.state = stateEscape
		return events

	case b < 0x20:
		return append(events, KeyEvent{Key: controlToKey(b)})

	case b == 0x7f:
		// DEL is backspace on most terminals.
		return append(events, KeyEvent{Key: KeyBackspace})

	case b < 0x80:
		return append(events, KeyEvent{Key: KeyRune, Rune: rune(b)})

	case b >= 0xc0 && b < 0xf8:
		// UTF-8 leading byte; expect 1-3 continuations.
		switch {
		case b < 0xe0:
			d.utf8need = 2
		case b < 0xf0:
			d.utf8need = 3
		default:
			d.utf8need = 4
		}
		d.utf8buf[0] = b
		d.utf8len = 1
		return events

	default:
		// Stray continuation byte or invalid leader: discard and continue.
		return append(events, ErrorEvent{Err: ErrInvalidEncoding})
	}
}

// stepUTF8 assembles a multi-byte rune, possibly spanning chunk boundaries.
func (d *Decoder) stepUTF8(b byte, events []Event) []Event {
	if b&0xc0 != 0x80 {
		// Not a continuation byte: report the truncated rune, then let the
		// byte re-enter the machine on its own.
		d.utf8need = 0
		d.utf8len = 0
		events = append(events, ErrorEvent{Err: ErrInvalidEncoding})
		return d.step(b, events)
	}

	d.utf8buf[d.utf8len] = b
	d.utf8len++
	if d.utf8len < d.utf8need {
		return events
	}

	r, size := utf8.DecodeRune(d.utf8buf[:d.utf8len])
	d.utf8need = 0
	d.utf8len = 0
	if r == utf8.RuneError && size <= 1 {
		return append(events, ErrorEvent{Err: ErrInvalidEncoding})
	}
	return append(events, KeyEvent{Key: KeyRune, Rune: r})
}

func (d *Decoder) stepEscape(b byte, events []Event) []Event {
	switch {
	case b == '[':
		d.state = stateCSI
		d.seq = d.seq[:0]
		return events

	case b == 'O':
		d.state = stateSS3
		return events

	case b == 0x1b:
		// ESC ESC: the first was a bare Escape; keep waiting on the second.
		return append(events, KeyEvent{Key: KeyEscape})

	case b >= 0x20 && b < 0x7f:
		// Alt+printable arrives as ESC followed by the character.
		d.state = stateIdle
		return append(events, KeyEvent{Key: KeyRune, Rune: rune(b), Mod: ModAlt})

	default:
		// Control byte after ESC: emit the Escape and reprocess the byte.
		d.state = stateIdle
		events = append(events, KeyEvent{Key: KeyEscape})
		return d.step(b, events)
	}
}

func (d *Decoder) stepCSI(b byte, events []Event) []Event {
	switch {
	case b >= 0x20 && b <= 0x3f:
		// Parameter and intermediate bytes continue accumulation.
		if len(d.seq) >= maxSequenceBytes {
			d.diag("discarding oversized CSI sequence (> %d bytes)", maxSequenceBytes)
			d.reset()
			return events
		}
		d.seq = append(d.seq, b)
		return events

	case b >= 0x40 && b <= 0x7e:
		// Final byte terminates and classifies the sequence.
		ev, ok := d.finishCSI(b)
		d.reset()
		if ok {
			if _, isPaste := ev.(pasteStart); isPaste {
				d.state = statePaste
				d.paste = d.paste[:0]
				return events
			}
			return append(events, ev)
		}
		return events

	default:
		// Byte outside the CSI grammar: malformed, resume from this byte.
		d.diag("discarding malformed CSI sequence: unexpected byte 0x%02x", b)
		d.reset()
		return d.step(b, events)
	}
}

func (d *Decoder) stepSS3(b byte, events []Event) []Event {
	key := parseSS3(b)
	d.reset()
	if key == KeyNone {
		d.diag("discarding unknown SS3 sequence: final byte 0x%02x", b)
		return events
	}
	return append(events, KeyEvent{Key: key})
}

// pasteTerminator ends a bracketed paste block.
const pasteTerminator = "\x1b[201~"

func (d *Decoder) stepPaste(b byte, events []Event) []Event {
	d.paste = append(d.paste, b)
	if n := len(d.paste); n >= len(pasteTerminator) &&
		string(d.paste[n-len(pasteTerminator):]) == pasteTerminator {
		text := string(d.paste[:n-len(pasteTerminator)])
		d.paste = d.paste[:0]
		d.state = stateIdle
		return append(events, PasteEvent{Text: text})
	}
	return events
}

// pasteStart is an internal marker returned by finishCSI when the sequence
// was a bracketed-paste opener (CSI 200 ~).
type pasteStart struct{}

func (pasteStart) isEvent() {}

// finishCSI classifies a complete CSI sequence by its final byte.
func (d *Decoder) finishCSI(final byte) (Event, bool) {
	if len(d.seq) > 0 && d.seq[0] == '<' {
		ev, ok := parseMouseSGR(d.seq[1:], final)
		if !ok {
			d.diag("discarding malformed SGR mouse sequence")
		}
		return ev, ok
	}

	params := parseParams(d.seq)

	if final == '~' && len(params) > 0 && params[0] == 200 {
		return pasteStart{}, true
	}

	key, mod := classifyCSI(params, final)
	if key == KeyNone {
		d.diag("discarding unrecognized CSI sequence: final byte %q", final)
		return nil, false
	}
	return KeyEvent{Key: key, Mod: mod}, true
}

// parseParams splits semicolon-separated numeric parameters.
// Non-digit bytes (intermediates, private markers) end their parameter.
func parseParams(seq []byte) []int {
	var params []int
	current := 0
	has := false
	for _, b := range seq {
		switch {
		case b >= '0' && b <= '9':
			current = current*10 + int(b-'0')
			has = true
		case b == ';':
			params = append(params, current)
			current = 0
			has = false
		}
	}
	if has {
		params = append(params, current)
	}
	return params
}

// controlToKey converts a control byte (0x00-0x1f) to a Key.
func controlToKey(b byte) Key {
	switch b {
	case 0x00:
		return KeyCtrlSpace
	case 0x08:
		// Ctrl+H is backspace on some terminals.
		return KeyBackspace
	case 0x09:
		return KeyTab
	case 0x0d:
		return KeyEnter
	case 0x1b:
		return KeyEscape
	default:
		if b >= 0x01 && b <= 0x1a {
			return KeyCtrlA + Key(b-0x01)
		}
		return KeyNone
	}
}

// classifyCSI maps parameters plus final byte onto a key event.
func classifyCSI(params []int, final byte) (Key, Modifier) {
	mod := ModNone
	// xterm encodes modifiers as a second parameter: CSI 1 ; mod X
	if len(params) >= 2 {
		mod = decodeModifier(params[1])
	}

	switch final {
	case 'A':
		return KeyUp, mod
	case 'B':
		return KeyDown, mod
	case 'C':
		return KeyRight, mod
	case 'D':
		return KeyLeft, mod
	case 'H':
		return KeyHome, mod
	case 'F':
		return KeyEnd, mod
	case 'P':
		return KeyF1, mod
	case 'Q':
		return KeyF2, mod
	case 'R':
		return KeyF3, mod
	case 'S':
		return KeyF4, mod
	case 'Z':
		// Backtab (Shift+Tab).
		return KeyTab, ModShift
	case '~':
		if len(params) == 0 {
			return KeyNone, ModNone
		}
		switch params[0] {
		case 1:
			return KeyHome, mod
		case 2:
			return KeyInsert, mod
		case 3:
			return KeyDelete, mod
		case 4:
			return KeyEnd, mod
		case 5:
			return KeyPageUp, mod
		case 6:
			return KeyPageDown, mod
		case 11:
			return KeyF1, mod
		case 12:
			return KeyF2, mod
		case 13:
			return KeyF3, mod
		case 14:
			return KeyF4, mod
		case 15:
			return KeyF5, mod
		case 17:
			return KeyF6, mod
		case 18:
			return KeyF7, mod
		case 19:
			return KeyF8, mod
		case 20:
			return KeyF9, mod
		case 21:
			return KeyF10, mod
		case 23:
			return KeyF11, mod
		case 24:
			return KeyF12, mod
		}
	}

	return KeyNone, ModNone
}

// parseSS3 maps an SS3 final byte onto a key.
func parseSS3(b byte) Key {
	switch b {
	case 'P':
		return KeyF1
	case 'Q':
		return KeyF2
	case 'R':
		return KeyF3
	case 'S':
		return KeyF4
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

// decodeModifier decodes the xterm modifier parameter:
// 1 + (shift ? 1 : 0) + (alt ? 2 : 0) + (ctrl ? 4 : 0).
func decodeModifier(param int) Modifier {
	if param <= 1 {
		return ModNone
	}
	flags := param - 1
	var mod Modifier
	if flags&1 != 0 {
		mod |= ModShift
	}
	if flags&2 != 0 {
		mod |= ModAlt
	}
	if flags&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}

// parseMouseSGR decodes an SGR-1006 mouse report. seq holds the bytes after
// "ESC [ <" and before the final byte ('M' press, 'm' release).
//
// The button field encodes:
//
//	bits 0-1: button (0=left, 1=middle, 2=right, 3=release/none)
//	bit 2: shift, bit 3: alt, bit 4: ctrl
//	bit 5: motion (drag)
//	bit 6: wheel (64=up, 65=down)
func parseMouseSGR(seq []byte, final byte) (Event, bool) {
	if final != 'M' && final != 'm' {
		return nil, false
	}

	params := parseParams(seq)
	if len(params) != 3 {
		return nil, false
	}
	button, x, y := params[0], params[1], params[2]

	event := MouseEvent{
		X: x - 1, // 1-indexed on the wire
		Y: y - 1,
	}

	if button&4 != 0 {
		event.Mod |= ModShift
	}
	if button&8 != 0 {
		event.Mod |= ModAlt
	}
	if button&16 != 0 {
		event.Mod |= ModCtrl
	}

	if button&64 != 0 {
		if button&1 != 0 {
			event.Button = MouseWheelDown
		} else {
			event.Button = MouseWheelUp
		}
		// Wheel events are instantaneous.
		event.Action = MousePress
		return event, true
	}

	switch button & 3 {
	case 0:
		event.Button = MouseLeft
	case 1:
		event.Button = MouseMiddle
	case 2:
		event.Button = MouseRight
	case 3:
		event.Button = MouseNone
	}

	switch {
	case button&32 != 0:
		event.Action = MouseDrag
	case final == 'M':
		event.Action = MousePress
	default:
		event.Action = MouseRelease
	}

	return event, true
}
