package weft

import "strings"

// MockTerminal is an in-memory Terminal for tests. It applies draw
// operations to a rune grid and records lifecycle calls so tests can assert
// on both the rendered screen and the session's terminal handling.
type MockTerminal struct {
	width  int
	height int
	cells  [][]rune
	styles [][]Style

	FlushCount   int
	ClearCount   int
	RawMode      bool
	AltScreen    bool
	CursorHidden bool
	MouseOn      bool
	CursorX      int
	CursorY      int

	// FlushErr, when set, is returned from the next Flush.
	FlushErr error
}

// NewMockTerminal creates a blank mock screen of the given size.
func NewMockTerminal(width, height int) *MockTerminal {
	m := &MockTerminal{}
	m.Resize(width, height)
	return m
}

// Resize changes the reported size and blanks the screen, as a real
// terminal's content is unreliable after a resize.
func (m *MockTerminal) Resize(width, height int) {
	m.width = width
	m.height = height
	m.cells = make([][]rune, height)
	m.styles = make([][]Style, height)
	for y := range m.cells {
		m.cells[y] = make([]rune, width)
		m.styles[y] = make([]Style, width)
		for x := range m.cells[y] {
			m.cells[y][x] = ' '
		}
	}
}

func (m *MockTerminal) Size() (width, height int) {
	return m.width, m.height
}

func (m *MockTerminal) Flush(ops []DrawOp) error {
	m.FlushCount++
	if m.FlushErr != nil {
		err := m.FlushErr
		m.FlushErr = nil
		return err
	}
	for _, op := range ops {
		x := op.X
		for _, r := range op.Text {
			if op.Y >= 0 && op.Y < m.height && x >= 0 && x < m.width {
				m.cells[op.Y][x] = r
				m.styles[op.Y][x] = op.Style
			}
			x += RuneWidth(r)
		}
	}
	return nil
}

func (m *MockTerminal) Clear() {
	m.ClearCount++
	for y := range m.cells {
		for x := range m.cells[y] {
			m.cells[y][x] = ' '
			m.styles[y][x] = Style{}
		}
	}
}

func (m *MockTerminal) SetCursor(x, y int) {
	m.CursorX = x
	m.CursorY = y
}

func (m *MockTerminal) HideCursor() { m.CursorHidden = true }
func (m *MockTerminal) ShowCursor() { m.CursorHidden = false }

func (m *MockTerminal) EnterRawMode() error {
	m.RawMode = true
	return nil
}

func (m *MockTerminal) ExitRawMode() error {
	m.RawMode = false
	return nil
}

func (m *MockTerminal) EnterAltScreen() { m.AltScreen = true }
func (m *MockTerminal) ExitAltScreen()  { m.AltScreen = false }
func (m *MockTerminal) EnableMouse()    { m.MouseOn = true }
func (m *MockTerminal) DisableMouse()   { m.MouseOn = false }

func (m *MockTerminal) Caps() Capabilities {
	return Capabilities{Colors: ColorTrue, AltScreen: true, Mouse: true}
}

// Row returns the text of one screen row.
func (m *MockTerminal) Row(y int) string {
	if y < 0 || y >= m.height {
		return ""
	}
	return string(m.cells[y])
}

// StyleAt returns the style last drawn at a cell.
func (m *MockTerminal) StyleAt(x, y int) Style {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Style{}
	}
	return m.styles[y][x]
}

// String renders the screen for assertions, one line per row.
func (m *MockTerminal) String() string {
	rows := make([]string, m.height)
	for y := range rows {
		rows[y] = m.Row(y)
	}
	return strings.Join(rows, "\n")
}
