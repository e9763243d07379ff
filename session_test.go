package weft

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// scriptedSource replays a fixed sequence of poll results. An entry with
// ok=false simulates a poll timeout. Exhausting the script returns io.EOF so
// a test that forgets to stop the session fails instead of hanging.
type scriptedSource struct {
	steps []scriptStep
	pos   int
}

type scriptStep struct {
	in Input
	ok bool
}

func bytesStep(s string) scriptStep {
	return scriptStep{in: Input{Bytes: []byte(s)}, ok: true}
}

func resizeStep(w, h int) scriptStep {
	return scriptStep{in: Input{Resize: &ResizeEvent{Width: w, Height: h}}, ok: true}
}

func timeoutStep() scriptStep {
	return scriptStep{}
}

func (s *scriptedSource) Poll(timeout time.Duration) (Input, bool, error) {
	if s.pos >= len(s.steps) {
		return Input{}, false, io.EOF
	}
	step := s.steps[s.pos]
	s.pos++
	return step.in, step.ok, nil
}

func (s *scriptedSource) Close() error { return nil }

func TestSession_RendersAndRestoresTerminal(t *testing.T) {
	term := NewMockTerminal(20, 5)
	sess := NewSession(term)
	mustInsert(t, sess.Tree(), sess.Tree().Root(), Node{Kind: KindText, Content: []string{"hello"}})

	var sawRaw, sawAlt bool
	sess.OnEvent(func(ev Event) {
		if key, ok := ev.(KeyEvent); ok && key.Rune == 'q' {
			sawRaw = term.RawMode
			sawAlt = term.AltScreen
			sess.Stop()
		}
	})

	src := &scriptedSource{steps: []scriptStep{bytesStep("q")}}
	if err := sess.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !sawRaw || !sawAlt {
		t.Error("expected raw mode and alt screen during the session")
	}
	if term.RawMode || term.AltScreen || term.CursorHidden {
		t.Error("expected terminal restored after Run")
	}
	if term.FlushCount == 0 {
		t.Error("expected at least one flush")
	}
	if got := term.Row(0); !strings.HasPrefix(got, "hello") {
		t.Errorf("expected rendered content, got %q", got)
	}
}

func TestSession_DispatchesDecodedEvents(t *testing.T) {
	term := NewMockTerminal(10, 3)
	sess := NewSession(term)

	var events []Event
	sess.OnEvent(func(ev Event) {
		events = append(events, ev)
		if key, ok := ev.(KeyEvent); ok && key.Key == KeyUp {
			sess.Stop()
		}
	})

	src := &scriptedSource{steps: []scriptStep{bytesStep("a"), bytesStep("\x1b[A")}}
	if err := sess.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if key := events[0].(KeyEvent); key.Rune != 'a' {
		t.Errorf("expected rune 'a', got %+v", key)
	}
	if key := events[1].(KeyEvent); key.Key != KeyUp {
		t.Errorf("expected KeyUp, got %+v", key)
	}
}

func TestSession_EscapeDeliveredAfterTimeout(t *testing.T) {
	term := NewMockTerminal(10, 3)
	sess := NewSession(term, WithDecoder(WithEscapeTimeout(time.Nanosecond)))

	var got []Key
	sess.OnEvent(func(ev Event) {
		if key, ok := ev.(KeyEvent); ok {
			got = append(got, key.Key)
			if key.Key == KeyEscape {
				sess.Stop()
			}
		}
	})

	// A bare ESC followed by quiet polls; the expired deadline must deliver
	// exactly one Escape.
	src := &scriptedSource{steps: []scriptStep{
		bytesStep("\x1b"),
		timeoutStep(),
		timeoutStep(),
	}}
	if err := sess.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 1 || got[0] != KeyEscape {
		t.Fatalf("expected exactly one Escape, got %v", got)
	}
}

func TestSession_ResizeUpdatesGeometry(t *testing.T) {
	term := NewMockTerminal(20, 5)
	sess := NewSession(term)

	var resized *ResizeEvent
	sess.OnEvent(func(ev Event) {
		switch e := ev.(type) {
		case ResizeEvent:
			resized = &e
		case KeyEvent:
			sess.Stop()
		}
	})

	src := &scriptedSource{steps: []scriptStep{resizeStep(12, 4), bytesStep("q")}}
	if err := sess.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if resized == nil || resized.Width != 12 || resized.Height != 4 {
		t.Fatalf("expected resize 12x4, got %+v", resized)
	}
}

func TestSession_PostRunsOnLoop(t *testing.T) {
	term := NewMockTerminal(20, 3)
	sess := NewSession(term)

	ran := false
	sess.Post(func() { ran = true })

	sess.OnEvent(func(ev Event) { sess.Stop() })
	src := &scriptedSource{steps: []scriptStep{bytesStep("q")}}
	if err := sess.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !ran {
		t.Error("expected posted callback to run")
	}
}

func TestSession_FlushFailureEndsRun(t *testing.T) {
	term := NewMockTerminal(10, 3)
	term.FlushErr = errors.New("broken pipe")
	sess := NewSession(term)

	src := &scriptedSource{steps: []scriptStep{bytesStep("q")}}
	err := sess.Run(src)
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected flush error, got %v", err)
	}
	if term.RawMode {
		t.Error("expected terminal restored after failure")
	}
}

func TestSession_InputFailureEndsRun(t *testing.T) {
	term := NewMockTerminal(10, 3)
	sess := NewSession(term)

	// Empty script: the first poll reports EOF.
	err := sess.Run(&scriptedSource{})
	if err == nil || !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF from source, got %v", err)
	}
	if term.RawMode {
		t.Error("expected terminal restored after failure")
	}
}
