package weft

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// defaultPollInterval caps how long the loop sleeps in Poll, which bounds
// the latency of work queued with Post.
const defaultPollInterval = 50 * time.Millisecond

// Session runs one terminal UI: it owns the decoder, tree, overlay stack
// and renderer exclusively and drives them from a single-threaded loop.
// All state mutation happens on that loop; other goroutines feed work in
// through Post.
type Session struct {
	dec      *Decoder
	tree     *Tree
	overlays *OverlayStack
	renderer *Renderer
	term     Terminal

	logger       *log.Logger
	handler      func(Event)
	posted       chan func()
	stop         chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	mouse        bool
	decOpts      []DecoderOption

	width  int
	height int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger routes diagnostics (discarded escape sequences, decode errors)
// to l. The default discards them. The logger must not write to the
// terminal the session renders to.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDecoder passes options through to the session's input decoder, e.g.
// WithDecoder(WithEscapeTimeout(75 * time.Millisecond)).
func WithDecoder(opts ...DecoderOption) SessionOption {
	return func(s *Session) {
		s.decOpts = append(s.decOpts, opts...)
	}
}

// WithMouse enables mouse reporting for the session.
func WithMouse() SessionOption {
	return func(s *Session) {
		s.mouse = true
	}
}

// WithPollInterval caps the input poll timeout. Shorter intervals reduce the
// latency of Post work at the cost of more wakeups.
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// NewSession creates a session rendering to term.
func NewSession(term Terminal, opts ...SessionOption) *Session {
	s := &Session{
		tree:         NewTree(),
		overlays:     NewOverlayStack(),
		renderer:     NewRenderer(),
		term:         term,
		logger:       log.New(io.Discard),
		posted:       make(chan func(), 64),
		stop:         make(chan struct{}),
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	diag := func(format string, args ...any) {
		s.logger.Debugf(format, args...)
	}
	s.dec = NewDecoder(append(s.decOpts, WithDiagnostics(diag))...)
	return s
}

// Tree returns the session's component tree. Mutate it only from the session
// goroutine (the event handler or a Post callback).
func (s *Session) Tree() *Tree {
	return s.tree
}

// Overlays returns the session's overlay stack. Same ownership rule as Tree.
func (s *Session) Overlays() *OverlayStack {
	return s.overlays
}

// OnEvent installs the event handler. Called on the session goroutine for
// every decoded event. Set before Run.
func (s *Session) OnEvent(fn func(Event)) {
	s.handler = fn
}

// Post queues fn to run on the session goroutine between frames. Safe to
// call from any goroutine. Blocks if the queue is full.
func (s *Session) Post(fn func()) {
	select {
	case s.posted <- fn:
	case <-s.stop:
	}
}

// Stop ends the session loop after the current iteration. Safe to call from
// any goroutine, and from the event handler.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run drives the session until Stop is called or a collaborator fails.
// It enters raw mode and the alternate screen on entry and restores the
// terminal on the way out, whatever the exit path.
func (s *Session) Run(src InputSource) error {
	if err := s.term.EnterRawMode(); err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		if s.mouse {
			s.term.DisableMouse()
		}
		s.term.ShowCursor()
		s.term.ExitAltScreen()
		if err := s.term.ExitRawMode(); err != nil {
			s.logger.Error("restore terminal", "err", err)
		}
	}()

	s.term.EnterAltScreen()
	s.term.HideCursor()
	s.term.Clear()
	if s.mouse {
		s.term.EnableMouse()
	}

	s.width, s.height = s.term.Size()

	for {
		select {
		case <-s.stop:
			return nil
		default:
		}

		ops := s.renderer.Render(s.tree, s.overlays, s.width, s.height)
		if len(ops) > 0 {
			if err := s.term.Flush(ops); err != nil {
				return fmt.Errorf("flush frame: %w", err)
			}
		}

		// The poll deadline never overshoots the decoder's escape deadline,
		// so a bare Escape is delivered as soon as its window closes.
		timeout := s.pollInterval
		if deadline, ok := s.dec.Deadline(); ok {
			if until := time.Until(deadline); until < timeout {
				timeout = until
			}
			if timeout < 0 {
				timeout = 0
			}
		}

		in, ok, err := src.Poll(timeout)
		if err != nil {
			return fmt.Errorf("poll input: %w", err)
		}
		if ok {
			switch {
			case in.Resize != nil:
				s.width, s.height = in.Resize.Width, in.Resize.Height
				s.dispatch(*in.Resize)
			case len(in.Bytes) > 0:
				for _, ev := range s.dec.Feed(in.Bytes) {
					s.dispatch(ev)
				}
			}
		}
		for _, ev := range s.dec.Expire(time.Now()) {
			s.dispatch(ev)
		}

		s.drainPosted()
	}
}

func (s *Session) dispatch(ev Event) {
	if errEv, ok := ev.(ErrorEvent); ok {
		s.logger.Warn("input decode error", "err", errEv.Err)
	}
	if s.handler != nil {
		s.handler(ev)
	}
}

// drainPosted runs queued callbacks. Anything they change is picked up by
// the render at the top of the next iteration.
func (s *Session) drainPosted() {
	for {
		select {
		case fn := <-s.posted:
			fn()
		default:
			return
		}
	}
}
