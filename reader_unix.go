//go:build unix

package weft

import (
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
)

// StdinSource reads raw bytes from a terminal file descriptor and converts
// SIGWINCH into resize inputs. It implements InputSource.
type StdinSource struct {
	fd    int
	winch chan os.Signal
	buf   [256]byte
}

// NewStdinSource creates an input source for f (normally os.Stdin) and
// subscribes to resize signals.
func NewStdinSource(f *os.File) *StdinSource {
	s := &StdinSource{
		fd:    int(f.Fd()),
		winch: make(chan os.Signal, 1),
	}
	signal.Notify(s.winch, unix.SIGWINCH)
	return s
}

// Poll waits for bytes or a resize. Resize signals win over pending bytes so
// the frame after a resize is laid out for the new geometry.
func (s *StdinSource) Poll(timeout time.Duration) (Input, bool, error) {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		select {
		case <-s.winch:
			s.debounceResize()
			w, h, err := getTerminalSize(s.fd)
			if err != nil {
				w, h = 80, 24
			}
			return Input{Resize: &ResizeEvent{Width: w, Height: h}}, true, nil
		default:
		}

		remaining := time.Duration(-1)
		if timeout >= 0 {
			remaining = time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
		}

		ready, err := selectWithTimeout(s.fd, remaining)
		if err != nil {
			return Input{}, false, err
		}
		if ready {
			n, err := unix.Read(s.fd, s.buf[:])
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				return Input{}, false, err
			}
			if n == 0 {
				return Input{}, false, io.EOF
			}
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			return Input{Bytes: chunk}, true, nil
		}

		// Timed out, or a signal interrupted the wait. The loop re-checks
		// the resize channel before sleeping again.
		if timeout >= 0 && !time.Now().Before(deadline) {
			return Input{}, false, nil
		}
	}
}

// debounceResize swallows the signal burst of an interactive resize so one
// notification covers it.
func (s *StdinSource) debounceResize() {
	timer := time.NewTimer(resizeDebounceWindow)
	defer timer.Stop()
	for {
		select {
		case <-s.winch:
			timer.Reset(resizeDebounceWindow)
		case <-timer.C:
			return
		}
	}
}

// Close unsubscribes from resize signals. The file descriptor is not closed;
// the caller owns it.
func (s *StdinSource) Close() error {
	signal.Stop(s.winch)
	return nil
}
