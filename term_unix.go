//go:build unix

package weft

import (
	"time"

	"golang.org/x/sys/unix"
)

// getTerminalSize queries the kernel for the terminal dimensions.
func getTerminalSize(fd int) (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// selectWithTimeout waits until fd is readable or the timeout elapses.
// A negative timeout blocks indefinitely. An interrupting signal (EINTR)
// reports not-ready so the caller can re-check its other wakeup sources.
func selectWithTimeout(fd int, timeout time.Duration) (ready bool, err error) {
	var readFds unix.FdSet
	readFds.Zero()
	readFds.Set(fd)

	var tv *unix.Timeval
	if timeout >= 0 {
		val := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &val
	}

	n, err := unix.Select(fd+1, &readFds, nil, nil, tv)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}
