//go:build linux || darwin

package ui

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// disableInputEcho clears ECHO on fd and returns the function restoring the
// previous termios.
func disableInputEcho(fd int) (func(), error) {
	saved, err := unix.IoctlGetTermios(fd, getTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	quiet := *saved
	quiet.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, setTermios, &quiet); err != nil {
		return nil, fmt.Errorf("disabling echo: %w", err)
	}
	return func() { _ = unix.IoctlSetTermios(fd, setTermios, saved) }, nil
}
