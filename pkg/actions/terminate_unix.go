//go:build unix

package actions

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// kill allows tests to stub signal delivery.
var kill = unix.Kill

// Terminate sends SIGTERM and falls back to SIGKILL when that fails.
func Terminate(pid int32) error {
	if err := validPID(pid); err != nil {
		return err
	}
	termErr := kill(int(pid), unix.SIGTERM)
	if termErr == nil {
		return nil
	}
	if killErr := kill(int(pid), unix.SIGKILL); killErr != nil {
		return fmt.Errorf("terminate pid %d: %w", pid, errors.Join(termErr, killErr))
	}
	return nil
}
