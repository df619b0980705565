// Package actions implements the user-facing process actions offered with
// high-activity alerts: revealing a process in the system monitor and
// terminating it.
package actions

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

var (
	// ErrUnsupported is returned when the platform has no way to run the action.
	ErrUnsupported = errors.New("action not supported on this platform")
	// ErrInvalidPID is returned for pids that cannot name a user process.
	ErrInvalidPID = errors.New("invalid pid")
)

// runCommand allows tests to observe spawned helpers without running them.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// startDetached launches a long-running helper without waiting for it.
var startDetached = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// lookPath allows tests to control which helpers appear installed.
var lookPath = exec.LookPath

// AppleScriptEscape escapes s for use inside an AppleScript string literal.
func AppleScriptEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPID(pid int32) error {
	if pid <= 1 {
		return ErrInvalidPID
	}
	return nil
}
