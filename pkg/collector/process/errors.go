package process

import (
	"errors"
	"io/fs"
	"strings"
)

var (
	// ErrPermission marks a listing failure caused by sandboxing or missing
	// privileges. It is not expected to clear on its own.
	ErrPermission = errors.New("process listing not permitted")
	// ErrTimeout marks a listing that did not finish within its time bound.
	ErrTimeout = errors.New("process listing timed out")
	// ErrExit marks a listing tool that exited with a non-zero status.
	ErrExit = errors.New("process listing tool failed")
)

// permissionError wraps ErrPermission while keeping the underlying cause reachable.
type permissionError struct {
	cause error
}

func (e *permissionError) Error() string {
	return ErrPermission.Error() + ": " + e.cause.Error()
}

func (e *permissionError) Is(target error) bool { return target == ErrPermission }
func (e *permissionError) Unwrap() error        { return e.cause }

// IsPermissionFailure reports whether err or its message indicates a
// permission or sandbox restriction.
func IsPermissionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermission) || errors.Is(err, fs.ErrPermission) || isPermissionErrno(err) {
		return true
	}
	return mentionsPermission(err.Error())
}

func mentionsPermission(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "not permitted") ||
		strings.Contains(lowered, "permission") ||
		strings.Contains(lowered, "sandbox")
}
