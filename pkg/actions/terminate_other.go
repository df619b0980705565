//go:build !unix

package actions

// Terminate is not available without POSIX signals.
func Terminate(pid int32) error {
	if err := validPID(pid); err != nil {
		return err
	}
	return ErrUnsupported
}
