//go:build !darwin && !linux

package actions

import "context"

func Reveal(ctx context.Context, pid int32, name string) error {
	if err := validPID(pid); err != nil {
		return err
	}
	return ErrUnsupported
}
