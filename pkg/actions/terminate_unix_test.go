//go:build unix

package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type signalCall struct {
	pid int
	sig unix.Signal
}

func stubKill(t *testing.T, fn func(pid int, sig unix.Signal) error) *[]signalCall {
	t.Helper()
	calls := &[]signalCall{}
	t.Cleanup(func() { kill = unix.Kill })
	kill = func(pid int, sig unix.Signal) error {
		*calls = append(*calls, signalCall{pid, sig})
		return fn(pid, sig)
	}
	return calls
}

func TestTerminateGraceful(t *testing.T) {
	calls := stubKill(t, func(int, unix.Signal) error { return nil })
	require.NoError(t, Terminate(4242))
	assert.Equal(t, []signalCall{{4242, unix.SIGTERM}}, *calls)
}

func TestTerminateFallsBackToKill(t *testing.T) {
	calls := stubKill(t, func(_ int, sig unix.Signal) error {
		if sig == unix.SIGTERM {
			return unix.EPERM
		}
		return nil
	})
	require.NoError(t, Terminate(4242))
	assert.Equal(t, []signalCall{{4242, unix.SIGTERM}, {4242, unix.SIGKILL}}, *calls)
}

func TestTerminateReportsBothFailures(t *testing.T) {
	stubKill(t, func(int, unix.Signal) error { return unix.ESRCH })
	err := Terminate(4242)
	require.Error(t, err)
	assert.True(t, errors.Is(err, unix.ESRCH))
	assert.Contains(t, err.Error(), "4242")
}
