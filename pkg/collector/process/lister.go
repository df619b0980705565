package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// DefaultTimeout bounds a single ps invocation.
const DefaultTimeout = 2 * time.Second

// runCommand allows tests to substitute canned ps output without spawning processes.
var runCommand = func(ctx context.Context, name string, args []string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "LANG=C", "LC_ALL=C")
	cmd.WaitDelay = 100 * time.Millisecond
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

// Lister returns the raw process table.
type Lister interface {
	List(ctx context.Context) ([]types.ProcessRow, error)
}

// PSLister lists processes by spawning ps. Where ps only knows lifetime
// averages, CPU is measured between consecutive List calls instead, so a
// PSLister must not be shared between independent callers.
type PSLister struct {
	Path    string
	Timeout time.Duration

	window *cpuWindow
}

// NewPSLister returns a lister bounded by timeout (DefaultTimeout when <= 0).
func NewPSLister(timeout time.Duration) *PSLister {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PSLister{Path: "ps", Timeout: timeout, window: newCPUWindow()}
}

// List runs ps once. Failures are classified as ErrPermission, ErrTimeout or ErrExit.
func (l *PSLister) List(ctx context.Context) ([]types.ProcessRow, error) {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	stdout, stderr, err := runCommand(ctx, l.Path, psArgs)
	if err != nil {
		return nil, classify(ctx, l.Timeout, err, stderr)
	}

	rows := ParseRows(stdout)
	if resolveFromProc {
		cache := make(map[int32]string, len(rows))
		for i := range rows {
			rows[i].Command = commandForPID(rows[i].PID, rows[i].Command, cache)
		}
	}
	if intervalCPU && l.window != nil {
		if err := l.window.apply(ctx, rows); err != nil {
			return nil, classify(ctx, l.Timeout, err, nil)
		}
	}
	return rows, nil
}

func classify(ctx context.Context, timeout time.Duration, err error, stderr []byte) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	details := strings.TrimSpace(string(stderr))
	if IsPermissionFailure(err) || (details != "" && mentionsPermission(details)) {
		if details != "" {
			return &permissionError{cause: fmt.Errorf("%s: %w", details, err)}
		}
		return &permissionError{cause: err}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if details != "" {
			return fmt.Errorf("%w with status %d: %s", ErrExit, exitErr.ExitCode(), details)
		}
		return fmt.Errorf("%w with status %d", ErrExit, exitErr.ExitCode())
	}
	return fmt.Errorf("running ps: %w", err)
}
