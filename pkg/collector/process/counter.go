package process

import (
	"context"
	"fmt"

	goprocess "github.com/shirou/gopsutil/v3/process"
)

// pids allows tests to stub the process table enumeration.
var pids = goprocess.PidsWithContext

// Counter counts running processes.
type Counter struct{}

// NewCounter returns a process counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the number of processes currently in the process table.
func (c *Counter) Count(ctx context.Context) (int, error) {
	list, err := pids(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing pids: %w", err)
	}
	if len(list) == 0 {
		return 0, fmt.Errorf("listing pids: empty process table")
	}
	return len(list), nil
}
