package memory

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// virtualMemory allows tests to stub the host memory statistics.
var virtualMemory = mem.VirtualMemoryWithContext

// Collector reads physical memory usage.
type Collector struct{}

// NewCollector returns a memory collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Sample reports used = total - (free + inactive).
func (c *Collector) Sample(ctx context.Context) (types.MemoryStat, error) {
	vm, err := virtualMemory(ctx)
	if err != nil {
		return types.MemoryStat{}, fmt.Errorf("reading virtual memory: %w", err)
	}
	if vm.Total == 0 {
		return types.MemoryStat{}, fmt.Errorf("reading virtual memory: total is zero")
	}

	reclaimable := vm.Free + vm.Inactive
	var used uint64
	if reclaimable < vm.Total {
		used = vm.Total - reclaimable
	}
	return types.MemoryStat{Used: used, Total: vm.Total}, nil
}
