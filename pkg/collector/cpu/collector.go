package cpu

import (
	"context"
	"fmt"

	gocpu "github.com/shirou/gopsutil/v3/cpu"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// cpuTimes allows tests to stub the per-core tick counters.
var cpuTimes = gocpu.TimesWithContext

// Collector reads cumulative CPU ticks aggregated over all cores.
type Collector struct{}

// NewCollector returns a CPU tick collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Sample sums user+system+nice+idle across every core into Total and idle into Idle.
func (c *Collector) Sample(ctx context.Context) (types.CPUTicks, error) {
	times, err := cpuTimes(ctx, true)
	if err != nil {
		return types.CPUTicks{}, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) == 0 {
		return types.CPUTicks{}, fmt.Errorf("reading cpu times: no cores reported")
	}

	var ticks types.CPUTicks
	for _, core := range times {
		ticks.Idle += core.Idle
		ticks.Total += core.User + core.System + core.Nice + core.Idle
	}
	return ticks, nil
}
