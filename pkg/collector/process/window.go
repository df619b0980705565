package process

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	goprocess "github.com/shirou/gopsutil/v3/process"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// procCPUTime returns the user+system seconds pid has consumed so far.
var procCPUTime = func(ctx context.Context, pid int32) (float64, error) {
	p := &goprocess.Process{Pid: pid}
	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return times.User + times.System, nil
}

// cpuWindow replaces the lifetime average procps reports in pcpu with the
// usage between two consecutive listings. A PID seen for the first time, or
// whose counter went backwards, reports 0 until the next listing.
type cpuWindow struct {
	mu     sync.Mutex
	now    func() time.Time
	prev   map[int32]float64
	prevAt time.Time
}

func newCPUWindow() *cpuWindow {
	return &cpuWindow{now: time.Now}
}

// apply rewrites CPUPercent in place (100 = one core) and sorts rows by it,
// busiest first. The baseline only advances when every row was read.
func (w *cpuWindow) apply(ctx context.Context, rows []types.ProcessRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	at := w.now()
	elapsed := at.Sub(w.prevAt).Seconds()
	next := make(map[int32]float64, len(rows))
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("reading process cpu times: %w", err)
		}
		rows[i].CPUPercent = 0
		total, err := procCPUTime(ctx, rows[i].PID)
		if err != nil {
			// exited since ps ran
			continue
		}
		next[rows[i].PID] = total
		before, seen := w.prev[rows[i].PID]
		if seen && elapsed > 0 && total >= before {
			rows[i].CPUPercent = (total - before) / elapsed * 100
		}
	}
	w.prev, w.prevAt = next, at

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].CPUPercent > rows[b].CPUPercent
	})
	return nil
}
