package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srodi/hotspot-alert/pkg/types"
)

func stubCPUTimes(t *testing.T, times map[int32]float64) {
	t.Helper()
	original := procCPUTime
	t.Cleanup(func() { procCPUTime = original })
	procCPUTime = func(_ context.Context, pid int32) (float64, error) {
		total, ok := times[pid]
		if !ok {
			return 0, errors.New("no such process")
		}
		return total, nil
	}
}

type tickClock struct{ t time.Time }

func (c *tickClock) now() time.Time { return c.t }

func psRows() []types.ProcessRow {
	// pcpu as procps reports it: lifetime averages
	return []types.ProcessRow{
		{PID: 300, CPUPercent: 95, MemoryPercent: 1, Command: "/usr/bin/long-idle"},
		{PID: 200, CPUPercent: 33, MemoryPercent: 1, Command: "/usr/bin/spinner"},
		{PID: 100, CPUPercent: 2, MemoryPercent: 1, Command: "/usr/sbin/sshd"},
	}
}

func TestWindowMeasuresRecentUsage(t *testing.T) {
	times := map[int32]float64{100: 10, 200: 400, 300: 9000}
	stubCPUTimes(t, times)
	clock := &tickClock{t: time.Unix(1000, 0)}
	w := newCPUWindow()
	w.now = clock.now

	first := psRows()
	require.NoError(t, w.apply(context.Background(), first))
	for _, row := range first {
		assert.Zero(t, row.CPUPercent, "first listing only records the baseline")
	}

	clock.t = clock.t.Add(5 * time.Second)
	times[200] += 4.9 // one core at 98%
	times[100] += 0.25
	rows := psRows()
	require.NoError(t, w.apply(context.Background(), rows))

	require.Len(t, rows, 3)
	assert.Equal(t, int32(200), rows[0].PID, "busiest first")
	assert.InDelta(t, 98, rows[0].CPUPercent, 1e-9)
	assert.Equal(t, int32(100), rows[1].PID)
	assert.InDelta(t, 5, rows[1].CPUPercent, 1e-9)
	assert.Equal(t, int32(300), rows[2].PID)
	assert.Zero(t, rows[2].CPUPercent, "lifetime average is ignored")

	selected := Select(rows, Thresholds{CPU: 0.80, Memory: 0.50}, types.DefaultProcessLimit)
	require.Len(t, selected, 1)
	assert.Equal(t, int32(200), selected[0].PID)
	assert.True(t, selected[0].TriggeredByCPU())
}

func TestWindowRebaselinesReusedAndVanishedPIDs(t *testing.T) {
	times := map[int32]float64{100: 50, 200: 80}
	stubCPUTimes(t, times)
	clock := &tickClock{t: time.Unix(0, 0)}
	w := newCPUWindow()
	w.now = clock.now

	require.NoError(t, w.apply(context.Background(), psRows()))

	// 100 was replaced by a new process with a smaller counter, 200 exited
	clock.t = clock.t.Add(2 * time.Second)
	times[100] = 1
	delete(times, 200)
	rows := psRows()
	require.NoError(t, w.apply(context.Background(), rows))
	for _, row := range rows {
		assert.Zero(t, row.CPUPercent, "pid %d", row.PID)
	}

	clock.t = clock.t.Add(2 * time.Second)
	times[100] = 2
	rows = psRows()
	require.NoError(t, w.apply(context.Background(), rows))
	assert.Equal(t, int32(100), rows[0].PID)
	assert.InDelta(t, 50, rows[0].CPUPercent, 1e-9)
}

func TestWindowStopsWhenContextExpires(t *testing.T) {
	stubCPUTimes(t, map[int32]float64{100: 1, 200: 1, 300: 1})
	w := newCPUWindow()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.apply(ctx, psRows())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, w.prev, "baseline is not advanced by a partial read")
}

func TestListReplacesLifetimeCPU(t *testing.T) {
	if !intervalCPU {
		t.Skip("ps reports recent usage on this platform")
	}
	stubReadlink(t, func(string) (string, error) { return "", errors.New("no /proc") })
	stubRun(t, func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return []byte(" 300 95.0 1.0 long-idle\n 200 33.0 1.0 spinner\n"), nil, nil
	})
	times := map[int32]float64{200: 100, 300: 5000}
	stubCPUTimes(t, times)

	lister := NewPSLister(time.Second)
	clock := &tickClock{t: time.Unix(0, 0)}
	lister.window.now = clock.now

	rows, err := lister.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, Select(rows, Thresholds{CPU: 0.80, Memory: 0.50}, 0))

	clock.t = clock.t.Add(3 * time.Second)
	times[200] += 3
	rows, err = lister.List(context.Background())
	require.NoError(t, err)
	selected := Select(rows, Thresholds{CPU: 0.80, Memory: 0.50}, 0)
	require.Len(t, selected, 1)
	assert.Equal(t, "spinner", selected[0].Command)
	assert.Equal(t, 1.0, selected[0].CPUPercent)
}
