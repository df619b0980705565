package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srodi/hotspot-alert/pkg/collector/process"
	"github.com/srodi/hotspot-alert/pkg/tracker"
	"github.com/srodi/hotspot-alert/pkg/types"
)

type fakeCPU struct {
	ticks []types.CPUTicks
	errs  []error
	calls int
}

func (f *fakeCPU) Sample(context.Context) (types.CPUTicks, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return types.CPUTicks{}, f.errs[i]
	}
	return f.ticks[i], nil
}

type fakeMemory struct {
	stat types.MemoryStat
	err  error
}

func (f *fakeMemory) Sample(context.Context) (types.MemoryStat, error) { return f.stat, f.err }

type fakeCounters struct {
	values []types.ByteCounters
	errs   []error
	calls  int
}

func (f *fakeCounters) Sample(context.Context) (types.ByteCounters, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return types.ByteCounters{}, f.errs[i]
	}
	return f.values[i], nil
}

type fakeCount struct{ n int }

func (f fakeCount) Count(context.Context) (int, error) { return f.n, nil }

type fakeLister struct {
	rows  []types.ProcessRow
	err   error
	calls int
}

func (f *fakeLister) List(context.Context) ([]types.ProcessRow, error) {
	f.calls++
	return f.rows, f.err
}

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	current := c.t
	c.t = c.t.Add(c.step)
	return current
}

func policy(dwell time.Duration) tracker.Policy {
	return tracker.Policy{Dwell: dwell, CPUThreshold: 0.2, MemoryThreshold: 0.15}
}

func TestFetchMetricsComputesRates(t *testing.T) {
	clock := &stepClock{t: time.Unix(1000, 0), step: 2 * time.Second}
	src := Sources{
		CPU:          &fakeCPU{ticks: []types.CPUTicks{{Idle: 100, Total: 200}, {Idle: 110, Total: 240}}},
		Memory:       &fakeMemory{stat: types.MemoryStat{Used: 6 << 30, Total: 8 << 30}},
		Network:      &fakeCounters{values: []types.ByteCounters{{In: 1000, Out: 500}, {In: 5000, Out: 700}}},
		Disk:         &fakeCounters{values: []types.ByteCounters{{In: 1 << 20, Out: 0}, {In: 3 << 20, Out: 4096}}},
		ProcessCount: fakeCount{n: 321},
	}
	p := NewProvider(src, policy(0), zerolog.Nop(), WithClock(clock.now))

	first := p.FetchMetrics(context.Background())
	assert.Zero(t, first.CPUUtilization, "first tick is baseline only")
	assert.Zero(t, first.NetworkRxRate)
	assert.Zero(t, first.DiskReadRate)
	assert.Equal(t, 321, first.RunningProcesses)
	assert.InDelta(t, 0.75, first.MemoryUsage(), 1e-9)
	assert.False(t, first.ProcessSamplingAvailable, "no lister configured")

	second := p.FetchMetrics(context.Background())
	assert.InDelta(t, 0.75, second.CPUUtilization, 1e-9)
	assert.InDelta(t, 2000, second.NetworkRxRate, 1e-9)
	assert.InDelta(t, 100, second.NetworkTxRate, 1e-9)
	assert.InDelta(t, float64(1<<20), second.DiskReadRate, 1e-9)
	assert.InDelta(t, 2048, second.DiskWriteRate, 1e-9)
	assert.Equal(t, time.Unix(1002, 0), second.SampledAt)
}

func TestFetchMetricsSubstitutesPerMetric(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	boom := errors.New("boom")
	cpuSrc := &fakeCPU{
		ticks: []types.CPUTicks{{Idle: 0, Total: 0}, {Idle: 50, Total: 100}, {}},
		errs:  []error{nil, nil, boom},
	}
	netSrc := &fakeCounters{
		values: []types.ByteCounters{{In: 0}, {In: 800}, {In: 1600}},
	}
	memSrc := &fakeMemory{err: boom}
	p := NewProvider(Sources{CPU: cpuSrc, Network: netSrc, Memory: memSrc}, policy(0), zerolog.Nop(), WithClock(clock.now))

	p.FetchMetrics(context.Background())
	second := p.FetchMetrics(context.Background())
	require.InDelta(t, 0.5, second.CPUUtilization, 1e-9)
	assert.Zero(t, second.MemoryTotal, "never succeeded, so zero")

	third := p.FetchMetrics(context.Background())
	assert.InDelta(t, 0.5, third.CPUUtilization, 1e-9, "cpu failure reuses previous value")
	assert.InDelta(t, 800, third.NetworkRxRate, 1e-9, "network unaffected by cpu failure")
}

func TestFetchMetricsCounterWrapNeverNegative(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	netSrc := &fakeCounters{values: []types.ByteCounters{{In: 10_000, Out: 10_000}, {In: 300, Out: 10_500}}}
	p := NewProvider(Sources{Network: netSrc}, policy(0), zerolog.Nop(), WithClock(clock.now))

	p.FetchMetrics(context.Background())
	snap := p.FetchMetrics(context.Background())
	assert.InDelta(t, 300, snap.NetworkRxRate, 1e-9)
	assert.InDelta(t, 500, snap.NetworkTxRate, 1e-9)
}

func TestHighActivityProcessesRespectDwell(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: 5 * time.Second}
	lister := &fakeLister{rows: []types.ProcessRow{
		{PID: 10, CPUPercent: 95, MemoryPercent: 1, Command: "/usr/bin/yes"},
		{PID: 11, CPUPercent: 1, MemoryPercent: 1, Command: "/usr/bin/idle"},
	}}
	p := NewProvider(Sources{Processes: lister}, policy(10*time.Second), zerolog.Nop(), WithClock(clock.now))

	assert.Empty(t, p.FetchMetrics(context.Background()).HighActivityProcesses) // t=0
	assert.Empty(t, p.FetchMetrics(context.Background()).HighActivityProcesses) // t=5
	snap := p.FetchMetrics(context.Background())                               // t=10
	require.Len(t, snap.HighActivityProcesses, 1)
	assert.Equal(t, int32(10), snap.HighActivityProcesses[0].PID)
	assert.True(t, snap.ProcessSamplingAvailable)
	assert.Equal(t, []int32{10}, p.Tracked())
}

func TestPermissionFailureDisablesProcessSampling(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	lister := &fakeLister{rows: []types.ProcessRow{{PID: 10, CPUPercent: 95, Command: "yes"}}}
	p := NewProvider(Sources{Processes: lister}, policy(time.Hour), zerolog.Nop(), WithClock(clock.now))

	p.FetchMetrics(context.Background())
	require.Equal(t, []int32{10}, p.Tracked())

	lister.err = fmt.Errorf("listing: %w", process.ErrPermission)
	snap := p.FetchMetrics(context.Background())
	assert.False(t, snap.ProcessSamplingAvailable)
	assert.False(t, p.ProcessSamplingAvailable())
	assert.Empty(t, p.Tracked(), "dwell state cleared")

	lister.err = nil
	p.FetchMetrics(context.Background())
	assert.Equal(t, 2, lister.calls, "disabled lister is never retried")
}

func TestTimeoutReusesPreviousProcesses(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	lister := &fakeLister{rows: []types.ProcessRow{{PID: 7, CPUPercent: 80, Command: "make"}}}
	p := NewProvider(Sources{Processes: lister}, policy(0), zerolog.Nop(), WithClock(clock.now))

	first := p.FetchMetrics(context.Background())
	require.Len(t, first.HighActivityProcesses, 1)

	lister.err = process.ErrTimeout
	second := p.FetchMetrics(context.Background())
	assert.Equal(t, first.HighActivityProcesses, second.HighActivityProcesses)
	assert.True(t, second.ProcessSamplingAvailable)
}

func TestSetPolicyClearsDwellAndAppliesThresholds(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	lister := &fakeLister{rows: []types.ProcessRow{{PID: 7, CPUPercent: 30, Command: "make"}}}
	p := NewProvider(Sources{Processes: lister}, policy(time.Minute), zerolog.Nop(), WithClock(clock.now))

	p.FetchMetrics(context.Background())
	require.Equal(t, []int32{7}, p.Tracked())

	stricter := policy(time.Minute)
	stricter.CPUThreshold = 0.5
	p.SetPolicy(stricter)
	assert.Empty(t, p.Tracked())
	assert.Equal(t, stricter, p.Policy())

	p.FetchMetrics(context.Background())
	assert.Empty(t, p.Tracked(), "30% no longer qualifies")
}
