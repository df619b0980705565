// Package metrics aggregates the per-family samplers into one snapshot per tick.
package metrics

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/collector/cpu"
	"github.com/srodi/hotspot-alert/pkg/collector/disk"
	"github.com/srodi/hotspot-alert/pkg/collector/memory"
	"github.com/srodi/hotspot-alert/pkg/collector/network"
	"github.com/srodi/hotspot-alert/pkg/collector/process"
	"github.com/srodi/hotspot-alert/pkg/rate"
	"github.com/srodi/hotspot-alert/pkg/tracker"
	"github.com/srodi/hotspot-alert/pkg/types"
)

type CPUSampler interface {
	Sample(ctx context.Context) (types.CPUTicks, error)
}

type MemorySampler interface {
	Sample(ctx context.Context) (types.MemoryStat, error)
}

// CounterSampler returns a pair of cumulative byte counters.
type CounterSampler interface {
	Sample(ctx context.Context) (types.ByteCounters, error)
}

type ProcessCounter interface {
	Count(ctx context.Context) (int, error)
}

// Sources groups the samplers a Provider reads each tick. A nil Processes
// lister disables high-activity process sampling.
type Sources struct {
	CPU          CPUSampler
	Memory       MemorySampler
	Network      CounterSampler
	Disk         CounterSampler
	ProcessCount ProcessCounter
	Processes    process.Lister
}

// SystemSources returns the production samplers.
func SystemSources(listTimeout time.Duration) Sources {
	return Sources{
		CPU:          cpu.NewCollector(),
		Memory:       memory.NewCollector(),
		Network:      network.NewCollector(),
		Disk:         disk.NewCollector(),
		ProcessCount: process.NewCounter(),
		Processes:    process.NewPSLister(listTimeout),
	}
}

// Option customizes a Provider.
type Option func(*Provider)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithProcessLimit caps how many high-activity candidates a tick considers.
func WithProcessLimit(limit int) Option {
	return func(p *Provider) { p.limit = limit }
}

// Provider builds one MetricsSnapshot per FetchMetrics call. FetchMetrics and
// SetPolicy must not run concurrently; ProcessSamplingAvailable may be read
// from any goroutine.
type Provider struct {
	src    Sources
	log    zerolog.Logger
	now    func() time.Time
	limit  int
	track  *tracker.Tracker
	cpu    rate.CPUMeter
	net    rate.Meter
	disk   rate.Meter
	last   types.MetricsSnapshot
	noProc atomic.Bool
}

// NewProvider wires the samplers to a dwell tracker using policy.
func NewProvider(src Sources, policy tracker.Policy, logger zerolog.Logger, opts ...Option) *Provider {
	p := &Provider{
		src:   src,
		log:   logger.With().Str("component", "metrics").Logger(),
		now:   time.Now,
		limit: types.DefaultProcessLimit,
		track: tracker.New(policy),
	}
	for _, opt := range opts {
		opt(p)
	}
	if src.Processes == nil {
		p.noProc.Store(true)
	}
	return p
}

// FetchMetrics samples every source once. A failing source contributes its
// previous value (zero before its first success) and never fails the tick.
func (p *Provider) FetchMetrics(ctx context.Context) types.MetricsSnapshot {
	now := p.now()
	snap := types.MetricsSnapshot{SampledAt: now}

	snap.CPUUtilization = p.last.CPUUtilization
	if p.src.CPU != nil {
		if ticks, err := p.src.CPU.Sample(ctx); err != nil {
			p.log.Warn().Err(err).Str("metric", "cpu").Msg("sampler failed, reusing previous value")
		} else {
			snap.CPUUtilization = p.cpu.Observe(ticks)
		}
	}

	snap.MemoryUsed, snap.MemoryTotal = p.last.MemoryUsed, p.last.MemoryTotal
	if p.src.Memory != nil {
		if stat, err := p.src.Memory.Sample(ctx); err != nil {
			p.log.Warn().Err(err).Str("metric", "memory").Msg("sampler failed, reusing previous value")
		} else {
			snap.MemoryUsed, snap.MemoryTotal = stat.Used, stat.Total
		}
	}

	snap.NetworkRxRate, snap.NetworkTxRate = p.last.NetworkRxRate, p.last.NetworkTxRate
	if p.src.Network != nil {
		if c, err := p.src.Network.Sample(ctx); err != nil {
			p.log.Warn().Err(err).Str("metric", "network").Msg("sampler failed, reusing previous value")
		} else {
			rates := p.net.Observe(now, c.In, c.Out)
			snap.NetworkRxRate, snap.NetworkTxRate = rates[0], rates[1]
		}
	}

	snap.DiskReadRate, snap.DiskWriteRate = p.last.DiskReadRate, p.last.DiskWriteRate
	if p.src.Disk != nil {
		if c, err := p.src.Disk.Sample(ctx); err != nil {
			p.log.Warn().Err(err).Str("metric", "disk").Msg("sampler failed, reusing previous value")
		} else {
			rates := p.disk.Observe(now, c.In, c.Out)
			snap.DiskReadRate, snap.DiskWriteRate = rates[0], rates[1]
		}
	}

	snap.RunningProcesses = p.last.RunningProcesses
	if p.src.ProcessCount != nil {
		if n, err := p.src.ProcessCount.Count(ctx); err != nil {
			p.log.Warn().Err(err).Str("metric", "processes").Msg("sampler failed, reusing previous value")
		} else {
			snap.RunningProcesses = n
		}
	}

	snap.HighActivityProcesses = p.sampleProcesses(ctx, now)
	snap.ProcessSamplingAvailable = p.ProcessSamplingAvailable()

	p.last = snap
	return snap
}

func (p *Provider) sampleProcesses(ctx context.Context, now time.Time) []types.ProcessUsage {
	if p.noProc.Load() {
		return nil
	}

	rows, err := p.src.Processes.List(ctx)
	switch {
	case err == nil:
	case errors.Is(err, process.ErrPermission):
		p.noProc.Store(true)
		p.track.Reset()
		p.log.Error().Err(err).Msg("process listing not permitted, disabling high-activity process sampling")
		return nil
	case errors.Is(err, process.ErrTimeout):
		p.log.Warn().Err(err).Str("metric", "high_activity").Msg("process listing timed out, reusing previous value")
		return p.last.HighActivityProcesses
	default:
		p.log.Warn().Err(err).Str("metric", "high_activity").Msg("process listing failed, reusing previous value")
		return p.last.HighActivityProcesses
	}

	policy := p.track.Policy()
	candidates := process.Select(rows, process.Thresholds{CPU: policy.CPUThreshold, Memory: policy.MemoryThreshold}, p.limit)
	return p.track.Filter(candidates, now)
}

// SetPolicy forwards a threshold or dwell change to the tracker, which drops
// its dwell table when anything changed.
func (p *Provider) SetPolicy(policy tracker.Policy) {
	if p.track.SetPolicy(policy) {
		p.log.Info().
			Dur("dwell", policy.Dwell).
			Float64("cpu_threshold", policy.CPUThreshold).
			Float64("memory_threshold", policy.MemoryThreshold).
			Msg("high-activity policy changed, dwell table cleared")
	}
}

// Policy returns the active high-activity policy.
func (p *Provider) Policy() tracker.Policy {
	return p.track.Policy()
}

// ProcessSamplingAvailable is false once process listing has been disabled.
func (p *Provider) ProcessSamplingAvailable() bool {
	return !p.noProc.Load()
}

// Tracked exposes the PIDs currently in the dwell table.
func (p *Provider) Tracked() []int32 {
	return p.track.Tracked()
}
