// Package monitor drives the sampling pipeline on a fixed interval and owns
// every piece of reduction state.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/debounce"
	"github.com/srodi/hotspot-alert/pkg/notify"
	"github.com/srodi/hotspot-alert/pkg/report"
	"github.com/srodi/hotspot-alert/pkg/tracker"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// DefaultInterval is the default tick period.
const DefaultInterval = 5 * time.Second

// Source produces one snapshot per call. Implementations need not be safe
// for concurrent use: the monitor never overlaps calls and only calls
// SetPolicy while no fetch is running.
type Source interface {
	FetchMetrics(ctx context.Context) types.MetricsSnapshot
	SetPolicy(policy tracker.Policy)
}

// Settings are the runtime-adjustable knobs.
type Settings struct {
	Interval             time.Duration
	Policy               tracker.Policy
	NotificationsEnabled bool
}

// Update is what one processed tick published.
type Update struct {
	Snapshot     types.MetricsSnapshot
	Candidate    types.Status
	Status       types.Status
	Notification *notify.Notification
}

// Monitor runs the tick loop. Create it with New and call Run once.
type Monitor struct {
	src      Source
	gate     *notify.Gate
	debounce *debounce.Debouncer
	log      zerolog.Logger
	settings Settings
	changes  chan Settings
	latest   atomic.Pointer[Update]
	onUpdate func(Update)
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithUpdateHook is called on the coordinating goroutine after every tick.
func WithUpdateHook(fn func(Update)) Option {
	return func(m *Monitor) { m.onUpdate = fn }
}

// New builds a monitor. gate may be nil to run without notifications.
func New(src Source, gate *notify.Gate, settings Settings, logger zerolog.Logger, opts ...Option) *Monitor {
	if settings.Interval <= 0 {
		settings.Interval = DefaultInterval
	}
	m := &Monitor{
		src:      src,
		gate:     gate,
		debounce: debounce.New(),
		log:      logger.With().Str("component", "monitor").Logger(),
		settings: settings,
		changes:  make(chan Settings, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Latest returns the most recent update, or nil before the first tick.
func (m *Monitor) Latest() *Update {
	return m.latest.Load()
}

// Apply queues new settings for the coordinating goroutine. Only the most
// recent queued settings are kept.
func (m *Monitor) Apply(s Settings) {
	for {
		select {
		case m.changes <- s:
			return
		default:
		}
		select {
		case <-m.changes:
		default:
		}
	}
}

// Run fetches once immediately and then once per interval until ctx is
// cancelled. Fetches run on a worker goroutine and never overlap; a fetch
// still running at shutdown finishes on its own and its result is dropped.
func (m *Monitor) Run(ctx context.Context) error {
	results := make(chan types.MetricsSnapshot, 1)
	fetchCtx := context.WithoutCancel(ctx)
	inFlight := false
	dispatch := func() {
		inFlight = true
		go func() {
			results <- m.src.FetchMetrics(fetchCtx)
		}()
	}

	ticker := time.NewTicker(m.settings.Interval)
	defer ticker.Stop()

	m.log.Info().Dur("interval", m.settings.Interval).Msg("monitor started")
	var deferred *Settings
	dispatch()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				m.log.Debug().Msg("discarding in-flight fetch")
			}
			if m.gate != nil {
				m.gate.Wait()
			}
			m.log.Info().Msg("monitor stopped")
			return nil

		case <-ticker.C:
			if inFlight {
				m.log.Debug().Msg("previous fetch still running, skipping tick")
				continue
			}
			dispatch()

		case snap := <-results:
			inFlight = false
			if ctx.Err() != nil {
				continue
			}
			m.reduce(ctx, snap)
			if deferred != nil {
				m.apply(ctx, *deferred, ticker)
				deferred = nil
			}

		case s := <-m.changes:
			if inFlight {
				deferred = &s
				continue
			}
			m.apply(ctx, s, ticker)
		}
	}
}

func (m *Monitor) reduce(ctx context.Context, snap types.MetricsSnapshot) {
	candidate := report.Classify(snap)
	previous := m.debounce.Published()
	status := m.debounce.Resolve(candidate)

	u := Update{Snapshot: snap, Candidate: candidate, Status: status}
	if status != previous {
		m.log.Info().
			Str("from", previous.String()).
			Str("to", status.String()).
			Float64("cpu", snap.CPUUsage()).
			Float64("memory", snap.MemoryUsage()).
			Msg("status changed")
	}

	if m.gate != nil {
		if n, ok := m.gate.Evaluate(status, snap); ok {
			m.gate.Dispatch(ctx, n)
			u.Notification = &n
		}
	}

	m.latest.Store(&u)
	if m.onUpdate != nil {
		m.onUpdate(u)
	}
}

func (m *Monitor) apply(ctx context.Context, s Settings, ticker *time.Ticker) {
	if s.Interval <= 0 {
		s.Interval = m.settings.Interval
	}
	if s.Interval != m.settings.Interval {
		ticker.Reset(s.Interval)
	}
	m.src.SetPolicy(s.Policy)
	if m.gate != nil {
		m.gate.SetDwell(s.Policy.Dwell)
		m.gate.SetEnabled(ctx, s.NotificationsEnabled)
	}
	m.settings = s
	m.log.Info().
		Dur("interval", s.Interval).
		Dur("dwell", s.Policy.Dwell).
		Bool("notifications", s.NotificationsEnabled).
		Msg("settings applied")
}
