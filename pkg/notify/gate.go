// Package notify decides when a user-facing alert is warranted and hands it
// to a delivery backend.
package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// DefaultCooldown is the minimum spacing between any two notifications.
const DefaultCooldown = 10 * time.Minute

// Deliverer is a notification backend.
type Deliverer interface {
	Name() string
	// Authorized reports whether the backend may currently post notifications.
	Authorized(ctx context.Context) (bool, error)
	Deliver(ctx context.Context, n Notification) error
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func WithCooldown(d time.Duration) GateOption {
	return func(g *Gate) { g.cooldown = d }
}

// Gate applies the critical dwell and the global cooldown. Evaluate, SetDwell
// and SetEnabled belong to the coordinating goroutine; the authorization
// cache is refreshed concurrently.
type Gate struct {
	deliverer Deliverer
	log       zerolog.Logger
	now       func() time.Time
	dwell     time.Duration
	cooldown  time.Duration
	enabled   bool

	authorized atomic.Bool
	deliveries sync.WaitGroup

	lastSent time.Time
	sent     bool

	dwellTrigger types.Metric
	dwellSince   time.Time
}

// NewGate returns a gate with an unknown (false) authorization state; call
// RefreshAuthorization to populate it.
func NewGate(d Deliverer, dwell time.Duration, enabled bool, logger zerolog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		deliverer:    d,
		log:          logger.With().Str("component", "notify").Str("backend", d.Name()).Logger(),
		now:          time.Now,
		dwell:        dwell,
		cooldown:     DefaultCooldown,
		enabled:      enabled,
		dwellTrigger: types.MetricNone,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RefreshAuthorization queries the backend in the background and updates the
// cached state. The returned channel closes when the query finished.
func (g *Gate) RefreshAuthorization(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ok, err := g.deliverer.Authorized(ctx)
		if err != nil {
			g.log.Warn().Err(err).Msg("authorization check failed")
			ok = false
		}
		if g.authorized.Swap(ok) != ok {
			g.log.Info().Bool("authorized", ok).Msg("notification authorization changed")
		}
	}()
	return done
}

// Authorized returns the cached authorization state.
func (g *Gate) Authorized() bool {
	return g.authorized.Load()
}

// SetEnabled toggles notifications. Enabling re-checks authorization.
func (g *Gate) SetEnabled(ctx context.Context, enabled bool) {
	if enabled && !g.enabled {
		g.RefreshAuthorization(ctx)
	}
	g.enabled = enabled
}

// Enabled reports whether notifications are switched on.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// SetDwell changes how long a critical trigger must hold before alerting.
func (g *Gate) SetDwell(d time.Duration) {
	g.dwell = d
}

// Evaluate decides whether status and snap warrant a notification and, if
// so, returns it and starts the cooldown. Critical dwell tracking advances
// even when notifications are disabled or unauthorized.
func (g *Gate) Evaluate(status types.Status, snap types.MetricsSnapshot) (Notification, bool) {
	now := g.now()
	criticalHeld := g.trackCritical(status, now)

	if !g.enabled || !g.authorized.Load() {
		return Notification{}, false
	}
	if !criticalHeld && len(snap.HighActivityProcesses) == 0 {
		return Notification{}, false
	}
	if g.sent && now.Sub(g.lastSent) < g.cooldown {
		return Notification{}, false
	}

	g.lastSent = now
	g.sent = true
	return Build(status, snap, now), true
}

// trackCritical maintains the {trigger, since} dwell state and reports
// whether the current critical trigger has held for the dwell duration.
func (g *Gate) trackCritical(status types.Status, now time.Time) bool {
	if status.Level != types.LevelCritical || status.Trigger == types.MetricNone {
		g.dwellTrigger = types.MetricNone
		g.dwellSince = time.Time{}
		return false
	}
	if status.Trigger != g.dwellTrigger {
		g.dwellTrigger = status.Trigger
		g.dwellSince = now
	}
	return now.Sub(g.dwellSince) >= g.dwell
}

// Dispatch delivers n on its own goroutine. Failures are logged and not
// retried.
func (g *Gate) Dispatch(ctx context.Context, n Notification) {
	g.deliveries.Add(1)
	go func() {
		defer g.deliveries.Done()
		if err := g.deliverer.Deliver(ctx, n); err != nil {
			g.log.Warn().Err(err).Str("id", n.ID).Msg("notification delivery failed")
			return
		}
		g.log.Debug().Str("id", n.ID).Str("title", n.Title).Msg("notification delivered")
	}()
}

// Wait blocks until every dispatched delivery has returned.
func (g *Gate) Wait() {
	g.deliveries.Wait()
}
