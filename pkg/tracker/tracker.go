// Package tracker keeps per-PID dwell timestamps so only processes that stay
// above a usage threshold for a configured duration are reported.
package tracker

import (
	"math"
	"sort"
	"time"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// Policy is the qualification policy a dwell table was built under.
type Policy struct {
	Dwell           time.Duration
	CPUThreshold    float64 // 0..1
	MemoryThreshold float64 // 0..1
}

func (p Policy) equal(other Policy) bool {
	return p.Dwell == other.Dwell &&
		math.Abs(p.CPUThreshold-other.CPUThreshold) <= 1e-12 &&
		math.Abs(p.MemoryThreshold-other.MemoryThreshold) <= 1e-12
}

// Tracker is not safe for concurrent use.
//
// PIDs are not disambiguated by start time: a reused PID restarts its dwell
// window only because the previous owner was evicted when it disappeared.
type Tracker struct {
	policy    Policy
	firstSeen map[int32]time.Time
}

// New returns an empty tracker. A negative dwell is treated as zero.
func New(policy Policy) *Tracker {
	if policy.Dwell < 0 {
		policy.Dwell = 0
	}
	return &Tracker{policy: policy, firstSeen: make(map[int32]time.Time)}
}

// Policy returns the active policy.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// SetPolicy replaces the policy. Any change clears the dwell table so no
// process is grandfathered in under the new thresholds. It reports whether
// the table was cleared.
func (t *Tracker) SetPolicy(policy Policy) bool {
	if policy.Dwell < 0 {
		policy.Dwell = 0
	}
	if policy.equal(t.policy) {
		return false
	}
	t.policy = policy
	t.Reset()
	return true
}

// Reset clears every dwell entry.
func (t *Tracker) Reset() {
	clear(t.firstSeen)
}

// Filter records first-seen times for new candidates, evicts PIDs that are no
// longer candidates, and returns the candidates whose dwell has matured.
func (t *Tracker) Filter(candidates []types.ProcessUsage, now time.Time) []types.ProcessUsage {
	active := make(map[int32]struct{}, len(candidates))
	for _, c := range candidates {
		active[c.PID] = struct{}{}
		if _, ok := t.firstSeen[c.PID]; !ok {
			t.firstSeen[c.PID] = now
		}
	}
	for pid := range t.firstSeen {
		if _, ok := active[pid]; !ok {
			delete(t.firstSeen, pid)
		}
	}

	if t.policy.Dwell <= 0 {
		return append([]types.ProcessUsage(nil), candidates...)
	}

	matured := make([]types.ProcessUsage, 0, len(candidates))
	for _, c := range candidates {
		start, ok := t.firstSeen[c.PID]
		if !ok {
			continue
		}
		if now.Sub(start) >= t.policy.Dwell {
			matured = append(matured, c)
		}
	}
	return matured
}

// Tracked returns the PIDs currently in the dwell table, sorted.
func (t *Tracker) Tracked() []int32 {
	pids := make([]int32, 0, len(t.firstSeen))
	for pid := range t.firstSeen {
		pids = append(pids, pid)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// FirstSeen returns when pid first qualified, if it is tracked.
func (t *Tracker) FirstSeen(pid int32) (time.Time, bool) {
	ts, ok := t.firstSeen[pid]
	return ts, ok
}
