// Package debounce holds back status level changes until they are confirmed
// by consecutive ticks.
package debounce

import "github.com/srodi/hotspot-alert/pkg/types"

// Confirmations is how many consecutive matching candidates a level change needs.
const Confirmations = 2

// Debouncer is owned by a single goroutine.
type Debouncer struct {
	published types.Status
	pending   *types.Status
	matches   int
}

// New starts from the normal status.
func New() *Debouncer {
	return &Debouncer{published: types.NormalStatus}
}

// Resolve feeds one candidate status and returns the status to publish.
// A candidate on the published level (possibly with a different trigger) is
// published at once. A level change is published only after Confirmations
// consecutive identical candidates; any other candidate restarts the count.
func (d *Debouncer) Resolve(candidate types.Status) types.Status {
	if candidate.Level == d.published.Level {
		d.published = candidate
		d.clearPending()
		return d.published
	}

	if d.pending != nil && *d.pending == candidate {
		d.matches++
	} else {
		c := candidate
		d.pending = &c
		d.matches = 1
	}

	if d.matches >= Confirmations {
		d.published = candidate
		d.clearPending()
	}
	return d.published
}

// Published returns the current published status.
func (d *Debouncer) Published() types.Status {
	return d.published
}

// Pending returns the candidate awaiting confirmation, if any.
func (d *Debouncer) Pending() (types.Status, int, bool) {
	if d.pending == nil {
		return types.Status{}, 0, false
	}
	return *d.pending, d.matches, true
}

func (d *Debouncer) clearPending() {
	d.pending = nil
	d.matches = 0
}
