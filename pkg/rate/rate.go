// Package rate turns successive raw counter readings into per-second rates
// and utilization ratios.
package rate

import (
	"time"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// Delta returns cur-prev. A counter that went backwards is treated as a full
// reset, so the new raw value is used as the delta.
func Delta(prev, cur uint64) uint64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}

// Meter converts a fixed set of monotonic byte counters into bytes/s.
// The zero value is ready to use; it is not safe for concurrent use.
type Meter struct {
	prev   []uint64
	prevAt time.Time
	last   []float64
	primed bool
}

// Observe records a reading taken at `at` and returns one rate per counter.
// The first reading only sets the baseline and yields zero rates. A reading
// whose timestamp is not after the baseline moves the baseline and returns
// the previous rates unchanged.
func (m *Meter) Observe(at time.Time, values ...uint64) []float64 {
	if !m.primed || len(m.prev) != len(values) {
		m.prev = append(m.prev[:0], values...)
		m.prevAt = at
		m.last = make([]float64, len(values))
		m.primed = true
		return append([]float64(nil), m.last...)
	}

	elapsed := at.Sub(m.prevAt).Seconds()
	if elapsed <= 0 {
		copy(m.prev, values)
		m.prevAt = at
		return append([]float64(nil), m.last...)
	}

	rates := make([]float64, len(values))
	for i, v := range values {
		rates[i] = float64(Delta(m.prev[i], v)) / elapsed
	}
	copy(m.prev, values)
	m.prevAt = at
	m.last = rates
	return append([]float64(nil), rates...)
}

// Last returns the most recently computed rates (nil before the first reading).
func (m *Meter) Last() []float64 {
	if !m.primed {
		return nil
	}
	return append([]float64(nil), m.last...)
}

// Reset forgets the baseline so the next reading is treated as the first.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Utilization is 1 - Δidle/Δtotal between two CPU tick readings, clamped to [0,1].
func Utilization(prev, cur types.CPUTicks) float64 {
	totalDelta := cur.Total - prev.Total
	idleDelta := cur.Idle - prev.Idle
	if totalDelta <= 0 {
		return 0
	}
	busy := (totalDelta - idleDelta) / totalDelta
	switch {
	case busy < 0:
		return 0
	case busy > 1:
		return 1
	default:
		return busy
	}
}

// CPUMeter keeps the previous tick reading for Utilization.
type CPUMeter struct {
	prev   types.CPUTicks
	primed bool
}

// Observe returns the utilization since the previous reading; the first call returns 0.
func (c *CPUMeter) Observe(cur types.CPUTicks) float64 {
	if !c.primed {
		c.prev = cur
		c.primed = true
		return 0
	}
	usage := Utilization(c.prev, cur)
	c.prev = cur
	return usage
}
