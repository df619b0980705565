package types

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultProcessLimit caps how many high-activity rows a single listing may yield.
const DefaultProcessLimit = 12

// CPUTicks is the raw aggregate CPU time counter for one sample.
type CPUTicks struct {
	Idle  float64
	Total float64
}

// MemoryStat is the physical memory footprint at sample time.
type MemoryStat struct {
	Used  uint64
	Total uint64
}

// ByteCounters holds a pair of cumulative byte counters (rx/tx or read/write).
type ByteCounters struct {
	In  uint64
	Out uint64
}

// ProcessRow is one parsed line of the process listing, percentages as reported (0-100+).
type ProcessRow struct {
	PID           int32
	CPUPercent    float64
	MemoryPercent float64
	Command       string
}

// Trigger records which threshold caused a process to be included.
type Trigger uint8

const (
	TriggerCPU Trigger = 1 << iota
	TriggerMemory
)

// Has reports whether t includes other.
func (t Trigger) Has(other Trigger) bool { return t&other != 0 }

// Names lists the set triggers in a stable order.
func (t Trigger) Names() []string {
	names := make([]string, 0, 2)
	if t.Has(TriggerCPU) {
		names = append(names, "cpu")
	}
	if t.Has(TriggerMemory) {
		names = append(names, "memory")
	}
	return names
}

// ProcessUsage describes a process that met one of the high-activity thresholds.
type ProcessUsage struct {
	PID           int32
	Command       string
	CPUPercent    float64 // normalized 0..1
	MemoryPercent float64 // normalized 0..1
	Triggers      Trigger
}

// DisplayName is the last path component of the command.
func (p ProcessUsage) DisplayName() string {
	trimmed := strings.TrimSpace(p.Command)
	if trimmed == "" {
		return "Unknown Process"
	}
	base := filepath.Base(trimmed)
	if base == "" || base == "." || base == "/" {
		return trimmed
	}
	return base
}

func (p ProcessUsage) TriggeredByCPU() bool    { return p.Triggers.Has(TriggerCPU) }
func (p ProcessUsage) TriggeredByMemory() bool { return p.Triggers.Has(TriggerMemory) }

// MetricsSnapshot is the reduced view of the host for one tick. It is
// replaced wholesale each tick and never mutated after construction.
type MetricsSnapshot struct {
	SampledAt                time.Time
	CPUUtilization           float64
	MemoryUsed               uint64
	MemoryTotal              uint64
	NetworkRxRate            float64
	NetworkTxRate            float64
	DiskReadRate             float64
	DiskWriteRate            float64
	RunningProcesses         int
	HighActivityProcesses    []ProcessUsage
	ProcessSamplingAvailable bool
}

// MemoryUsage is MemoryUsed/MemoryTotal clamped to [0,1].
func (m MetricsSnapshot) MemoryUsage() float64 {
	if m.MemoryTotal == 0 {
		return 0
	}
	return clamp01(float64(m.MemoryUsed) / float64(m.MemoryTotal))
}

// CPUUsage returns the utilization ratio clamped to [0,1].
func (m MetricsSnapshot) CPUUsage() float64 {
	return clamp01(m.CPUUtilization)
}

func (m MetricsSnapshot) NetworkTotalRate() float64 {
	return max(0, m.NetworkRxRate+m.NetworkTxRate)
}

func (m MetricsSnapshot) DiskTotalRate() float64 {
	return max(0, m.DiskReadRate+m.DiskWriteRate)
}

// HasLiveData is false until at least one sampler has produced a non-zero value.
func (m MetricsSnapshot) HasLiveData() bool {
	return m.RunningProcesses > 0 ||
		m.CPUUtilization > 0 ||
		m.MemoryUsed > 0 ||
		m.DiskTotalRate() > 0 ||
		m.NetworkTotalRate() > 0 ||
		len(m.HighActivityProcesses) > 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
