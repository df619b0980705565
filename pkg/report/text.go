package report

import (
	"fmt"
	"strings"

	"github.com/srodi/hotspot-alert/pkg/types"
)

const (
	messageCollecting = "Collecting metrics…"
	messageHealthy    = "Everything looks healthy."
)

// MetricLabel is the display name of a metric.
func MetricLabel(m types.Metric) string {
	switch m {
	case types.MetricCPU:
		return "CPU"
	case types.MetricMemory:
		return "Memory"
	case types.MetricDisk:
		return "Disk"
	case types.MetricNetwork:
		return "Network"
	default:
		return "Activity"
	}
}

// Title summarizes which metrics are out of band. The wording follows the
// snapshot so it never lags behind a debounced status; status only supplies
// the label when the snapshot itself has nothing to report.
func Title(status types.Status, m types.MetricsSnapshot) string {
	critical := metricsAt(m, types.SeverityCritical)
	elevated := metricsAt(m, types.SeverityElevated)

	switch {
	case len(critical) > 0:
		criticalText := "Multiple metrics critical"
		if len(critical) == 1 {
			criticalText = MetricLabel(critical[0]) + " is critical"
		}
		switch len(elevated) {
		case 0:
			return criticalText
		case 1:
			return criticalText + ", " + MetricLabel(elevated[0]) + " elevated"
		default:
			return criticalText + ", several metrics elevated"
		}
	case len(elevated) > 1:
		return "Multiple metrics elevated"
	case len(elevated) == 1:
		return MetricLabel(elevated[0]) + " is elevated"
	}

	switch status.Level {
	case types.LevelCritical:
		return MetricLabel(status.Trigger) + " is critical"
	case types.LevelElevated:
		return MetricLabel(status.Trigger) + " is elevated"
	default:
		return "System is stable"
	}
}

// Message lists every non-normal metric with its value and band.
func Message(m types.MetricsSnapshot) string {
	if !m.HasLiveData() {
		return messageCollecting
	}
	nonNormal := NonNormal(m)
	if len(nonNormal) == 0 {
		return messageHealthy
	}
	parts := make([]string, 0, len(nonNormal))
	for _, ms := range nonNormal {
		parts = append(parts, fmt.Sprintf("%s %s (%s)", MetricLabel(ms.Metric), FormatValue(ms.Metric, m), ms.Severity))
	}
	return strings.Join(parts, ", ")
}

// ProcessSummary is the one-line description of a high-activity process.
func ProcessSummary(p types.ProcessUsage) string {
	return fmt.Sprintf("%s is using %s", p.DisplayName(), FormatPercent(p.CPUPercent))
}

// ProcessDetail describes a process including its memory share and which
// thresholds it crossed.
func ProcessDetail(p types.ProcessUsage) string {
	return fmt.Sprintf("%s (pid %d): CPU %s, memory %s, over %s threshold",
		p.DisplayName(), p.PID, FormatPercent(p.CPUPercent), FormatPercent(p.MemoryPercent),
		strings.Join(p.Triggers.Names(), "+"))
}

// TriggerValue returns the raw value of the status trigger: a ratio for cpu
// and memory, bytes/s for disk and network. ok is false without a trigger.
func TriggerValue(status types.Status, m types.MetricsSnapshot) (value float64, ok bool) {
	switch status.Trigger {
	case types.MetricCPU:
		return m.CPUUsage(), true
	case types.MetricMemory:
		return m.MemoryUsage(), true
	case types.MetricDisk:
		return m.DiskTotalRate(), true
	case types.MetricNetwork:
		return m.NetworkTotalRate(), true
	default:
		return 0, false
	}
}

// FormatValue renders the current value of a metric.
func FormatValue(metric types.Metric, m types.MetricsSnapshot) string {
	switch metric {
	case types.MetricCPU:
		return FormatPercent(m.CPUUsage())
	case types.MetricMemory:
		return FormatPercent(m.MemoryUsage())
	case types.MetricDisk:
		return FormatRate(m.DiskTotalRate())
	case types.MetricNetwork:
		return FormatRate(m.NetworkTotalRate())
	default:
		return ""
	}
}

// FormatPercent renders a 0..1 ratio as a whole percentage.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// FormatRate renders bytes/s with decimal units.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		bytesPerSec = 0
	}
	units := []string{"B/s", "KB/s", "MB/s", "GB/s"}
	value := bytesPerSec
	unit := 0
	for value >= 1000 && unit < len(units)-1 {
		value /= 1000
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%.0f %s", value, units[unit])
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
