package report

import (
	"github.com/srodi/hotspot-alert/pkg/types"
)

// Band thresholds. Lower bounds are inclusive; rates are in bytes/s with MB = 10^6 bytes.
const (
	CPUElevated     = 0.50
	CPUCritical     = 0.80
	MemoryElevated  = 0.70
	MemoryCritical  = 0.85
	DiskElevated    = 30 * 1e6
	DiskCritical    = 120 * 1e6
	NetworkElevated = 5 * 1e6
	NetworkCritical = 20 * 1e6
)

func band(value, elevated, critical float64) types.Severity {
	switch {
	case value >= critical:
		return types.SeverityCritical
	case value >= elevated:
		return types.SeverityElevated
	default:
		return types.SeverityNormal
	}
}

func CPUSeverity(m types.MetricsSnapshot) types.Severity {
	return band(m.CPUUsage(), CPUElevated, CPUCritical)
}

func MemorySeverity(m types.MetricsSnapshot) types.Severity {
	return band(m.MemoryUsage(), MemoryElevated, MemoryCritical)
}

func DiskSeverity(m types.MetricsSnapshot) types.Severity {
	return band(m.DiskTotalRate(), DiskElevated, DiskCritical)
}

func NetworkSeverity(m types.MetricsSnapshot) types.Severity {
	return band(m.NetworkTotalRate(), NetworkElevated, NetworkCritical)
}

// MetricSeverity pairs a metric with the band it currently falls into.
type MetricSeverity struct {
	Metric   types.Metric
	Severity types.Severity
}

// Severities classifies every metric, highest tie-break priority first.
func Severities(m types.MetricsSnapshot) []MetricSeverity {
	out := make([]MetricSeverity, 0, len(types.Metrics))
	for _, metric := range types.Metrics {
		out = append(out, MetricSeverity{Metric: metric, Severity: SeverityOf(metric, m)})
	}
	return out
}

// SeverityOf classifies a single metric.
func SeverityOf(metric types.Metric, m types.MetricsSnapshot) types.Severity {
	switch metric {
	case types.MetricCPU:
		return CPUSeverity(m)
	case types.MetricMemory:
		return MemorySeverity(m)
	case types.MetricDisk:
		return DiskSeverity(m)
	case types.MetricNetwork:
		return NetworkSeverity(m)
	default:
		return types.SeverityNormal
	}
}

// Classify derives the aggregate status: the highest severity wins and ties go
// to the metric with the higher priority. All-normal yields NormalStatus.
func Classify(m types.MetricsSnapshot) types.Status {
	best := MetricSeverity{Metric: types.MetricNone, Severity: types.SeverityNormal}
	for _, ms := range Severities(m) {
		if ms.Severity == types.SeverityNormal {
			continue
		}
		if ms.Severity > best.Severity ||
			(ms.Severity == best.Severity && ms.Metric.Priority() > best.Metric.Priority()) {
			best = ms
		}
	}
	if best.Metric == types.MetricNone {
		return types.NormalStatus
	}
	return types.Status{Level: types.LevelFor(best.Severity), Trigger: best.Metric}
}

// NonNormal returns the metrics outside the normal band, most severe first
// and then by priority.
func NonNormal(m types.MetricsSnapshot) []MetricSeverity {
	out := make([]MetricSeverity, 0, len(types.Metrics))
	for _, sev := range []types.Severity{types.SeverityCritical, types.SeverityElevated} {
		for _, ms := range Severities(m) {
			if ms.Severity == sev {
				out = append(out, ms)
			}
		}
	}
	return out
}

func metricsAt(m types.MetricsSnapshot, target types.Severity) []types.Metric {
	var out []types.Metric
	for _, ms := range Severities(m) {
		if ms.Severity == target {
			out = append(out, ms.Metric)
		}
	}
	return out
}
