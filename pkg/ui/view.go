package ui

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/srodi/hotspot-alert/pkg/monitor"
	"github.com/srodi/hotspot-alert/pkg/report"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// ViewOptions controls how Render draws a tick.
type ViewOptions struct {
	Interval time.Duration
	// Color enables the banner and ANSI severity colors.
	Color bool
}

// Render draws the full-screen view for one published tick.
func Render(u monitor.Update, opts ViewOptions) string {
	var buf bytes.Buffer
	if opts.Color {
		buf.WriteString(Banner(u.Status.Level))
	}
	snap := u.Snapshot

	fmt.Fprintf(&buf, "hotspot-alert (press Ctrl+C to exit)\n")
	fmt.Fprintf(&buf, "Updated: %s | Interval: %v\n\n", snap.SampledAt.Format(time.RFC3339), opts.Interval)

	fmt.Fprintf(&buf, "%s %s\n", paint(opts.Color, levelColor(u.Status.Level), "["+strings.ToUpper(u.Status.Level.String())+"]"), report.Title(u.Status, snap))
	fmt.Fprintf(&buf, "   %s\n", report.Message(snap))
	if u.Candidate.Level != u.Status.Level {
		fmt.Fprintf(&buf, "   pending: %s\n", u.Candidate)
	}

	fmt.Fprintf(&buf, "\n[Metrics]\n")
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tSTATE")
	for _, ms := range report.Severities(snap) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", report.MetricLabel(ms.Metric), report.FormatValue(ms.Metric, snap), ms.Severity)
	}
	fmt.Fprintf(tw, "Processes\t%d\t\n", snap.RunningProcesses)
	tw.Flush()

	fmt.Fprintf(&buf, "\n[High Activity]\n")
	switch {
	case !snap.ProcessSamplingAvailable:
		fmt.Fprintln(&buf, "Process sampling unavailable")
	case len(snap.HighActivityProcesses) == 0:
		fmt.Fprintln(&buf, "No process over threshold")
	default:
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PID\tNAME\tCPU(%)\tMEM(%)\tOVER")
		for _, p := range snap.HighActivityProcesses {
			fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%s\n", p.PID, p.DisplayName(), p.CPUPercent*100, p.MemoryPercent*100, strings.Join(p.Triggers.Names(), "+"))
		}
		tw.Flush()
	}

	if n := u.Notification; n != nil {
		fmt.Fprintf(&buf, "\n%s %s", paint(opts.Color, alertRed, "[ALERT]"), n.Title)
		if n.Subtitle != "" {
			fmt.Fprintf(&buf, ": %s", n.Subtitle)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

func levelColor(l types.Level) string {
	switch l {
	case types.LevelCritical:
		return alertRed
	case types.LevelElevated:
		return honeyOrange
	default:
		return mint
	}
}

func paint(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	return bold + color + text + reset
}
