package notify

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/srodi/hotspot-alert/pkg/report"
	"github.com/srodi/hotspot-alert/pkg/types"
)

const (
	CategoryResource        = "hotspot.resource"
	CategoryCriticalProcess = "hotspot.critical-process"

	ActionReveal    = "reveal"
	ActionTerminate = "terminate"
)

// Metadata keys attached to notifications for downstream action handling.
const (
	MetaTriggerMetric = "triggerMetric"
	MetaTriggerValue  = "triggerValue"
	MetaPID           = "pid"
	MetaCommand       = "command"
	MetaCPU           = "cpu"
	MetaMemory        = "memory"
	MetaTriggers      = "triggers"
)

// Notification is a user-facing alert.
type Notification struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Title     string            `json:"title"`
	Subtitle  string            `json:"subtitle,omitempty"`
	Body      string            `json:"body"`
	Category  string            `json:"category"`
	Actions   []string          `json:"actions,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Build composes the alert for status and snapshot. When a high-activity
// process is present the body describes the first one and the process
// actions are offered.
func Build(status types.Status, snap types.MetricsSnapshot, now time.Time) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Title:     report.Title(status, snap),
		Body:      report.Message(snap),
		Category:  CategoryResource,
		Metadata:  map[string]string{},
	}
	if status.Trigger != types.MetricNone {
		n.Metadata[MetaTriggerMetric] = status.Trigger.String()
		if v, ok := report.TriggerValue(status, snap); ok {
			n.Metadata[MetaTriggerValue] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	if len(snap.HighActivityProcesses) > 0 {
		p := snap.HighActivityProcesses[0]
		n.Subtitle = report.ProcessSummary(p)
		n.Body = report.ProcessDetail(p)
		n.Category = CategoryCriticalProcess
		n.Actions = []string{ActionReveal, ActionTerminate}
		n.Metadata[MetaPID] = strconv.FormatInt(int64(p.PID), 10)
		n.Metadata[MetaCommand] = p.Command
		n.Metadata[MetaCPU] = strconv.FormatFloat(p.CPUPercent, 'f', -1, 64)
		n.Metadata[MetaMemory] = strconv.FormatFloat(p.MemoryPercent, 'f', -1, 64)
		n.Metadata[MetaTriggers] = strings.Join(p.Triggers.Names(), ",")
	}
	return n
}

// Process recovers the process a notification was raised for.
func (n Notification) Process() (types.ProcessUsage, bool) {
	raw, ok := n.Metadata[MetaPID]
	if !ok {
		return types.ProcessUsage{}, false
	}
	pid, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || pid <= 0 {
		return types.ProcessUsage{}, false
	}
	p := types.ProcessUsage{PID: int32(pid), Command: n.Metadata[MetaCommand]}
	p.CPUPercent, _ = strconv.ParseFloat(n.Metadata[MetaCPU], 64)
	p.MemoryPercent, _ = strconv.ParseFloat(n.Metadata[MetaMemory], 64)
	for _, name := range strings.Split(n.Metadata[MetaTriggers], ",") {
		switch name {
		case "cpu":
			p.Triggers |= types.TriggerCPU
		case "memory":
			p.Triggers |= types.TriggerMemory
		}
	}
	return p, true
}
