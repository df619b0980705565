package process

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/srodi/hotspot-alert/pkg/types"
)

// Thresholds are normalized (0..1) CPU and memory shares a process must
// meet or exceed to be reported.
type Thresholds struct {
	CPU    float64
	Memory float64
}

// ParseRows parses "pid pcpu pmem command" lines. Malformed lines are
// skipped individually; commands may contain spaces.
func ParseRows(output []byte) []types.ProcessRow {
	var rows []types.ProcessRow
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		row, ok := parseRow(scanner.Text())
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func parseRow(line string) (types.ProcessRow, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return types.ProcessRow{}, false
	}
	pid, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil || pid <= 0 {
		return types.ProcessRow{}, false
	}
	cpu, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return types.ProcessRow{}, false
	}
	mem, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return types.ProcessRow{}, false
	}

	// keep the command's inner spacing intact
	rest := strings.TrimSpace(line)
	for i := 0; i < 3; i++ {
		rest = strings.TrimLeft(rest, " \t")
		if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
			rest = rest[idx:]
		}
	}
	return types.ProcessRow{
		PID:           int32(pid),
		CPUPercent:    cpu,
		MemoryPercent: mem,
		Command:       strings.TrimSpace(rest),
	}, true
}

// Select normalizes rows to [0,1], keeps those meeting a threshold, and
// stops after limit matches (no cap when limit <= 0). Input order is kept.
func Select(rows []types.ProcessRow, th Thresholds, limit int) []types.ProcessUsage {
	var selected []types.ProcessUsage
	for _, row := range rows {
		cpu := clamp01(row.CPUPercent / 100)
		mem := clamp01(row.MemoryPercent / 100)

		var triggers types.Trigger
		if cpu >= th.CPU {
			triggers |= types.TriggerCPU
		}
		if mem >= th.Memory {
			triggers |= types.TriggerMemory
		}
		if triggers == 0 {
			continue
		}

		selected = append(selected, types.ProcessUsage{
			PID:           row.PID,
			Command:       row.Command,
			CPUPercent:    cpu,
			MemoryPercent: mem,
			Triggers:      triggers,
		})
		if limit > 0 && len(selected) >= limit {
			break
		}
	}
	return selected
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
