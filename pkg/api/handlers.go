package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srodi/hotspot-alert/pkg/actions"
	"github.com/srodi/hotspot-alert/pkg/notify"
	"github.com/srodi/hotspot-alert/pkg/report"
	"github.com/srodi/hotspot-alert/pkg/types"
)

type processView struct {
	PID           int32    `json:"pid"`
	Name          string   `json:"name"`
	Command       string   `json:"command"`
	CPUPercent    float64  `json:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent"`
	Triggers      []string `json:"triggers"`
}

type statusView struct {
	Level                    string               `json:"level"`
	Trigger                  string               `json:"trigger,omitempty"`
	Candidate                string               `json:"candidate"`
	Title                    string               `json:"title"`
	Message                  string               `json:"message"`
	SampledAt                time.Time            `json:"sampled_at"`
	CPUUsage                 float64              `json:"cpu_usage"`
	MemoryUsage              float64              `json:"memory_usage"`
	MemoryUsedBytes          uint64               `json:"memory_used_bytes"`
	MemoryTotalBytes         uint64               `json:"memory_total_bytes"`
	NetworkRxRate            float64              `json:"network_rx_bytes_per_sec"`
	NetworkTxRate            float64              `json:"network_tx_bytes_per_sec"`
	DiskReadRate             float64              `json:"disk_read_bytes_per_sec"`
	DiskWriteRate            float64              `json:"disk_write_bytes_per_sec"`
	RunningProcesses         int                  `json:"running_processes"`
	ProcessSamplingAvailable bool                 `json:"process_sampling_available"`
	HighActivityProcesses    []processView        `json:"high_activity_processes"`
	Notification             *notify.Notification `json:"notification,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

func (s *Server) getStatus(c *gin.Context) {
	u := s.status.Latest()
	if u == nil {
		fail(c, codeNotFound, "no sample collected yet")
		return
	}
	snap := u.Snapshot
	view := statusView{
		Level:                    u.Status.Level.String(),
		Candidate:                u.Candidate.String(),
		Title:                    report.Title(u.Status, snap),
		Message:                  report.Message(snap),
		SampledAt:                snap.SampledAt,
		CPUUsage:                 snap.CPUUsage(),
		MemoryUsage:              snap.MemoryUsage(),
		MemoryUsedBytes:          snap.MemoryUsed,
		MemoryTotalBytes:         snap.MemoryTotal,
		NetworkRxRate:            snap.NetworkRxRate,
		NetworkTxRate:            snap.NetworkTxRate,
		DiskReadRate:             snap.DiskReadRate,
		DiskWriteRate:            snap.DiskWriteRate,
		RunningProcesses:         snap.RunningProcesses,
		ProcessSamplingAvailable: snap.ProcessSamplingAvailable,
		HighActivityProcesses:    make([]processView, 0, len(snap.HighActivityProcesses)),
		Notification:             u.Notification,
	}
	if u.Status.Trigger != types.MetricNone {
		view.Trigger = u.Status.Trigger.String()
	}
	for _, p := range snap.HighActivityProcesses {
		view.HighActivityProcesses = append(view.HighActivityProcesses, processView{
			PID:           p.PID,
			Name:          p.DisplayName(),
			Command:       p.Command,
			CPUPercent:    p.CPUPercent,
			MemoryPercent: p.MemoryPercent,
			Triggers:      p.Triggers.Names(),
		})
	}
	success(c, view)
}

type revealRequest struct {
	Name string `json:"name"`
}

func (s *Server) revealProcess(c *gin.Context) {
	pid, ok := parsePID(c)
	if !ok {
		return
	}
	var req revealRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, codeInvalid, "invalid request body")
			return
		}
	}
	name := req.Name
	if name == "" {
		if p, found := s.reported(pid); found {
			name = p.DisplayName()
		} else {
			name = strconv.Itoa(int(pid))
		}
	}

	if err := s.actions.Reveal(c.Request.Context(), pid, name); err != nil {
		s.actionFailed(c, "reveal", pid, err)
		return
	}
	success(c, gin.H{"pid": pid, "name": name})
}

// terminateProcess only acts on processes currently reported as high activity.
func (s *Server) terminateProcess(c *gin.Context) {
	pid, ok := parsePID(c)
	if !ok {
		return
	}
	p, found := s.reported(pid)
	if !found {
		fail(c, codeForbidden, "process is not a reported high-activity process")
		return
	}
	if err := s.actions.Terminate(pid); err != nil {
		s.actionFailed(c, "terminate", pid, err)
		return
	}
	s.log.Info().Int32("pid", pid).Str("command", p.Command).Msg("process terminated")
	success(c, gin.H{"pid": pid, "name": p.DisplayName()})
}

func (s *Server) reported(pid int32) (types.ProcessUsage, bool) {
	u := s.status.Latest()
	if u == nil {
		return types.ProcessUsage{}, false
	}
	for _, p := range u.Snapshot.HighActivityProcesses {
		if p.PID == pid {
			return p, true
		}
	}
	return types.ProcessUsage{}, false
}

func (s *Server) actionFailed(c *gin.Context, action string, pid int32, err error) {
	s.log.Warn().Err(err).Str("action", action).Int32("pid", pid).Msg("process action failed")
	switch {
	case errors.Is(err, actions.ErrInvalidPID):
		fail(c, codeInvalid, err.Error())
	case errors.Is(err, actions.ErrUnsupported):
		fail(c, codeUnsupported, err.Error())
	default:
		fail(c, codeFailed, err.Error())
	}
}

func parsePID(c *gin.Context) (int32, bool) {
	pid, err := strconv.ParseInt(c.Param("pid"), 10, 32)
	if err != nil || pid <= 0 {
		fail(c, codeInvalid, "invalid pid")
		return 0, false
	}
	return int32(pid), true
}
