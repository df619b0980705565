package process

import (
	"testing"

	"github.com/srodi/hotspot-alert/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `  812  97.5  3.1 /Applications/Xcode.app/Contents/MacOS/Xcode
 4242  12.0 31.0 /Applications/Google Chrome.app/Contents/MacOS/Google Chrome
   77   0.1  0.2 /usr/sbin/syslogd
garbage line
  abc  10.0  1.0 /bin/bad-pid
   99  nan?  1.0 /bin/bad-cpu
  100  5.0
    0  50.0  1.0 kernel_task
  555 250.0 60.0 /usr/local/bin/stress
`

func TestParseRowsSkipsMalformedLines(t *testing.T) {
	rows := ParseRows([]byte(sampleOutput))
	require.Len(t, rows, 4)

	assert.Equal(t, types.ProcessRow{PID: 812, CPUPercent: 97.5, MemoryPercent: 3.1, Command: "/Applications/Xcode.app/Contents/MacOS/Xcode"}, rows[0])
	assert.Equal(t, "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", rows[1].Command)
	assert.Equal(t, int32(77), rows[2].PID)
	assert.Equal(t, int32(555), rows[3].PID)
}

func TestParseRowsEmpty(t *testing.T) {
	assert.Empty(t, ParseRows(nil))
	assert.Empty(t, ParseRows([]byte("\n\n")))
}

func TestSelectClassifiesAndNormalizes(t *testing.T) {
	rows := ParseRows([]byte(sampleOutput))
	selected := Select(rows, Thresholds{CPU: 0.20, Memory: 0.30}, types.DefaultProcessLimit)
	require.Len(t, selected, 3)

	xcode := selected[0]
	assert.Equal(t, int32(812), xcode.PID)
	assert.InDelta(t, 0.975, xcode.CPUPercent, 1e-9)
	assert.InDelta(t, 0.031, xcode.MemoryPercent, 1e-9)
	assert.True(t, xcode.TriggeredByCPU())
	assert.False(t, xcode.TriggeredByMemory())

	chrome := selected[1]
	assert.False(t, chrome.TriggeredByCPU())
	assert.True(t, chrome.TriggeredByMemory())

	stress := selected[2]
	assert.Equal(t, 1.0, stress.CPUPercent, "cpu share is clamped")
	assert.InDelta(t, 0.60, stress.MemoryPercent, 1e-9)
	assert.Equal(t, types.TriggerCPU|types.TriggerMemory, stress.Triggers)
}

func TestSelectThresholdsAreInclusive(t *testing.T) {
	rows := []types.ProcessRow{{PID: 1, CPUPercent: 20, MemoryPercent: 15, Command: "edge"}}
	selected := Select(rows, Thresholds{CPU: 0.20, Memory: 0.15}, 0)
	require.Len(t, selected, 1)
	assert.Equal(t, []string{"cpu", "memory"}, selected[0].Triggers.Names())
}

func TestSelectCapsResults(t *testing.T) {
	rows := make([]types.ProcessRow, 0, 40)
	for i := 1; i <= 40; i++ {
		rows = append(rows, types.ProcessRow{PID: int32(i), CPUPercent: 90, Command: "busy"})
	}
	selected := Select(rows, Thresholds{CPU: 0.5, Memory: 0.5}, types.DefaultProcessLimit)
	require.Len(t, selected, types.DefaultProcessLimit)
	assert.Equal(t, int32(1), selected[0].PID)
	assert.Equal(t, int32(12), selected[11].PID)
}
