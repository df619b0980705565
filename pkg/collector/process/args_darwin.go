//go:build darwin

package process

// -r sorts by CPU on BSD ps, whose pcpu is a decaying recent average; comm=
// is the full executable path.
var psArgs = []string{"-axo", "pid=,pcpu=,pmem=,comm=", "-r"}

const (
	resolveFromProc = false
	intervalCPU     = false
)
