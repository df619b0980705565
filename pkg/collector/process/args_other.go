//go:build !darwin

package process

// procps ps: comm= is truncated to 15 characters, so the executable path is
// resolved through /proc. pcpu is cputime/elapsed over the whole lifetime,
// so CPU is re-measured per listing.
var psArgs = []string{"-eo", "pid=,pcpu=,pmem=,comm="}

const (
	resolveFromProc = true
	intervalCPU     = true
)
