package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procReadlink allows tests to stub resolving /proc/PID/exe.
var procReadlink = os.Readlink

// commandForPID prefers the executable path from /proc over the truncated
// comm reported by ps, caching per listing.
func commandForPID(pid int32, comm string, cache map[int32]string) string {
	if pid <= 0 {
		return comm
	}
	if path, ok := cache[pid]; ok {
		return path
	}
	link := filepath.Join("/proc", strconv.FormatInt(int64(pid), 10), "exe")
	target, err := procReadlink(link)
	if err != nil {
		cache[pid] = comm
		return comm
	}
	target = strings.TrimSuffix(strings.TrimSpace(target), " (deleted)")
	if target == "" {
		target = comm
	}
	cache[pid] = target
	return target
}
