//go:build linux

package actions

import (
	"context"
	"fmt"
)

// systemMonitors are tried in order; the first one installed is launched.
var systemMonitors = []string{
	"gnome-system-monitor",
	"plasma-systemmonitor",
	"ksysguard",
	"xfce4-taskmanager",
	"mate-system-monitor",
}

// Reveal launches the desktop system monitor. None of the supported monitors
// accept a search term on the command line, so name is only used in errors.
func Reveal(ctx context.Context, pid int32, name string) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, monitor := range systemMonitors {
		path, err := lookPath(monitor)
		if err != nil {
			continue
		}
		if err := startDetached(path); err != nil {
			return fmt.Errorf("launching %s for %q: %w", monitor, name, err)
		}
		return nil
	}
	return fmt.Errorf("reveal %q: no system monitor installed: %w", name, ErrUnsupported)
}
