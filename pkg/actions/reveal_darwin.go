//go:build darwin

package actions

import (
	"context"
	"fmt"
)

const revealScript = `delay 0.3
tell application "System Events"
	if not (exists process "Activity Monitor") then
		return
	end if
	tell process "Activity Monitor"
		set frontmost to true
		delay 0.1
		key code 18 using {command down}
		delay 0.2
		keystroke "f" using {command down}
		delay 0.2
		keystroke "%s"
	end tell
end tell`

// Reveal brings Activity Monitor to the front and searches for name.
func Reveal(ctx context.Context, pid int32, name string) error {
	if err := validPID(pid); err != nil {
		return err
	}
	if err := runCommand(ctx, "open", "-a", "Activity Monitor"); err != nil {
		return fmt.Errorf("opening Activity Monitor: %w", err)
	}
	if err := runCommand(ctx, "osascript", "-e", fmt.Sprintf(revealScript, AppleScriptEscape(name))); err != nil {
		return fmt.Errorf("searching Activity Monitor for %q: %w", name, err)
	}
	return nil
}
