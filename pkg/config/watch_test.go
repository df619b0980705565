package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDeliversValidReloads(t *testing.T) {
	old := reloadDelay
	t.Cleanup(func() { reloadDelay = old })
	reloadDelay = 20 * time.Millisecond

	dir := t.TempDir()
	path := writeConfig(t, dir, "monitor:\n  dwell_duration: 30s\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, zerolog.Nop())
	require.NoError(t, err)

	// invalid edits are skipped
	require.NoError(t, os.WriteFile(path, []byte("monitor:\n  dwell_duration: 1s\n"), 0o600))
	select {
	case cfg := <-updates:
		t.Fatalf("unexpected reload of invalid config: %+v", cfg.Monitor)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("monitor:\n  dwell_duration: 90s\n"), 0o600))
	select {
	case cfg := <-updates:
		assert.Equal(t, 90*time.Second, cfg.Monitor.DwellDuration)
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
