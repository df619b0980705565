package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/api"
	"github.com/srodi/hotspot-alert/pkg/config"
	"github.com/srodi/hotspot-alert/pkg/logging"
	"github.com/srodi/hotspot-alert/pkg/metrics"
	"github.com/srodi/hotspot-alert/pkg/monitor"
	"github.com/srodi/hotspot-alert/pkg/notify"
	"github.com/srodi/hotspot-alert/pkg/ui"
)

type runFlags struct {
	configPath      string
	interval        time.Duration
	dwell           time.Duration
	cpuThreshold    float64
	memoryThreshold float64
	notifications   bool
	api             string
	view            bool
	set             map[string]bool
}

func parseFlags() runFlags {
	var f runFlags
	flag.StringVar(&f.configPath, "config", "", "path to the YAML config (default $"+config.EnvConfigPath+" or ./"+config.DefaultConfigFile+")")
	flag.DurationVar(&f.interval, "interval", monitor.DefaultInterval, "sampling interval (e.g. 3s, 1m)")
	flag.DurationVar(&f.dwell, "dwell", 120*time.Second, "how long a process or critical status must persist before alerting")
	flag.Float64Var(&f.cpuThreshold, "cpu-threshold", 20, "per-process CPU percent that counts as high activity")
	flag.Float64Var(&f.memoryThreshold, "memory-threshold", 15, "per-process memory percent that counts as high activity")
	flag.BoolVar(&f.notifications, "notifications", true, "deliver notifications")
	flag.StringVar(&f.api, "api", "", "serve the local API on this address (e.g. 127.0.0.1:7878)")
	flag.BoolVar(&f.view, "view", true, "draw the live view when stdout is a terminal")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// apply lets explicitly set flags win over the file, including on reload.
func (f runFlags) apply(cfg *config.Config) error {
	if f.set["interval"] {
		cfg.Monitor.Interval = f.interval
	}
	if f.set["dwell"] {
		cfg.Monitor.DwellDuration = f.dwell
	}
	if f.set["cpu-threshold"] {
		cfg.Monitor.CPUThresholdPercent = f.cpuThreshold
	}
	if f.set["memory-threshold"] {
		cfg.Monitor.MemoryThresholdPercent = f.memoryThreshold
	}
	if f.set["notifications"] {
		cfg.Notifications.Enabled = f.notifications
	}
	if f.api != "" {
		cfg.API.Enabled = true
		cfg.API.Listen = f.api
	}
	return config.Validate(cfg)
}

func settingsFrom(cfg *config.Config) monitor.Settings {
	return monitor.Settings{
		Interval:             cfg.Monitor.Interval,
		Policy:               cfg.Policy(),
		NotificationsEnabled: cfg.Notifications.Enabled,
	}
}

func newDeliverer(cfg config.NotificationConfig, logger zerolog.Logger) notify.Deliverer {
	switch cfg.Backend {
	case "desktop":
		return notify.NewDesktopDeliverer()
	case "webhook":
		return notify.NewWebhookDeliverer(cfg.WebhookURL, nil)
	default:
		return notify.NewLogDeliverer(logger)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hotspot-alert: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := parseFlags()
	path := config.GetConfigPath(flags.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	viewEnabled := flags.view && ui.IsTerminal()
	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Quiet:      viewEnabled,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("config", path).
		Dur("interval", cfg.Monitor.Interval).
		Str("backend", cfg.Notifications.Backend).
		Msg("starting hotspot-alert")

	provider := metrics.NewProvider(metrics.SystemSources(cfg.Monitor.ProcessListTimeout), cfg.Policy(), logger)
	gate := notify.NewGate(newDeliverer(cfg.Notifications, logger), cfg.Monitor.DwellDuration, cfg.Notifications.Enabled, logger)
	gate.RefreshAuthorization(ctx)

	var interval atomic.Int64
	interval.Store(int64(cfg.Monitor.Interval))

	var hook func(monitor.Update)
	if viewEnabled {
		screen := ui.OpenScreen(logger)
		defer screen.Close()
		hook = func(u monitor.Update) {
			screen.Draw(ui.Render(u, ui.ViewOptions{Interval: time.Duration(interval.Load()), Color: true}))
		}
	} else {
		hook = func(u monitor.Update) {
			logger.Debug().
				Str("status", u.Status.String()).
				Float64("cpu", u.Snapshot.CPUUsage()).
				Float64("memory", u.Snapshot.MemoryUsage()).
				Int("high_activity", len(u.Snapshot.HighActivityProcesses)).
				Msg("tick")
		}
	}
	mon := monitor.New(provider, gate, settingsFrom(cfg), logger, monitor.WithUpdateHook(hook))

	if path != "" {
		reloads, err := config.Watch(ctx, path, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("config reload disabled")
		} else {
			go func() {
				for next := range reloads {
					if err := flags.apply(next); err != nil {
						logger.Warn().Err(err).Msg("ignoring reloaded config")
						continue
					}
					interval.Store(int64(next.Monitor.Interval))
					mon.Apply(settingsFrom(next))
				}
			}()
		}
	}

	monErr := make(chan error, 1)
	go func() { monErr <- mon.Run(ctx) }()

	var apiErr chan error
	if cfg.API.Enabled {
		gin.SetMode(gin.ReleaseMode)
		srv := api.NewServer(mon, api.SystemActions{}, logger)
		apiErr = make(chan error, 1)
		go func() { apiErr <- srv.Run(ctx, cfg.API.Listen) }()
	}

	select {
	case err := <-apiErr:
		stop()
		return errors.Join(err, <-monErr)
	case err := <-monErr:
		if apiErr != nil {
			err = errors.Join(err, <-apiErr)
		}
		return err
	}
}
