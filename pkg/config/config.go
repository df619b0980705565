// Package config loads and validates the hotspot-alert YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/srodi/hotspot-alert/pkg/tracker"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "HOTSPOT_ALERT_CONFIG"
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "hotspot-alert.yaml"
)

// Config is the full configuration surface. Durations are written as Go
// duration strings ("120s", "2m").
type Config struct {
	Monitor       MonitorConfig      `yaml:"monitor"`
	Notifications NotificationConfig `yaml:"notifications"`
	Log           LogConfig          `yaml:"log"`
	API           APIConfig          `yaml:"api"`
}

type MonitorConfig struct {
	Interval               time.Duration `yaml:"interval" validate:"min=1s,max=5m"`
	DwellDuration          time.Duration `yaml:"dwell_duration" validate:"min=10s,max=600s"`
	CPUThresholdPercent    float64       `yaml:"cpu_threshold_percent" validate:"gte=1,lte=100"`
	MemoryThresholdPercent float64       `yaml:"memory_threshold_percent" validate:"gte=5,lte=50"`
	ProcessListTimeout     time.Duration `yaml:"process_list_timeout" validate:"min=100ms,max=30s"`
}

type NotificationConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend" validate:"oneof=log desktop webhook"`
	WebhookURL string `yaml:"webhook_url" validate:"required_if=Backend webhook,omitempty,url"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=auto console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Monitor: MonitorConfig{
			Interval:               5 * time.Second,
			DwellDuration:          120 * time.Second,
			CPUThresholdPercent:    20,
			MemoryThresholdPercent: 15,
			ProcessListTimeout:     2 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Backend: "log",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "auto",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7878",
		},
	}
}

// Policy converts the percentage thresholds into a tracker policy.
func (c *Config) Policy() tracker.Policy {
	return tracker.Policy{
		Dwell:           c.Monitor.DwellDuration,
		CPUThreshold:    c.Monitor.CPUThresholdPercent / 100,
		MemoryThreshold: c.Monitor.MemoryThresholdPercent / 100,
	}
}

// Load reads path over the defaults and validates the result. An empty path
// yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, Validate(cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every bound declared on Config.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fieldRule(fe), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// GetConfigPath picks the config file: the flag value, then $HOTSPOT_ALERT_CONFIG,
// then hotspot-alert.yaml in the working directory. It returns "" when none exists.
func GetConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if info, err := os.Stat(DefaultConfigFile); err == nil && !info.IsDir() {
		return DefaultConfigFile
	}
	return ""
}
