// Package logging builds the zerolog logger used across hotspot-alert.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirrors config.LogConfig without importing it.
type Options struct {
	Level      string
	Format     string // auto, console or json
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Quiet drops the stderr writer while the live view owns the terminal.
	Quiet bool
}

// isTerminal allows tests to force a format decision.
var isTerminal = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// New returns a logger writing to stderr and, when opts.File is set, to a
// rotating file. The returned closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, consoleWriter(os.Stderr, opts.Format))
	}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("creating log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  true,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

func consoleWriter(f *os.File, format string) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return f
	case "console":
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.TimeOnly}
	default:
		if isTerminal(f) {
			return zerolog.ConsoleWriter{Out: f, TimeFormat: time.TimeOnly}
		}
		return f
	}
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
