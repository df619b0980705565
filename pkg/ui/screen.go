package ui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	enterAltScreen = "\033[?1049h\033[?25l"
	leaveAltScreen = "\033[?25h\033[?1049l"
	home           = "\033[H\033[2J"
)

// Screen owns the terminal while the live view runs: each Draw replaces the
// previous frame, and Close hands the terminal back exactly once.
type Screen struct {
	out   io.Writer
	width func() int
	log   zerolog.Logger

	undo   []func()
	closed sync.Once
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// OpenScreen takes over stdout when it is a terminal. Otherwise the returned
// Screen just appends frames to stdout.
func OpenScreen(logger zerolog.Logger) *Screen {
	s := &Screen{
		out: os.Stdout,
		log: logger.With().Str("component", "screen").Logger(),
	}
	if !IsTerminal() {
		return s
	}

	outFD := int(os.Stdout.Fd())
	s.width = func() int {
		w, _, err := term.GetSize(outFD)
		if err != nil {
			return 0
		}
		return w
	}
	s.write(enterAltScreen)
	s.undo = append(s.undo, func() { s.write(leaveAltScreen) })

	if inFD := int(os.Stdin.Fd()); term.IsTerminal(inFD) {
		restore, err := disableInputEcho(inFD)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("input echo stays on")
		case restore != nil:
			s.undo = append(s.undo, restore)
		}
	}
	return s
}

// Draw writes one frame in a single write. On a terminal the frame replaces
// the previous one and lines wider than the terminal are clipped so the view
// never scrolls.
func (s *Screen) Draw(view string) {
	if s.width == nil {
		s.write(view)
		return
	}
	var frame bytes.Buffer
	frame.WriteString(home)
	width := s.width()
	for _, line := range strings.SplitAfter(view, "\n") {
		frame.WriteString(clip(line, width))
	}
	s.write(frame.String())
}

// Close restores the terminal. Later calls do nothing.
func (s *Screen) Close() {
	s.closed.Do(func() {
		for i := len(s.undo) - 1; i >= 0; i-- {
			s.undo[i]()
		}
	})
}

func (s *Screen) write(text string) {
	if _, err := io.WriteString(s.out, text); err != nil {
		s.log.Debug().Err(err).Msg("terminal write failed")
	}
}

// clip shortens line to width visible runes, skipping ANSI escape sequences
// when counting and keeping the trailing newline. width <= 0 disables it.
func clip(line string, width int) string {
	if width <= 0 {
		return line
	}
	body, newline := strings.CutSuffix(line, "\n")
	if utf8.RuneCountInString(body) <= width {
		return line
	}

	var b strings.Builder
	visible, escape := 0, false
	for _, r := range body {
		switch {
		case escape:
			b.WriteRune(r)
			if r == 'm' {
				escape = false
			}
			continue
		case r == '\033':
			escape = true
			b.WriteRune(r)
			continue
		}
		if visible == width {
			continue
		}
		b.WriteRune(r)
		visible++
	}
	if strings.Contains(body, "\033[") {
		b.WriteString(reset)
	}
	if newline {
		b.WriteString("\n")
	}
	return b.String()
}
