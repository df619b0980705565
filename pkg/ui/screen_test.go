package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestClipCountsVisibleRunesOnly(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  string
	}{
		{"fits", "CPU  92%\n", 20, "CPU  92%\n"},
		{"disabled", "a long line\n", 0, "a long line\n"},
		{"plain", "abcdefgh\n", 4, "abcd\n"},
		{"no newline", "abcdefgh", 3, "abc"},
		{"escapes are free", bold + alertRed + "[CRITICAL]" + reset + " CPU is critical\n", 10,
			bold + alertRed + "[CRITICAL]" + reset + reset + "\n"},
		{"glyphs", "██╗  ██╗██╗\n", 5, "██╗  \n"},
	}
	for _, tt := range tests {
		if got := clip(tt.line, tt.width); got != tt.want {
			t.Fatalf("%s: clip(%q, %d) = %q, want %q", tt.name, tt.line, tt.width, got, tt.want)
		}
	}
}

func TestScreenDrawsWholeFrames(t *testing.T) {
	var out bytes.Buffer
	s := &Screen{out: &out, width: func() int { return 6 }, log: zerolog.Nop()}

	s.Draw("status: normal\nok\n")
	if got := out.String(); got != home+"status\nok\n" {
		t.Fatalf("unexpected frame %q", got)
	}
}

func TestScreenWithoutTerminalAppends(t *testing.T) {
	var out bytes.Buffer
	s := &Screen{out: &out, log: zerolog.Nop()}
	s.Draw("one\n")
	s.Draw("two\n")
	if out.String() != "one\ntwo\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestScreenCloseRestoresOnce(t *testing.T) {
	var out bytes.Buffer
	s := &Screen{out: &out, log: zerolog.Nop()}
	var order []string
	s.undo = []func(){
		func() { order = append(order, "screen") },
		func() { order = append(order, "echo") },
	}
	s.Close()
	s.Close()
	if strings.Join(order, ",") != "echo,screen" {
		t.Fatalf("unexpected restore order %v", order)
	}
}
