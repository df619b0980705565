package ui

import (
	"strings"

	"github.com/srodi/hotspot-alert/pkg/types"
)

const (
	reset        = "\033[0m"
	bold         = "\033[1m"
	outlineGray  = "\033[38;5;244m"
	beeYellow    = "\033[38;5;226m"
	honeyOrange  = "\033[38;5;214m"
	mint         = "\033[38;5;121m"
	alertRed     = "\033[38;5;196m"
	cobalt       = "\033[38;5;33m"
	deepIndigo   = "\033[38;5;61m"
	fuchsia      = "\033[38;5;177m"
	hotspotFlame = "\033[38;5;208m"
)

const glyphRows = 6

var glyphs = map[rune][glyphRows]string{
	'H': {"██╗  ██╗", "██║  ██║", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'O': {" ██████╗ ", "██╔═████╗", "██║██╔██║", "████╔╝██║", "╚██████╔╝", " ╚═════╝ "},
	'T': {"████████╗", "╚══██╔══╝", "   ██║   ", "   ██║   ", "   ██║   ", "   ╚═╝   "},
	'S': {" ██████╗ ", "██╔════╝ ", "╚█████╗  ", " ╚═══██╗ ", "██████╔╝ ", "╚═════╝  "},
	'P': {"██████╗  ", "██╔══██╗ ", "██████╔╝ ", "██╔═══╝  ", "██║      ", "╚═╝      "},
}

var gradient = []string{hotspotFlame, honeyOrange, beeYellow, mint, cobalt, deepIndigo, fuchsia}

// Banner renders the hotspot wordmark. While the host is stable the letters
// use the flame gradient; otherwise every letter takes the level color.
func Banner(level types.Level) string {
	var b strings.Builder
	for _, line := range wordmark("HOTSPOT", level) {
		b.WriteString(bold + line + reset + "\n")
	}
	b.WriteString("\n")
	b.WriteString(bold + hotspotFlame + "hotspot-alert" + reset + "  •  " + outlineGray + "host activity watch" + reset + "\n\n")
	return b.String()
}

func wordmark(word string, level types.Level) []string {
	rows := make([]string, glyphRows)
	for i, r := range word {
		glyph, ok := glyphs[r]
		if !ok {
			continue
		}
		color := gradient[i%len(gradient)]
		if level != types.LevelNormal {
			color = levelColor(level)
		}
		for row := range glyph {
			rows[row] += color + glyph[row] + "  "
		}
	}
	return rows
}
