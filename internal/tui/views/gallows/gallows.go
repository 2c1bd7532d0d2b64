// Package gallows draws the hanged figure in seven stages.
package gallows

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

// Stages is the number of drawings: an empty gallows plus six body parts.
const Stages = 7

var parts = [Stages - 1]struct {
	row, col int
	glyph    rune
}{
	{2, 6, 'O'},  // head
	{3, 6, '|'},  // body
	{3, 5, '/'},  // left arm
	{3, 7, '\\'}, // right arm
	{4, 5, '/'},  // left leg
	{4, 7, '\\'}, // right leg
}

var frame = []string{
	"  +---+  ",
	"  |   |  ",
	"  |      ",
	"  |      ",
	"  |      ",
	"  |      ",
	"=======  ",
}

// Stage maps wrong guesses onto 0..Stages-1. A custom max still ends on the
// full figure.
func Stage(wrong, max int) int {
	if wrong <= 0 || max <= 0 {
		return 0
	}
	if wrong >= max {
		return Stages - 1
	}
	s := wrong * (Stages - 1) / max
	if s == 0 {
		s = 1
	}
	return s
}

// Lines returns the unstyled drawing for stage.
func Lines(stage int) []string {
	grid := make([][]rune, len(frame))
	for i, row := range frame {
		grid[i] = []rune(row)
	}
	for i := 0; i < stage && i < len(parts); i++ {
		p := parts[i]
		grid[p.row][p.col] = p.glyph
	}
	out := make([]string, len(grid))
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

// View renders the figure for the current wrong-guess count.
func View(wrong, max int) string {
	lines := Lines(Stage(wrong, max))
	frameStyle := lipgloss.NewStyle().Foreground(theme.ColorGallows)
	figureStyle := lipgloss.NewStyle().Foreground(theme.ColorFigure).Bold(true)

	var b strings.Builder
	for i, line := range lines {
		for j, r := range []rune(line) {
			if isFigure(i, j) && r != ' ' {
				b.WriteString(figureStyle.Render(string(r)))
			} else {
				b.WriteString(frameStyle.Render(string(r)))
			}
		}
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func isFigure(row, col int) bool {
	return row >= 2 && row <= 4 && col >= 4
}
