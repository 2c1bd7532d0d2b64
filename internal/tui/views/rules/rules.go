// Package rules renders the help overlay from markdown.
package rules

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

//go:embed rules.md
var source string

// Markdown returns the rules text for a game allowing maxWrong misses.
func Markdown(maxWrong int) string {
	return strings.ReplaceAll(source, "{{max}}", strconv.Itoa(maxWrong))
}

// Model caches the rendered rules for the last width.
type Model struct {
	maxWrong int
	width    int
	rendered string
}

// New creates the rules overlay.
func New(maxWrong int) Model {
	return Model{maxWrong: maxWrong}
}

// Render formats the rules for width columns. Rendering falls back to the
// raw markdown if glamour fails.
func Render(maxWrong, width int) string {
	md := Markdown(maxWrong)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// View renders the overlay panel.
func (m *Model) View(width, height int) string {
	innerW := width - 8
	if innerW < 30 {
		innerW = 30
	}
	if m.rendered == "" || m.width != innerW {
		m.rendered = Render(m.maxWrong, innerW)
		m.width = innerW
	}

	body := m.rendered
	if lines := strings.Split(body, "\n"); height > 6 && len(lines) > height-6 {
		body = strings.Join(lines[:height-6], "\n")
	}
	help := theme.StyleDimmed.Render("?/esc:close")

	return lipgloss.NewStyle().
		Width(innerW+4).
		Padding(0, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, help))
}
