package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

// Model holds the status bar state.
type Model struct {
	Role      string // "host" or "join"
	Peer      string
	Transport string
	Live      bool // false once the duel has concluded or failed
	Wrong     int
	MaxWrong  int
	Wins      int
	Losses    int
	Streak    int
	Width     int
}

// New creates a status bar model.
func New(role, peer, transport string) Model {
	return Model{Role: role, Peer: peer, Transport: transport, Live: true}
}

// SetRecord updates the lifetime record shown on the right.
func (m *Model) SetRecord(wins, losses, streak int) {
	m.Wins = wins
	m.Losses = losses
	m.Streak = streak
}

// Caption is the side label, after the original two windows' titles.
func Caption(role string) string {
	switch role {
	case "host":
		return "Server Side"
	case "join":
		return "Client Side"
	default:
		return role
	}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	roleStr := lipgloss.NewStyle().Foreground(theme.RoleColor(m.Role)).Bold(true).Render(Caption(m.Role))

	var connStr string
	if m.Live {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● " + m.Peer)
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Render("○ " + m.Peer)
	}
	if m.Transport != "" {
		connStr += theme.StyleDimmed.Render(" (" + m.Transport + ")")
	}

	wrongStr := lipgloss.NewStyle().Foreground(theme.DangerColor(m.Wrong, m.MaxWrong)).
		Render(fmt.Sprintf("%d/%d wrong", m.Wrong, m.MaxWrong))

	record := fmt.Sprintf("%dW %dL", m.Wins, m.Losses)
	if m.Streak > 1 {
		record += fmt.Sprintf("  streak %d", m.Streak)
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := roleStr + sep + connStr + sep + wrongStr + sep + theme.StyleDimmed.Render(record)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
