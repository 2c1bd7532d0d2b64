// Package theme provides the Lip Gloss color palette and reusable styles
// for the netgallows TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Outcome colors.
var (
	ColorWin  = lipgloss.Color("#16a34a")
	ColorLose = lipgloss.Color("#dc2626")
	ColorLost = lipgloss.Color("#d97706") // connection lost
)

// Board colors.
var (
	ColorLetter   = lipgloss.Color("#f9fafb")
	ColorHit      = lipgloss.Color("#22c55e")
	ColorMiss     = lipgloss.Color("#dc2626")
	ColorBlank    = lipgloss.Color("#6b7280")
	ColorGallows  = lipgloss.Color("#9ca3af")
	ColorFigure   = lipgloss.Color("#f59e0b")
	ColorRoleHost = lipgloss.Color("#a855f7")
	ColorRoleJoin = lipgloss.Color("#06b6d4")
)

// Protocol event colors.
var (
	ColorSend    = lipgloss.Color("#3b82f6")
	ColorReceive = lipgloss.Color("#7c3aed")
	ColorDrop    = lipgloss.Color("#4b5563")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// RoleColor returns the accent for "host" or "join".
func RoleColor(role string) lipgloss.Color {
	switch role {
	case "host":
		return ColorRoleHost
	case "join":
		return ColorRoleJoin
	default:
		return ColorDimmed
	}
}

// DangerColor shades the wrong-guess counter as the figure fills in.
func DangerColor(wrong, max int) lipgloss.Color {
	if max <= 0 {
		return ColorDimmed
	}
	pct := float64(wrong) / float64(max)
	switch {
	case pct >= 0.8:
		return ColorDanger
	case pct >= 0.5:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright).
			Padding(0, 1)
)
