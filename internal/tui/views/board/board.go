// Package board renders the masked word and the letter picker.
package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/netgallows/netgallows/internal/game"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

const lettersPerRow = 13

// Word renders the masked word with a space between letters.
func Word(snap game.Snapshot) string {
	parts := make([]string, len(snap.Masked))
	hit := lipgloss.NewStyle().Foreground(theme.ColorHit).Bold(true)
	blank := lipgloss.NewStyle().Foreground(theme.ColorBlank)
	for i, r := range snap.Masked {
		if r == '_' {
			parts[i] = blank.Render("_")
		} else {
			parts[i] = hit.Render(string(r))
		}
	}
	return strings.Join(parts, " ")
}

// Letters renders A-Z in two rows. Letters already tried are removed from
// the picker.
func Letters(snap game.Snapshot) string {
	avail := lipgloss.NewStyle().Foreground(theme.ColorLetter)
	var rows []string
	var row []string
	for r := 'A'; r <= 'Z'; r++ {
		cell := " "
		if !snap.IsGuessed(r) {
			cell = avail.Render(string(r))
		}
		row = append(row, cell)
		if len(row) == lettersPerRow {
			rows = append(rows, strings.Join(row, "  "))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

// Misses lists the wrong letters in guess order.
func Misses(snap game.Snapshot) string {
	word := string(snap.Masked)
	var miss []string
	for _, r := range snap.Guessed {
		if !strings.ContainsRune(word, r) {
			miss = append(miss, string(r))
		}
	}
	if len(miss) == 0 {
		return theme.StyleDimmed.Render("no misses")
	}
	return lipgloss.NewStyle().Foreground(theme.ColorMiss).Render(strings.Join(miss, " "))
}

// View stacks the word, misses and picker.
func View(snap game.Snapshot) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Word(snap),
		"",
		Misses(snap),
		"",
		Letters(snap),
	)
}
