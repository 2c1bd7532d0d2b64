package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/netgallows/netgallows/internal/history"
	"github.com/netgallows/netgallows/internal/peer"
	"github.com/netgallows/netgallows/internal/stats"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to config file")
	limit := fs.Int("n", 20, "Number of matches to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	var records []*stats.Record
	for _, role := range []peer.Role{peer.Initiator, peer.Responder} {
		r, err := stats.NewStore(cfg.Store.Dir, string(role)).Load()
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	record := stats.Combine(records...)

	db, err := history.Open(filepath.Join(stats.NewStore(cfg.Store.Dir, "").Dir(), history.FileName))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	matches, err := db.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	totals, err := db.Totals(ctx)
	if err != nil {
		return err
	}

	fmt.Println(renderRecord(record, totals))
	if len(matches) == 0 {
		fmt.Println(theme.StyleDimmed.Render("No matches played yet."))
		return nil
	}
	fmt.Println(renderMatches(matches))
	return nil
}

func renderRecord(r *stats.Record, totals []history.Tally) string {
	line := fmt.Sprintf("%d played  %d won  %d lost  %.0f%%  best streak %d",
		r.Played, r.Wins, r.Losses, r.WinRate()*100, r.BestStreak)
	if r.Failures > 0 {
		line += fmt.Sprintf("  %d disconnected", r.Failures)
	}
	for _, t := range totals {
		line += fmt.Sprintf("\n  as %s: %dW %dL", t.Role, t.Wins, t.Losses)
	}
	return theme.StyleHeader.Render(line)
}

func renderMatches(matches []history.Match) string {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		result, reason := m.Outcome.String(), m.Reason.String()
		if m.Failed {
			result, reason = "-", "connection lost"
		}
		rows = append(rows, []string{
			m.PlayedAt.Local().Format("2006-01-02 15:04"),
			m.Role,
			m.Word,
			result,
			reason,
			strconv.Itoa(m.WrongGuesses),
			m.Peer,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("PLAYED", "ROLE", "WORD", "RESULT", "REASON", "MISSES", "PEER").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col == 3 && row >= 0 && row < len(rows) {
				switch rows[row][3] {
				case "win":
					return s.Foreground(theme.ColorWin)
				case "lose":
					return s.Foreground(theme.ColorLose)
				}
			}
			return s
		}).
		String()
}
