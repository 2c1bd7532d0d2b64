// Package eventlog is the protocol log overlay. Wire traffic is listed with
// its raw bytes, and entries logged after the duel was decided are set apart
// from the live part of the session.
package eventlog

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/netgallows/netgallows/internal/duel"
	"github.com/netgallows/netgallows/internal/protocol"
	"github.com/netgallows/netgallows/internal/tui/theme"
)

const maxEntries = 200

// Phase is the part of the session an entry was logged in.
type Phase int

const (
	PhaseLive    Phase = iota
	PhaseDecided       // after the latch closed
)

// Entry is one logged step. Wire is set for payloads that crossed the
// connection, in either direction.
type Entry struct {
	At      time.Duration // since the log was opened
	Kind    string        // duel.EventKind names, plus "net" and "game"
	Message string
	Wire    *protocol.Payload
	Phase   Phase
}

// Counters tally wire traffic.
type Counters struct {
	Sent, Received, Dropped int
}

// Model holds the log.
type Model struct {
	Entries []Entry
	Offset  int // entries hidden below the viewport

	opened  time.Time
	phase   Phase
	verdict string
	counts  Counters
}

// New opens an empty log.
func New() Model {
	return Model{opened: time.Now()}
}

// Add logs a local note that did not cross the wire.
func (m *Model) Add(kind, message string) {
	m.push(Entry{Kind: kind, Message: message})
}

// AddEvent logs a protocol event from the sync agent. The first concluded or
// failed event moves the log into the decided phase.
func (m *Model) AddEvent(ev duel.Event) {
	e := Entry{Kind: ev.Kind.String(), Message: ev.Describe()}
	switch ev.Kind {
	case duel.EventSent:
		m.counts.Sent++
		e.Wire = &ev.Payload
	case duel.EventReceived:
		m.counts.Received++
		e.Wire = &ev.Payload
	case duel.EventIgnored:
		m.counts.Dropped++
		e.Wire = &ev.Payload
	}
	m.push(e)

	if m.phase == PhaseLive && (ev.Kind == duel.EventConcluded || ev.Kind == duel.EventFailed) {
		m.phase = PhaseDecided
		m.verdict = ev.Describe()
	}
}

func (m *Model) push(e Entry) {
	if m.opened.IsZero() {
		m.opened = time.Now()
	}
	e.At = time.Since(m.opened)
	e.Phase = m.phase
	m.Entries = append(m.Entries, e)
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// Counters returns the wire traffic seen so far.
func (m Model) Counters() Counters { return m.counts }

// Decided reports whether the session outcome has been logged.
func (m Model) Decided() bool { return m.phase == PhaseDecided }

// ScrollUp moves the viewport toward older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Entries)-1, 0))
}

// ScrollDown moves the viewport toward newer entries.
func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

var kindColors = map[string]lipgloss.Color{
	"send": theme.ColorSend,
	"recv": theme.ColorReceive,
	"drop": theme.ColorDrop,
	"done": theme.ColorWin,
	"err":  theme.ColorDanger,
	"net":  theme.ColorWarning,
}

func kindColor(kind string) lipgloss.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return theme.ColorDimmed
}

// arrow marks the direction of wire entries.
func arrow(kind string) string {
	switch kind {
	case "send":
		return "->"
	case "recv", "drop":
		return "<-"
	default:
		return "  "
	}
}

// hexDump renders the payload bytes, padding included.
func hexDump(p protocol.Payload) string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(hex.EncodeToString([]byte{c}))
	}
	return b.String()
}

func (m Model) rows(e Entry, width int) []string {
	at := theme.StyleDimmed.Render(fmt.Sprintf("+%7.3fs", e.At.Seconds()))
	kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(4).Render(e.Kind)
	msg := ansi.Truncate(e.Message, max(width-19, 8), "...")
	rows := []string{fmt.Sprintf("%s %s %s %s", at, kind, arrow(e.Kind), msg)}
	if e.Wire != nil {
		rows = append(rows, theme.StyleDimmed.Render(strings.Repeat(" ", 18)+hexDump(*e.Wire)))
	}
	return rows
}

func divider(text string, width int) string {
	label := " decided: " + text + " "
	fill := max(width-lipgloss.Width(label)-2, 2)
	return theme.StyleDimmed.Render("--" + label + strings.Repeat("-", fill))
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	visible := max(height-7, 3)

	title := theme.StyleHeader.Render(" PROTOCOL LOG ")
	tally := theme.StyleDimmed.Render(fmt.Sprintf("tx %d  rx %d  dropped %d",
		m.counts.Sent, m.counts.Received, m.counts.Dropped))
	help := theme.StyleDimmed.Render(fmt.Sprintf("up/down:scroll  esc:close  %d entries", len(m.Entries)))
	panel := lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events recorded yet.")
		return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, tally, "", body, "", help))
	}

	end := len(m.Entries) - m.Offset
	var lines []string
	for i, e := range m.Entries[:end] {
		if e.Phase == PhaseDecided && (i == 0 || m.Entries[i-1].Phase == PhaseLive) {
			lines = append(lines, divider(m.verdict, innerW))
		}
		lines = append(lines, m.rows(e, innerW)...)
	}
	if m.Offset == 0 && m.phase == PhaseDecided && m.Entries[end-1].Phase == PhaseLive {
		lines = append(lines, divider(m.verdict, innerW))
	}
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" %d newer below", m.Offset))
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title, tally, strings.Join(lines, "\n"), more, help))
}
