// Package app is the root Bubble Tea model: it is both the game loop that
// feeds guesses into the session and the display that shows the final
// message before the program exits.
package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/netgallows/netgallows/internal/game"
	"github.com/netgallows/netgallows/internal/protocol"
	"github.com/netgallows/netgallows/internal/tui/theme"
	"github.com/netgallows/netgallows/internal/tui/views/banner"
	"github.com/netgallows/netgallows/internal/tui/views/board"
	"github.com/netgallows/netgallows/internal/tui/views/eventlog"
	"github.com/netgallows/netgallows/internal/tui/views/gallows"
	"github.com/netgallows/netgallows/internal/tui/views/rules"
	"github.com/netgallows/netgallows/internal/tui/views/status"
)

const title = "Network Hangman"

// Referee is the sync agent as seen by the UI.
type Referee interface {
	game.Referee
	Forfeit() error
	Active() bool
}

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayRules
	OverlayEvents
)

// Phase is where the model is in the end-of-game sequence.
type Phase int

const (
	PhasePlaying  Phase = iota
	PhaseSettling       // final message received, board frozen
	PhaseBanner         // final message on screen
	PhaseDone
)

// Options configures the model.
type Options struct {
	Role      string
	Peer      string
	Transport string

	Tick        time.Duration // game loop period
	SettleDelay time.Duration // board stays up this long after the result
	Hold        time.Duration // result stays up this long before exit

	Wins, Losses, Streak int // lifetime record for the status bar
}

type tickMsg time.Time

type settledMsg struct{}

type holdDoneMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	session *game.Session
	ref     Referee
	bridge  *Bridge
	opts    Options

	keys    KeyMap
	width   int
	height  int
	overlay Overlay
	phase   Phase
	message string

	statusBar status.Model
	events    eventlog.Model
	rules     *rules.Model
	banner    banner.Model
}

// New creates the root model. bridge must be the Display the referee was
// built with.
func New(session *game.Session, ref Referee, bridge *Bridge, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = time.Second / 60
	}
	snap := session.Snapshot()
	sb := status.New(opts.Role, opts.Peer, opts.Transport)
	sb.MaxWrong = snap.MaxWrong
	sb.SetRecord(opts.Wins, opts.Losses, opts.Streak)

	r := rules.New(snap.MaxWrong)
	events := eventlog.New()
	events.Add("net", "connected to "+opts.Peer)

	return Model{
		session:   session,
		ref:       ref,
		bridge:    bridge,
		opts:      opts,
		keys:      DefaultKeyMap(),
		statusBar: sb,
		events:    events,
		rules:     &r,
	}
}

// Init starts the game loop ticker and the agent bridge.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.bridge.Wait())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Phase reports the end-of-game phase.
func (m Model) Phase() Phase { return m.phase }

// Message is the final message, empty while playing.
func (m Model) Message() string { return m.message }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		if m.phase >= PhaseBanner {
			m.banner.SetWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.phase != PhasePlaying {
			return m, nil
		}
		m.evaluate()
		return m, m.tick()

	case TerminalMsg:
		if m.phase != PhasePlaying {
			return m, m.bridge.Wait()
		}
		m.phase = PhaseSettling
		m.message = msg.Text
		m.statusBar.Live = false
		m.syncStatus()
		settle := tea.Tick(m.opts.SettleDelay, func(time.Time) tea.Msg { return settledMsg{} })
		return m, tea.Batch(m.bridge.Wait(), settle)

	case EventMsg:
		m.events.AddEvent(msg.Event)
		return m, m.bridge.Wait()

	case settledMsg:
		m.phase = PhaseBanner
		m.overlay = OverlayNone
		m.banner = banner.New(m.message, messageColor(m.message), m.width)
		hold := tea.Tick(m.opts.Hold, func(time.Time) tea.Msg { return holdDoneMsg{} })
		return m, tea.Batch(banner.Frame(), hold)

	case banner.FrameMsg:
		var cmd tea.Cmd
		m.banner, cmd = m.banner.Update(msg)
		return m, cmd

	case holdDoneMsg:
		m.phase = PhaseDone
		return m, tea.Quit
	}

	return m, nil
}

// evaluate is one game loop iteration.
func (m *Model) evaluate() {
	if _, err := game.Evaluate(m.session, m.ref); err != nil {
		m.events.Add("err", err.Error())
	}
	m.syncStatus()
}

func (m *Model) syncStatus() {
	snap := m.session.Snapshot()
	m.statusBar.Wrong = snap.Wrong
	m.statusBar.MaxWrong = snap.MaxWrong
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.forfeitOrQuit()
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape),
			m.overlay == OverlayRules && key.Matches(msg, m.keys.Rules),
			m.overlay == OverlayEvents && key.Matches(msg, m.keys.Events):
			m.overlay = OverlayNone
		case m.overlay == OverlayEvents && key.Matches(msg, m.keys.ScrollUp):
			m.events.ScrollUp(1)
		case m.overlay == OverlayEvents && key.Matches(msg, m.keys.ScrollDown):
			m.events.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.forfeitOrQuit()

	case key.Matches(msg, m.keys.Rules):
		m.overlay = OverlayRules
		return m, nil

	case key.Matches(msg, m.keys.Events):
		m.overlay = OverlayEvents
		return m, nil
	}

	if letter, ok := guessLetter(msg); ok && m.phase == PhasePlaying {
		res, err := m.session.Guess(letter)
		switch {
		case errors.Is(err, game.ErrAlreadyGuessed), errors.Is(err, game.ErrStopped):
		case err != nil:
			m.events.Add("err", err.Error())
		case res.Hit:
			m.events.Add("game", string(letter)+" hit")
		default:
			m.events.Add("game", string(letter)+" miss")
		}
		m.syncStatus()
	}
	return m, nil
}

// forfeitOrQuit concedes a live duel, which leads to the normal end-of-game
// sequence. With the duel already decided it quits at once.
func (m Model) forfeitOrQuit() (tea.Model, tea.Cmd) {
	if m.phase == PhasePlaying && m.ref.Active() {
		if err := m.ref.Forfeit(); err != nil {
			m.events.Add("err", err.Error())
		}
		return m, nil
	}
	m.phase = PhaseDone
	return m, tea.Quit
}

func messageColor(text string) lipgloss.Color {
	switch text {
	case protocol.Win.Banner():
		return theme.ColorWin
	case protocol.Lose.Banner():
		return theme.ColorLose
	default:
		return theme.ColorLost
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	bar := m.statusBar.View()
	bodyHeight := m.height - lipgloss.Height(bar) - 1

	if m.phase >= PhaseBanner {
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.banner.View(bodyHeight))
	}

	var body string
	switch m.overlay {
	case OverlayRules:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.rules.View(m.width, bodyHeight))
	case OverlayEvents:
		body = m.events.View(m.width, bodyHeight)
	default:
		body = m.renderBoard()
	}

	help := "  a-z:guess  ?:rules  ctrl+e:log  esc:forfeit"
	if m.phase == PhaseSettling {
		help = "  " + m.message
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		bar,
		body,
		theme.StyleDimmed.Render(help),
	)
}

func (m Model) renderBoard() string {
	snap := m.session.Snapshot()
	head := theme.StyleTitle.Render(title)
	figure := theme.StyleBorder.Padding(0, 2).Render(gallows.View(snap.Wrong, snap.MaxWrong))
	right := lipgloss.NewStyle().Padding(1, 4).Render(board.View(snap))

	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, figure, right),
	)
}
