// Package banner animates the final "YOU WON !" / "YOU LOST !" message.
// The text slides in from the left edge on a damped spring.
package banner

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const fps = 60

// FrameMsg advances the animation by one frame.
type FrameMsg struct{}

// Model is the banner state.
type Model struct {
	Text  string
	Color lipgloss.Color

	spring harmonica.Spring
	x, vx  float64
	target float64
	width  int
}

// New creates a banner for text centered in width columns.
func New(text string, color lipgloss.Color, width int) Model {
	m := Model{
		Text:   text,
		Color:  color,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.5),
	}
	m.SetWidth(width)
	return m
}

// SetWidth recenters the banner.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.target = math.Max(0, float64(width-lipgloss.Width(m.render()))/2)
}

// Frame returns the command that produces the next FrameMsg.
func Frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return FrameMsg{} })
}

// Update steps the spring. It returns a command for the next frame until
// the banner has come to rest.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok {
		return m, nil
	}
	m.x, m.vx = m.spring.Update(m.x, m.vx, m.target)
	if m.Settled() {
		m.x, m.vx = m.target, 0
		return m, nil
	}
	return m, Frame()
}

// Settled reports whether the animation has finished.
func (m Model) Settled() bool {
	return math.Abs(m.x-m.target) < 0.5 && math.Abs(m.vx) < 0.5
}

// Offset is the current left margin in columns.
func (m Model) Offset() int {
	if m.x < 0 {
		return 0
	}
	return int(math.Round(m.x))
}

func (m Model) render() string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(m.Color).
		Padding(1, 4).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(m.Color).
		Render(m.Text)
}

// View renders the banner at its current position, vertically centered in
// height rows.
func (m Model) View(height int) string {
	box := m.render()
	pad := strings.Repeat(" ", m.Offset())
	lines := strings.Split(box, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	body := strings.Join(lines, "\n")

	top := (height - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + body
}
