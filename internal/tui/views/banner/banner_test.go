package banner

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSpringSettlesOnCenter(t *testing.T) {
	m := New("YOU WON !", lipgloss.Color("#16a34a"), 80)
	if m.Settled() {
		t.Fatal("banner should start off-center")
	}

	var frames int
	for ; frames < 10*fps; frames++ {
		m, _ = m.Update(FrameMsg{})
		if m.Settled() {
			break
		}
	}
	if !m.Settled() {
		t.Fatalf("banner did not settle within %d frames", frames)
	}
	want := (80 - lipgloss.Width(m.render())) / 2
	if got := m.Offset(); got < want-1 || got > want+1 {
		t.Errorf("Offset() = %d, want about %d", got, want)
	}
}

func TestUpdateStopsFramingWhenSettled(t *testing.T) {
	m := New("YOU LOST !", lipgloss.Color("#dc2626"), 40)
	var more bool
	for i := 0; i < 10*fps; i++ {
		next, cmd := m.Update(FrameMsg{})
		m = next
		more = cmd != nil
		if !more {
			break
		}
	}
	if more {
		t.Error("Update kept scheduling frames after settling")
	}
}

func TestViewContainsText(t *testing.T) {
	m := New("YOU LOST !", lipgloss.Color("#dc2626"), 60)
	if v := m.View(20); !strings.Contains(v, "YOU LOST !") {
		t.Errorf("View() = %q", v)
	}
}

func TestNarrowWidthDoesNotGoNegative(t *testing.T) {
	m := New("CONNECTION LOST", lipgloss.Color("#d97706"), 5)
	m, _ = m.Update(FrameMsg{})
	if m.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", m.Offset())
	}
}
