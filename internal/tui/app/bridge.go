package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/netgallows/netgallows/internal/duel"
)

// TerminalMsg carries the final message from the sync agent.
type TerminalMsg struct{ Text string }

// EventMsg carries one protocol event for the log overlay.
type EventMsg struct{ Event duel.Event }

// Bridge hands sync agent callbacks to the Bubble Tea loop. The agent calls
// it from its own goroutines and from inside Update, so it never blocks:
// messages are buffered and delivered by the command returned from Wait.
type Bridge struct {
	messages chan string
	events   chan duel.Event

	done      chan struct{}
	closeOnce sync.Once
}

// NewBridge creates a Bridge. It implements duel.Display, and Observe is
// meant for duel.WithObserver.
func NewBridge() *Bridge {
	return &Bridge{
		messages: make(chan string, 1),
		events:   make(chan duel.Event, 64),
		done:     make(chan struct{}),
	}
}

// ShowTerminalMessage queues the final message. Only the first is kept.
func (b *Bridge) ShowTerminalMessage(text string) {
	select {
	case b.messages <- text:
	default:
	}
}

// Observe queues a protocol event, dropping it if the UI has fallen behind.
func (b *Bridge) Observe(ev duel.Event) {
	select {
	case b.events <- ev:
	default:
	}
}

// Wait returns a command that delivers the next TerminalMsg or EventMsg.
// Update must issue it again after each delivery.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case text := <-b.messages:
			return TerminalMsg{Text: text}
		case ev := <-b.events:
			return EventMsg{Event: ev}
		case <-b.done:
			return nil
		}
	}
}

// Close releases a pending Wait.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
