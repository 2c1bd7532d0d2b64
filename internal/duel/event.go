package duel

import (
	"github.com/netgallows/netgallows/internal/protocol"
)

// EventKind classifies protocol events.
type EventKind int

const (
	EventSent      EventKind = iota // notice transmitted to the peer
	EventReceived                   // recognized report from the peer
	EventIgnored                    // unrecognized payload dropped
	EventConcluded                  // latch closed with an outcome
	EventFailed                     // latch closed by a communication error
)

var eventKindNames = map[EventKind]string{
	EventSent:      "send",
	EventReceived:  "recv",
	EventIgnored:   "drop",
	EventConcluded: "done",
	EventFailed:    "err",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "?"
}

// Event is one protocol step, reported to the observer.
type Event struct {
	Kind    EventKind
	Payload protocol.Payload
	Reason  protocol.Reason
	Err     error
}

// Describe renders the event as a single log line.
func (e Event) Describe() string {
	switch e.Kind {
	case EventSent:
		return "sent " + e.Payload.String() + " (" + e.Reason.String() + ")"
	case EventReceived:
		return "received " + e.Payload.String() + " -> " + e.Reason.String()
	case EventIgnored:
		return "ignored " + e.Payload.String()
	case EventConcluded:
		return e.Reason.Outcome().String() + " (" + e.Reason.String() + ")"
	case EventFailed:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "failed"
	default:
		return ""
	}
}
