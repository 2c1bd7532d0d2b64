// Package protocol defines the end-of-game wire format shared by both
// peers: a fixed-size payload, the two literal reports, and the outcome and
// termination-reason types derived from them.
package protocol

import (
	"bytes"
	"strconv"
)

// PayloadSize is the fixed length of every message on the wire.
const PayloadSize = 10

// Payload is one fixed-size wire message. Shorter transport reads leave the
// tail zeroed.
type Payload [PayloadSize]byte

var (
	// WinnerPayload tells the receiver it won. A peer that lost locally
	// sends it.
	WinnerPayload = mustPayload("YOU WON ! ")
	// LoserPayload tells the receiver it lost. A peer that solved the word
	// sends it.
	LoserPayload = mustPayload("YOU LOST !")
)

func mustPayload(s string) Payload {
	if len(s) != PayloadSize {
		panic("protocol: literal payload must be exactly " + strconv.Itoa(PayloadSize) + " bytes")
	}
	var p Payload
	copy(p[:], s)
	return p
}

// PayloadFrom copies b into a Payload, zero-padding short input. Input
// longer than PayloadSize yields the zero payload and ok=false, so an
// oversized frame can never decode as a known report.
func PayloadFrom(b []byte) (p Payload, ok bool) {
	if len(b) > PayloadSize {
		return Payload{}, false
	}
	copy(p[:], b)
	return p, true
}

// String renders the payload for logs, trimming the zero padding.
func (p Payload) String() string {
	return strconv.Quote(string(bytes.TrimRight(p[:], "\x00")))
}

// Report is the decoded meaning of a received payload.
type Report int

const (
	ReportUnknown Report = iota
	ReportWinner         // receiver won, sender lost
	ReportLoser          // receiver lost, sender won
)

var reportNames = map[Report]string{
	ReportUnknown: "unknown",
	ReportWinner:  "winner",
	ReportLoser:   "loser",
}

func (r Report) String() string {
	if s, ok := reportNames[r]; ok {
		return s
	}
	return "unknown"
}

// Decode classifies a payload. Only exact byte matches of the two literals
// are recognized.
func Decode(p Payload) Report {
	switch p {
	case WinnerPayload:
		return ReportWinner
	case LoserPayload:
		return ReportLoser
	default:
		return ReportUnknown
	}
}
