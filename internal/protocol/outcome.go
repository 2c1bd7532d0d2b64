package protocol

import (
	"encoding/json"
	"fmt"
)

// Outcome is the result a peer realizes at the end of a session.
type Outcome int

const (
	Win Outcome = iota
	Lose
)

var outcomeNames = map[Outcome]string{
	Win:  "win",
	Lose: "lose",
}

var outcomeFromName = map[string]Outcome{
	"win":  Win,
	"lose": Lose,
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Opposite returns the outcome the peer must realize.
func (o Outcome) Opposite() Outcome {
	if o == Win {
		return Lose
	}
	return Win
}

// Banner is the text shown on the terminal screen.
func (o Outcome) Banner() string {
	if o == Win {
		return "YOU WON !"
	}
	return "YOU LOST !"
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	if o, ok := outcomeFromName[s]; ok {
		return o, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Reason records why a session concluded. Local reasons originate in this
// process and must be reported to the peer; peer reasons react to a report
// the peer already sent.
type Reason int

const (
	LocalGuessComplete    Reason = iota // every letter of the word guessed
	LocalGuessesExhausted               // wrong-guess counter hit the maximum
	LocalForfeit                        // player quit while the session was live
	PeerReportedLoss                    // received WinnerPayload
	PeerReportedWin                     // received LoserPayload
)

var reasonNames = map[Reason]string{
	LocalGuessComplete:    "local_guess_complete",
	LocalGuessesExhausted: "local_guesses_exhausted",
	LocalForfeit:          "local_forfeit",
	PeerReportedLoss:      "peer_reported_loss",
	PeerReportedWin:       "peer_reported_win",
}

var reasonFromName = map[string]Reason{
	"local_guess_complete":    LocalGuessComplete,
	"local_guesses_exhausted": LocalGuessesExhausted,
	"local_forfeit":           LocalForfeit,
	"peer_reported_loss":      PeerReportedLoss,
	"peer_reported_win":       PeerReportedWin,
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseReason is the inverse of Reason.String.
func ParseReason(s string) (Reason, error) {
	if r, ok := reasonFromName[s]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown reason %q", s)
}

// Outcome returns the outcome this reason realizes locally.
func (r Reason) Outcome() Outcome {
	switch r {
	case LocalGuessComplete, PeerReportedLoss:
		return Win
	default:
		return Lose
	}
}

// Local reports whether the reason was discovered by this process.
func (r Reason) Local() bool {
	switch r {
	case LocalGuessComplete, LocalGuessesExhausted, LocalForfeit:
		return true
	default:
		return false
	}
}

// Notice returns the payload that tells the peer about this conclusion.
// ok is false for peer reasons: the peer already knows.
func (r Reason) Notice() (p Payload, ok bool) {
	if !r.Local() {
		return Payload{}, false
	}
	if r.Outcome() == Win {
		return LoserPayload, true
	}
	return WinnerPayload, true
}

// ReasonFor maps a decoded report to the local reason it triggers. A report
// names the receiver's fate, so being told "you won" means the peer lost.
func ReasonFor(rep Report) (Reason, bool) {
	switch rep {
	case ReportWinner:
		return PeerReportedLoss, true
	case ReportLoser:
		return PeerReportedWin, true
	default:
		return 0, false
	}
}
