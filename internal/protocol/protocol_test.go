package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want Report
	}{
		{"winner literal", []byte("YOU WON ! "), ReportWinner},
		{"loser literal", []byte("YOU LOST !"), ReportLoser},
		{"winner without trailing space", []byte("YOU WON !"), ReportUnknown},
		{"lowercase", []byte("you lost !"), ReportUnknown},
		{"empty", nil, ReportUnknown},
		{"garbage", []byte{0xff, 0x00, 0x01}, ReportUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := PayloadFrom(tt.raw)
			if got := Decode(p); got != tt.want {
				t.Errorf("Decode(%s) = %s, want %s", p, got, tt.want)
			}
		})
	}
}

func TestPayloadFromOversized(t *testing.T) {
	p, ok := PayloadFrom([]byte("YOU LOST !!"))
	if ok {
		t.Fatal("oversized input should report ok=false")
	}
	if Decode(p) != ReportUnknown {
		t.Fatalf("oversized input decoded as %s", Decode(p))
	}
}

func TestReasonNotice(t *testing.T) {
	tests := []struct {
		reason   Reason
		outcome  Outcome
		wantSend bool
		payload  Payload
	}{
		{LocalGuessComplete, Win, true, LoserPayload},
		{LocalGuessesExhausted, Lose, true, WinnerPayload},
		{LocalForfeit, Lose, true, WinnerPayload},
		{PeerReportedLoss, Win, false, Payload{}},
		{PeerReportedWin, Lose, false, Payload{}},
	}

	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			if got := tt.reason.Outcome(); got != tt.outcome {
				t.Errorf("Outcome() = %s, want %s", got, tt.outcome)
			}
			p, ok := tt.reason.Notice()
			if ok != tt.wantSend {
				t.Fatalf("Notice() ok = %v, want %v", ok, tt.wantSend)
			}
			if p != tt.payload {
				t.Errorf("Notice() = %s, want %s", p, tt.payload)
			}
		})
	}
}

// The literal on the wire is the receiver's fate.
func TestReasonFor(t *testing.T) {
	tests := []struct {
		payload Payload
		want    Reason
		outcome Outcome
	}{
		{WinnerPayload, PeerReportedLoss, Win},
		{LoserPayload, PeerReportedWin, Lose},
	}

	for _, tt := range tests {
		got, ok := ReasonFor(Decode(tt.payload))
		if !ok || got != tt.want {
			t.Errorf("ReasonFor(%s) = %s, %v, want %s", tt.payload, got, ok, tt.want)
		}
		if got.Outcome() != tt.outcome {
			t.Errorf("%s realizes %s, want %s", tt.payload, got.Outcome(), tt.outcome)
		}
	}
	if _, ok := ReasonFor(ReportUnknown); ok {
		t.Error("unknown report must not map to a reason")
	}
}

// A notice sent by one side must realize the opposite outcome on the other.
func TestNoticeIsComplementary(t *testing.T) {
	for _, r := range []Reason{LocalGuessComplete, LocalGuessesExhausted, LocalForfeit} {
		p, _ := r.Notice()
		peerReason, ok := ReasonFor(Decode(p))
		if !ok {
			t.Fatalf("%s: notice %s not recognized", r, p)
		}
		if peerReason.Local() {
			t.Errorf("%s: peer reason %s must not be local", r, peerReason)
		}
		if peerReason.Outcome() != r.Outcome().Opposite() {
			t.Errorf("%s: local %s, peer %s", r, r.Outcome(), peerReason.Outcome())
		}
	}
}

func TestOutcomeJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		O Outcome `json:"o"`
	}{Lose})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"o":"lose"}` {
		t.Errorf("got %s", data)
	}

	var o Outcome
	if err := json.Unmarshal([]byte(`"win"`), &o); err != nil || o != Win {
		t.Errorf("Unmarshal = %v, %v", o, err)
	}
	if err := json.Unmarshal([]byte(`"draw"`), &o); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestParseReasonRoundTrip(t *testing.T) {
	for r := range reasonNames {
		got, err := ParseReason(r.String())
		if err != nil || got != r {
			t.Errorf("ParseReason(%q) = %v, %v", r.String(), got, err)
		}
	}
}
