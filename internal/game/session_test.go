package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
)

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		maxWrong int
		wantErr  bool
	}{
		{"plain", "GAME", 6, false},
		{"lowercase normalized", " game ", 6, false},
		{"empty", "", 6, true},
		{"digit", "GAM3", 6, true},
		{"zero max", "GAME", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(tt.word, tt.maxWrong)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Word() != "GAME" {
				t.Errorf("Word() = %q", s.Word())
			}
		})
	}
}

func TestGuessAllCorrect(t *testing.T) {
	s, _ := NewSession("GAME", 6)
	for _, r := range "GAM" {
		res, err := s.Guess(r)
		if err != nil || !res.Hit {
			t.Fatalf("Guess(%c) = %+v, %v", r, res, err)
		}
		if s.Status() != InProgress {
			t.Fatalf("Status() after %c = %s", r, s.Status())
		}
	}
	res, err := s.Guess('e')
	if err != nil || !res.Hit || res.Letter != 'E' {
		t.Fatalf("Guess(e) = %+v, %v", res, err)
	}
	if s.Status() != Solved {
		t.Errorf("Status() = %s, want solved", s.Status())
	}
	if snap := s.Snapshot(); snap.Wrong != 0 || string(snap.Masked) != "GAME" {
		t.Errorf("Snapshot() = %+v", snap)
	}
}

func TestGuessExhausts(t *testing.T) {
	s, _ := NewSession("GAME", 6)
	for i, r := range "QWXYZJ" {
		res, err := s.Guess(r)
		if err != nil || res.Hit {
			t.Fatalf("Guess(%c) = %+v, %v", r, res, err)
		}
		if res.Wrong != i+1 {
			t.Errorf("Wrong = %d, want %d", res.Wrong, i+1)
		}
		want := InProgress
		if i == 5 {
			want = Exhausted
		}
		if got := s.Status(); got != want {
			t.Errorf("after %c Status() = %s, want %s", r, got, want)
		}
	}
	if snap := s.Snapshot(); string(snap.Masked) != "____" {
		t.Errorf("Masked = %q", string(snap.Masked))
	}
}

func TestGuessErrors(t *testing.T) {
	s, _ := NewSession("GAME", 6)

	if _, err := s.Guess('7'); !errors.Is(err, ErrNotLetter) {
		t.Errorf("Guess(7) error = %v", err)
	}
	if _, err := s.Guess('Q'); err != nil {
		t.Fatal(err)
	}
	res, err := s.Guess('q')
	if !errors.Is(err, ErrAlreadyGuessed) {
		t.Errorf("repeat guess error = %v", err)
	}
	if res.Wrong != 1 {
		t.Errorf("repeat guess must not count twice, Wrong = %d", res.Wrong)
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("Running() after Stop")
	}
	if _, err := s.Guess('G'); !errors.Is(err, ErrStopped) {
		t.Errorf("Guess after Stop error = %v", err)
	}
}

func TestSnapshotOrder(t *testing.T) {
	s, _ := NewSession("GAME", 6)
	for _, r := range "EQA" {
		s.Guess(r)
	}
	snap := s.Snapshot()
	if string(snap.Guessed) != "EQA" {
		t.Errorf("Guessed = %q", string(snap.Guessed))
	}
	if string(snap.Masked) != "_A_E" {
		t.Errorf("Masked = %q", string(snap.Masked))
	}
	if !snap.IsGuessed('Q') || snap.IsGuessed('G') {
		t.Error("IsGuessed mismatch")
	}
}

func TestConcurrentGuessAndStop(t *testing.T) {
	s, _ := NewSession("DEVELOPER", 6)
	var wg sync.WaitGroup
	for r := 'A'; r <= 'Z'; r++ {
		wg.Add(1)
		go func(r rune) {
			defer wg.Done()
			s.Guess(r)
			_ = s.Snapshot()
		}(r)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Stop()
	}()
	wg.Wait()
	if s.Running() {
		t.Error("expected stopped session")
	}
}

func TestPickWord(t *testing.T) {
	if got := PickWord(nil, nil); got != "" {
		t.Errorf("PickWord(nil) = %q", got)
	}
	words := []string{"CYBER", "PACKET", "SOCKET"}
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[PickWord(words, rng)] = true
	}
	for w := range seen {
		if w != "CYBER" && w != "PACKET" && w != "SOCKET" {
			t.Errorf("unexpected word %q", w)
		}
	}
	if PickWord([]string{"GAME"}, nil) != "GAME" {
		t.Error("single-word pool")
	}
}

func TestNormalizeWord(t *testing.T) {
	if w, err := NormalizeWord("  socket "); err != nil || w != "SOCKET" {
		t.Errorf("NormalizeWord = %q, %v", w, err)
	}
	for _, bad := range []string{"", "   ", "G4ME", "TWO WORDS", "ÉCOLE"} {
		if _, err := NormalizeWord(bad); err == nil {
			t.Errorf("NormalizeWord(%q) should fail", bad)
		}
	}
	if _, err := NormalizeWord("G4ME"); !errors.Is(err, ErrNotLetter) {
		t.Errorf("digits should wrap ErrNotLetter, got %v", err)
	}
}
