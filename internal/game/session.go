// Package game holds the local hangman state and the per-tick decision that
// turns it into a win or a loss.
package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	ErrNotLetter      = errors.New("guess must be a letter A-Z")
	ErrAlreadyGuessed = errors.New("letter already guessed")
	ErrStopped        = errors.New("session has ended")
)

// Status is the local verdict on the board.
type Status int

const (
	InProgress Status = iota
	Solved            // every letter of the word guessed
	Exhausted         // wrong guesses reached the maximum first
)

var statusNames = map[Status]string{
	InProgress: "in_progress",
	Solved:     "solved",
	Exhausted:  "exhausted",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// GuessResult describes the effect of one guess.
type GuessResult struct {
	Letter rune
	Hit    bool
	Wrong  int // wrong-guess count after this guess
}

// Session is the mutable state of one local board. The UI goroutine guesses
// and the sync agent stops it, so all access is synchronized.
type Session struct {
	mu       sync.RWMutex
	word     string
	guessed  map[rune]bool
	order    []rune
	wrong    int
	maxWrong int

	running atomic.Bool
}

// NormalizeWord upper-cases word and checks that it holds only letters A-Z.
func NormalizeWord(word string) (string, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return "", errors.New("empty word")
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("word %q: %w", word, ErrNotLetter)
		}
	}
	return word, nil
}

// NewSession starts a session for word. word is upper-cased and must hold
// only letters A-Z.
func NewSession(word string, maxWrong int) (*Session, error) {
	word, err := NormalizeWord(word)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if maxWrong < 1 {
		return nil, fmt.Errorf("new session: max wrong guesses must be at least 1, got %d", maxWrong)
	}
	s := &Session{
		word:     word,
		guessed:  make(map[rune]bool),
		maxWrong: maxWrong,
	}
	s.running.Store(true)
	return s, nil
}

// Guess records letter. Letters are case-insensitive.
func (s *Session) Guess(letter rune) (GuessResult, error) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return GuessResult{}, ErrNotLetter
	}
	if !s.running.Load() {
		return GuessResult{}, ErrStopped
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guessed[letter] {
		return GuessResult{Letter: letter, Wrong: s.wrong}, ErrAlreadyGuessed
	}
	s.guessed[letter] = true
	s.order = append(s.order, letter)

	hit := strings.ContainsRune(s.word, letter)
	if !hit {
		s.wrong++
	}
	return GuessResult{Letter: letter, Hit: hit, Wrong: s.wrong}, nil
}

// Status evaluates the board.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	solved := true
	for _, r := range s.word {
		if !s.guessed[r] {
			solved = false
			break
		}
	}
	switch {
	case solved:
		return Solved
	case s.wrong >= s.maxWrong:
		return Exhausted
	default:
		return InProgress
	}
}

// Stop clears the keep-running flag. Safe to call more than once.
func (s *Session) Stop() {
	s.running.Store(false)
}

// Running reports whether the game loop should keep going.
func (s *Session) Running() bool {
	return s.running.Load()
}

// Word returns the secret word.
func (s *Session) Word() string {
	return s.word
}

// Snapshot is a read-only copy of the board for rendering.
type Snapshot struct {
	Masked   []rune // word with unguessed letters as '_'
	Guessed  []rune // in guess order
	Wrong    int
	MaxWrong int
	Status   Status
	Running  bool
}

// Snapshot copies the current board.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	masked := make([]rune, 0, len(s.word))
	for _, r := range s.word {
		if s.guessed[r] {
			masked = append(masked, r)
		} else {
			masked = append(masked, '_')
		}
	}
	return Snapshot{
		Masked:   masked,
		Guessed:  append([]rune(nil), s.order...),
		Wrong:    s.wrong,
		MaxWrong: s.maxWrong,
		Status:   s.statusLocked(),
		Running:  s.running.Load(),
	}
}

// IsGuessed reports whether letter (A-Z) has been tried.
func (snap Snapshot) IsGuessed(letter rune) bool {
	for _, r := range snap.Guessed {
		if r == letter {
			return true
		}
	}
	return false
}
