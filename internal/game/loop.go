package game

import (
	"math/rand/v2"
)

// Referee receives the local verdict. selfInitiated is always true here: the
// verdict was discovered by this process.
type Referee interface {
	DeclareWin(selfInitiated bool) error
	DeclareLose(selfInitiated bool) error
}

// Evaluate is the game loop's per-tick check. It calls the referee when the
// board is decided and does nothing once the session has stopped. Calling
// it on every tick is safe: the referee is expected to latch.
func Evaluate(s *Session, ref Referee) (Status, error) {
	if !s.Running() {
		return s.Status(), nil
	}
	st := s.Status()
	switch st {
	case Solved:
		return st, ref.DeclareWin(true)
	case Exhausted:
		return st, ref.DeclareLose(true)
	}
	return st, nil
}

// PickWord returns a random entry of words. rng may be nil.
func PickWord(words []string, rng *rand.Rand) string {
	if len(words) == 0 {
		return ""
	}
	if rng == nil {
		return words[rand.IntN(len(words))]
	}
	return words[rng.IntN(len(words))]
}
