// Package stats keeps the player's running win/loss record across duels.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/netgallows/netgallows/internal/protocol"
)

const (
	// recordVersion is bumped when the schema changes.
	recordVersion = 1

	recordFilePrefix = "record"
	appDirName       = "netgallows"
)

// Record is the persistent aggregate of every finished duel played in one
// role. It lives in $XDG_STATE_HOME/netgallows/record-<role>.json.
type Record struct {
	Version int `json:"version"`

	Played   int `json:"played"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Forfeits int `json:"forfeits"` // subset of Losses
	Failures int `json:"failures"` // sessions cut short by the connection

	CurrentStreak int `json:"currentStreak"` // consecutive wins
	BestStreak    int `json:"bestStreak"`

	// Keyed by protocol.Reason string.
	ByReason map[string]int `json:"byReason"`

	LastUpdated time.Time `json:"lastUpdated"`
}

func newRecord() *Record {
	return &Record{
		Version:  recordVersion,
		ByReason: make(map[string]int),
	}
}

// Apply counts one concluded duel.
func (r *Record) Apply(reason protocol.Reason) {
	if r.ByReason == nil {
		r.ByReason = make(map[string]int)
	}
	r.Played++
	r.ByReason[reason.String()]++

	switch reason.Outcome() {
	case protocol.Win:
		r.Wins++
		r.CurrentStreak++
		if r.CurrentStreak > r.BestStreak {
			r.BestStreak = r.CurrentStreak
		}
	case protocol.Lose:
		r.Losses++
		r.CurrentStreak = 0
		if reason == protocol.LocalForfeit {
			r.Forfeits++
		}
	}
}

// ApplyFailure counts a duel that ended in a connection failure. It is not
// a loss and does not break the streak.
func (r *Record) ApplyFailure() {
	r.Played++
	r.Failures++
}

// WinRate is Wins over decided duels, or 0 before the first one.
func (r *Record) WinRate() float64 {
	decided := r.Wins + r.Losses
	if decided == 0 {
		return 0
	}
	return float64(r.Wins) / float64(decided)
}

// Combine sums records kept for different roles. Streaks are not summed:
// the best of the inputs is kept and the current streak is dropped.
func Combine(records ...*Record) *Record {
	out := newRecord()
	for _, r := range records {
		out.Played += r.Played
		out.Wins += r.Wins
		out.Losses += r.Losses
		out.Forfeits += r.Forfeits
		out.Failures += r.Failures
		out.BestStreak = max(out.BestStreak, r.BestStreak)
		for k, v := range r.ByReason {
			out.ByReason[k] += v
		}
		if r.LastUpdated.After(out.LastUpdated) {
			out.LastUpdated = r.LastUpdated
		}
	}
	return out
}

// Store loads and saves the Record of one role. Host and join processes on
// the same machine share the state directory, so each role writes its own
// file and neither overwrites the other's update.
type Store struct {
	dir  string
	role string
}

// NewStore returns the Store for role, rooted at dir or at the default state
// directory when dir is empty. The directory is created on the first Save.
func NewStore(dir, role string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir, role: role}
}

// Dir is the directory holding the record.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path to the record file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName(s.role))
}

// FileName is the record file for role.
func FileName(role string) string {
	if role == "" {
		return recordFilePrefix + ".json"
	}
	return recordFilePrefix + "-" + role + ".json"
}

// Load reads the record. A missing file yields an empty record.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return newRecord(), nil
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	if r.ByReason == nil {
		r.ByReason = make(map[string]int)
	}
	return &r, nil
}

// Save writes the record through a temp file and rename so a crash never
// leaves a truncated file behind.
func (s *Store) Save(r *Record) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	r.Version = recordVersion
	r.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		return fmt.Errorf("renaming record file: %w", err)
	}
	committed = true
	return nil
}

// Update loads the record, applies fn and saves the result.
func (s *Store) Update(fn func(*Record)) (*Record, error) {
	r, err := s.Load()
	if err != nil {
		return nil, err
	}
	fn(r)
	if err := s.Save(r); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultDir returns ~/.local/state/netgallows, respecting XDG_STATE_HOME.
func DefaultDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
