// Package history records finished duels in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/netgallows/netgallows/internal/protocol"
	_ "modernc.org/sqlite"
)

// FileName is the database file inside the state directory.
const FileName = "history.db"

// Match is one finished duel as seen from this side.
type Match struct {
	ID           string
	Role         string // "host" or "join"
	Transport    string
	Word         string
	Outcome      protocol.Outcome
	Reason       protocol.Reason
	Failed       bool // connection lost before a result
	WrongGuesses int
	Peer         string
	PlayedAt     time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id            TEXT PRIMARY KEY,
			role          TEXT NOT NULL,
			transport     TEXT NOT NULL,
			word          TEXT NOT NULL,
			outcome       TEXT,
			reason        TEXT,
			failed        BOOLEAN NOT NULL DEFAULT FALSE,
			wrong_guesses INTEGER NOT NULL DEFAULT 0,
			peer          TEXT,
			played_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_played ON matches(played_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Record inserts m, assigning an ID and timestamp when they are unset.
func (s *Store) Record(ctx context.Context, m *Match) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.PlayedAt.IsZero() {
		m.PlayedAt = time.Now()
	}
	m.PlayedAt = m.PlayedAt.UTC().Truncate(time.Millisecond)

	var outcome, reason any
	if !m.Failed {
		outcome, reason = m.Outcome.String(), m.Reason.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, role, transport, word, outcome, reason, failed, wrong_guesses, peer, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Role, m.Transport, m.Word, outcome, reason, m.Failed, m.WrongGuesses, m.Peer, m.PlayedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// Recent returns up to limit matches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, transport, word, outcome, reason, failed, wrong_guesses, peer, played_at
		FROM matches
		ORDER BY played_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			m               Match
			outcome, reason sql.NullString
			peer            sql.NullString
			playedAt        int64
		)
		if err := rows.Scan(&m.ID, &m.Role, &m.Transport, &m.Word, &outcome, &reason,
			&m.Failed, &m.WrongGuesses, &peer, &playedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if !m.Failed {
			if m.Outcome, err = protocol.ParseOutcome(outcome.String); err != nil {
				return nil, fmt.Errorf("match %s: %w", m.ID, err)
			}
			if m.Reason, err = protocol.ParseReason(reason.String); err != nil {
				return nil, fmt.Errorf("match %s: %w", m.ID, err)
			}
		}
		m.Peer = peer.String
		m.PlayedAt = time.UnixMilli(playedAt).UTC()
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Tally counts wins and losses per role.
type Tally struct {
	Role   string
	Wins   int
	Losses int
}

// Totals aggregates the history by role.
func (s *Store) Totals(ctx context.Context) ([]Tally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role,
			SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'lose' THEN 1 ELSE 0 END)
		FROM matches
		WHERE failed = FALSE
		GROUP BY role
		ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("match totals: %w", err)
	}
	defer rows.Close()

	var out []Tally
	for rows.Next() {
		var t Tally
		if err := rows.Scan(&t.Role, &t.Wins, &t.Losses); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
