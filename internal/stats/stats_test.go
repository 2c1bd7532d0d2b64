package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/netgallows/netgallows/internal/protocol"
)

func TestNewStore_DefaultDirRespectsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_STATE_HOME", base)

	s := NewStore("", "host")
	if want := filepath.Join(base, appDirName); s.Dir() != want {
		t.Errorf("Dir() = %q, want %q", s.Dir(), want)
	}
	if want := filepath.Join(base, appDirName, "record-host.json"); s.Path() != want {
		t.Errorf("Path() = %q, want %q", s.Path(), want)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir(), "host")

	r, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if r.Version != recordVersion {
		t.Errorf("Version = %d, want %d", r.Version, recordVersion)
	}
	if r.ByReason == nil {
		t.Error("ByReason should be initialized")
	}
	if r.Played != 0 {
		t.Errorf("Played = %d, want 0", r.Played)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := NewStore(dir, "host")

	r := newRecord()
	r.Apply(protocol.LocalGuessComplete)
	r.Apply(protocol.PeerReportedLoss)
	r.Apply(protocol.PeerReportedWin)
	if err := s.Save(r); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Played != 3 || got.Wins != 2 || got.Losses != 1 {
		t.Errorf("got played=%d wins=%d losses=%d, want 3/2/1", got.Played, got.Wins, got.Losses)
	}
	if got.BestStreak != 2 || got.CurrentStreak != 0 {
		t.Errorf("streak current=%d best=%d, want 0/2", got.CurrentStreak, got.BestStreak)
	}
	if got.ByReason["peer_reported_win"] != 1 {
		t.Errorf("ByReason = %v", got.ByReason)
	}
	if got.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set by Save")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the record file, found %d entries", len(entries))
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName("host")), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(dir, "host").Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore(t.TempDir(), "host")
	for i := 0; i < 3; i++ {
		if _, err := s.Update(func(r *Record) { r.Apply(protocol.LocalGuessComplete) }); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
	}
	r, err := s.Update(func(r *Record) { r.Apply(protocol.LocalForfeit) })
	if err != nil {
		t.Fatal(err)
	}
	if r.Wins != 3 || r.Losses != 1 || r.Forfeits != 1 {
		t.Errorf("wins=%d losses=%d forfeits=%d", r.Wins, r.Losses, r.Forfeits)
	}
	if r.BestStreak != 3 || r.CurrentStreak != 0 {
		t.Errorf("streak current=%d best=%d", r.CurrentStreak, r.BestStreak)
	}
}

func TestRecord_ApplyFailureKeepsStreak(t *testing.T) {
	r := newRecord()
	r.Apply(protocol.LocalGuessComplete)
	r.ApplyFailure()
	r.Apply(protocol.PeerReportedLoss)

	if r.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", r.CurrentStreak)
	}
	if r.Played != 3 || r.Failures != 1 {
		t.Errorf("played=%d failures=%d", r.Played, r.Failures)
	}
}

func TestRecord_WinRate(t *testing.T) {
	r := newRecord()
	if r.WinRate() != 0 {
		t.Errorf("empty WinRate = %v", r.WinRate())
	}
	r.Apply(protocol.LocalGuessComplete)
	r.Apply(protocol.LocalGuessesExhausted)
	r.ApplyFailure()
	if got := r.WinRate(); got != 0.5 {
		t.Errorf("WinRate = %v, want 0.5", got)
	}
}

// Host and join on one machine share the state directory.
func TestStore_RolesKeepSeparateRecords(t *testing.T) {
	dir := t.TempDir()
	host, join := NewStore(dir, "host"), NewStore(dir, "join")
	if host.Path() == join.Path() {
		t.Fatalf("roles share %s", host.Path())
	}

	if _, err := host.Update(func(r *Record) { r.Apply(protocol.LocalGuessComplete) }); err != nil {
		t.Fatal(err)
	}
	if _, err := join.Update(func(r *Record) { r.Apply(protocol.PeerReportedWin) }); err != nil {
		t.Fatal(err)
	}

	h, err := host.Load()
	if err != nil {
		t.Fatal(err)
	}
	j, err := join.Load()
	if err != nil {
		t.Fatal(err)
	}
	if h.Wins != 1 || h.Losses != 0 {
		t.Errorf("host record = %dW %dL, want 1W 0L", h.Wins, h.Losses)
	}
	if j.Wins != 0 || j.Losses != 1 {
		t.Errorf("join record = %dW %dL, want 0W 1L", j.Wins, j.Losses)
	}

	all := Combine(h, j)
	if all.Played != 2 || all.Wins != 1 || all.Losses != 1 || all.BestStreak != 1 {
		t.Errorf("combined = %+v", all)
	}
	if all.ByReason["local_guess_complete"] != 1 || all.ByReason["peer_reported_win"] != 1 {
		t.Errorf("combined reasons = %v", all.ByReason)
	}
}
