package session

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m, err := NewManager(time.Hour)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	t.Cleanup(m.Stop)
	return m
}

func TestFileStateRoundTrip(t *testing.T) {
	m := newTestManager(t)

	state := FileState{Cursor: 12, Anchor: 4, ScrollX: 3, GridRows: 20, GridCols: 20}
	m.SetFileState("/tmp/draft.txt", state)
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// A fresh manager reading the same state dir sees the saved state.
	m2, err := NewManager(time.Hour)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	defer m2.Stop()

	got, ok := m2.GetFileState("/tmp/draft.txt")
	if !ok {
		t.Fatalf("GetFileState: state missing after reload")
	}
	if got != state {
		t.Fatalf("FileState = %+v, want %+v", got, state)
	}
	if m2.GetActiveFile() != "/tmp/draft.txt" {
		t.Fatalf("ActiveFile = %q, want %q", m2.GetActiveFile(), "/tmp/draft.txt")
	}
}

func TestDailyCountIgnoresDeletions(t *testing.T) {
	m := newTestManager(t)

	m.AddDailyCount("2026-08-30", 120)
	m.AddDailyCount("2026-08-30", -40)
	m.AddDailyCount("2026-08-30", 30)

	if got := m.DailyCount("2026-08-30"); got != 150 {
		t.Fatalf("DailyCount = %d, want 150", got)
	}
	if got := m.DailyCount("2026-08-29"); got != 0 {
		t.Fatalf("DailyCount for empty day = %d, want 0", got)
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	m := newTestManager(t)

	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	before := m.session.LastSaved

	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if m.session.LastSaved != before {
		t.Fatalf("clean Save rewrote the session")
	}
}
