package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"weekplan/internal/calendar"
	"weekplan/internal/planner"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.SetNowFunc(func() time.Time {
		return time.Date(2026, 6, 3, 12, 0, 0, 0, time.Local)
	})
	return s
}

func sampleState() planner.State {
	rec := planner.NewWeekRecord()
	rec.Template[calendar.Monday] = []planner.Task{
		{ID: "task_1", Text: "Go to gym", Category: planner.CategoryGym},
	}
	rec.Completions[calendar.Monday] = []string{"task_1"}
	return planner.State{
		Weeks:              map[calendar.WeekID]*planner.WeekRecord{"2026-23": rec},
		CurrentWeekID:      "2026-23",
		ActiveWeekID:       "2026-23",
		CurrentDayName:     calendar.Wednesday,
		Streak:             3,
		LastCompletionDate: "2026-06-03",
	}
}

func TestLoadState_MissingFile(t *testing.T) {
	s := newTestStorage(t)

	state, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if state != nil {
		t.Errorf("expected nil state on first run, got %+v", state)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s := newTestStorage(t)
	want := sampleState()

	if err := s.SaveState(want); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	got, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got == nil {
		t.Fatal("LoadState() returned nil state")
	}

	if got.CurrentWeekID != want.CurrentWeekID ||
		got.ActiveWeekID != want.ActiveWeekID ||
		got.CurrentDayName != want.CurrentDayName ||
		got.Streak != want.Streak ||
		got.LastCompletionDate != want.LastCompletionDate {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
	rec := got.Weeks["2026-23"]
	if rec == nil {
		t.Fatal("week record lost in round trip")
	}
	if len(rec.Template[calendar.Monday]) != 1 || rec.Template[calendar.Monday][0].Text != "Go to gym" {
		t.Errorf("template mismatch: %+v", rec.Template[calendar.Monday])
	}
	if len(rec.Completions[calendar.Monday]) != 1 || rec.Completions[calendar.Monday][0] != "task_1" {
		t.Errorf("completions mismatch: %+v", rec.Completions[calendar.Monday])
	}
}

func TestSaveState_KeepsBackup(t *testing.T) {
	s := newTestStorage(t)

	first := sampleState()
	if err := s.SaveState(first); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	second := first
	second.Streak = 9
	if err := s.SaveState(second); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	bak, err := os.ReadFile(s.StatePath() + ".bak")
	if err != nil {
		t.Fatalf("no backup written: %v", err)
	}
	if !strings.Contains(string(bak), `"streak": 3`) {
		t.Error("backup should hold the previous snapshot")
	}
}

func TestLoadState_CorruptRecoversFromBackup(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveState(sampleState()); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	updated := sampleState()
	updated.Streak = 7
	if err := s.SaveState(updated); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	if err := os.WriteFile(s.StatePath(), []byte("{not json"), dataFilePerm); err != nil {
		t.Fatal(err)
	}

	state, err := s.LoadState()
	if err == nil {
		t.Error("LoadState() should report the recovery")
	}
	if state == nil {
		t.Fatal("LoadState() should return the backup state")
	}
	if state.Streak != 7 {
		t.Errorf("recovered streak = %d, want 7 (from .bak)", state.Streak)
	}

	// The broken file must be preserved, not silently gone.
	matches, _ := filepath.Glob(s.StatePath() + ".corrupt.*")
	if len(matches) != 1 {
		t.Errorf("expected one .corrupt file, found %v", matches)
	}
}

func TestLoadState_CorruptWithoutBackup(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{{{{"},
		{"empty", ""},
		{"whitespace", "   \n\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t)
			if err := os.WriteFile(s.StatePath(), []byte(tt.content), dataFilePerm); err != nil {
				t.Fatal(err)
			}

			state, err := s.LoadState()
			if err == nil {
				t.Error("LoadState() should report the corruption")
			}
			if state != nil {
				t.Errorf("expected nil state, got %+v", state)
			}
			matches, _ := filepath.Glob(s.StatePath() + ".corrupt.*")
			if len(matches) != 1 {
				t.Errorf("expected one .corrupt file, found %v", matches)
			}
		})
	}
}

func TestLoadState_StaleBackupIgnoredWhenAlsoCorrupt(t *testing.T) {
	s := newTestStorage(t)

	if err := os.WriteFile(s.StatePath(), []byte("broken"), dataFilePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.StatePath()+".bak", []byte("also broken"), dataFilePerm); err != nil {
		t.Fatal(err)
	}

	state, err := s.LoadState()
	if err == nil {
		t.Error("LoadState() should report the corruption")
	}
	if state != nil {
		t.Errorf("expected nil state when both copies are broken, got %+v", state)
	}
}
