package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"weekplan/internal/config"
	"weekplan/internal/planner"
	"weekplan/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is the frozen clock used across UI tests: a Wednesday in week
// 2026-23.
var testNow = time.Date(2026, time.June, 3, 12, 0, 0, 0, time.Local)

// errTest is a sentinel for failure-path assertions.
var errTest = errors.New("boom")

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage instance with a temporary directory.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newFrozenEngine returns an engine pinned to testNow with sequential ids.
func newFrozenEngine() *planner.Engine {
	engine := planner.New()
	engine.SetNowFunc(func() time.Time { return testNow })
	seq := 0
	engine.SetIDFunc(func() string {
		seq++
		return string(rune('a'+seq-1)) + "-test-id"
	})
	return engine
}

// keyRune builds a KeyMsg for a single printable character.
func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// keyEnter and keyEsc are the common special keys used in tests.
var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

// runCmd executes a command and returns the resulting message, following
// one level of batching.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// goldenPath returns the path to a golden file in the testdata directory.
func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// updateGolden checks if the update flag is set for updating golden files.
var updateGolden = os.Getenv("UPDATE_GOLDEN") == "1"

// assertGolden compares output against a golden file.
// If UPDATE_GOLDEN=1 is set, it updates the golden file instead. A
// missing golden file is written on the first run so a fresh checkout
// bootstraps itself.
func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()

	path := goldenPath(name)

	expected, err := os.ReadFile(path)
	if updateGolden || os.IsNotExist(err) {
		// Create testdata directory if it doesn't exist
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		t.Logf("Updated golden file: %s", path)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nRun with UPDATE_GOLDEN=1 to recreate it", path, err)
	}

	if actual != string(expected) {
		t.Errorf("output mismatch for %s\n\nGot:\n%s\n\nWant:\n%s", name, actual, string(expected))
	}
}

// findStatus digs a statusMsg out of a command result, looking inside
// batches.
func findStatus(t *testing.T, cmd tea.Cmd) (statusMsg, bool) {
	t.Helper()
	msg := runCmd(cmd)
	switch msg := msg.(type) {
	case statusMsg:
		return msg, true
	case tea.BatchMsg:
		for _, sub := range msg {
			if status, ok := runCmd(sub).(statusMsg); ok {
				return status, true
			}
		}
	}
	return statusMsg{}, false
}
