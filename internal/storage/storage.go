package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"weekplan/internal/fsutil"
	"weekplan/internal/planner"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	// StateFile is the single snapshot holding the entire planner state.
	StateFile = "planner.json"
)

// Storage handles reading and writing the planner snapshot. All writes go
// through an atomic temp-file-and-rename with a best-effort .bak, and all
// reads recover from corruption instead of failing the program.
type Storage struct {
	dataDir string
	onSave  func(filename string)
	now     func() time.Time
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Storage{dataDir: dataDir, now: time.Now}, nil
}

// SetNowFunc overrides the clock used for corrupt-file timestamps.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// SetOnSave registers a callback invoked after each successful save.
func (s *Storage) SetOnSave(fn func(filename string)) {
	s.onSave = fn
}

// DataDir returns the path to the data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// StatePath returns the full path of the snapshot file.
func (s *Storage) StatePath() string {
	return filepath.Join(s.dataDir, StateFile)
}

// LoadState reads the planner snapshot from disk.
//
// A missing file returns (nil, nil): first run. A corrupt file is
// recovered from the .bak when possible; otherwise the broken file is
// preserved under a .corrupt suffix and (nil, err) is returned, where the
// error describes what happened and nil tells the caller to start fresh.
func (s *Storage) LoadState() (*planner.State, error) {
	path := s.StatePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", StateFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recover(fmt.Errorf("%s is empty", StateFile))
	}

	var state planner.State
	if err := json.Unmarshal(data, &state); err != nil {
		return s.recover(fmt.Errorf("parse %s: %w", StateFile, err))
	}
	return &state, nil
}

// SaveState writes the planner snapshot to disk, keeping a .bak of the
// previous contents.
func (s *Storage) SaveState(state planner.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", StateFile, err)
	}

	path := s.StatePath()
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", StateFile, err)
	}

	if s.onSave != nil {
		s.onSave(StateFile)
	}
	return nil
}

// recover handles an unreadable snapshot: try the .bak, and whatever
// happens move the broken file aside so nothing overwrites the evidence.
func (s *Storage) recover(cause error) (*planner.State, error) {
	path := s.StatePath()
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.now().Format("20060102-150405"))

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		var state planner.State
		if err := json.Unmarshal(bakData, &state); err == nil {
			_ = os.Rename(path, corruptPath)
			return &state, fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), StateFile)
		}
	}

	_ = os.Rename(path, corruptPath)
	return nil, fmt.Errorf("%s (starting fresh; original moved to %s)", cause.Error(), corruptPath)
}
