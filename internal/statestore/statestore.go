// Package statestore implements the atomic state-file read-modify-write
// cycle of spec.md §4.6: an exclusive advisory lock on a sidecar `.lock`
// file, a `.bak` backup written before every mutation, and a
// temp-file-plus-rename write so a crash mid-write never corrupts the
// live file. Reads auto-restore from the backup on parse failure.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/rawblock/boar-agent/pkg/models"
)

// Store guards one state file with one lock sidecar.
type Store struct {
	path string
	lock *flock.Flock
}

// New returns a Store for the state file at path. The lock sidecar
// lives next to it as path+".lock".
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Read loads the current state under a shared lock, falling back to
// the `.bak` copy if the live file is missing or fails to parse.
func (s *Store) Read() (models.State, error) {
	if err := s.lock.RLock(); err != nil {
		return models.State{}, fmt.Errorf("statestore: acquire read lock: %w", err)
	}
	defer s.lock.Unlock()

	state, err := readJSON(s.path)
	if err == nil {
		return state, nil
	}

	backup, backupErr := readJSON(s.backupPath())
	if backupErr != nil {
		return models.State{}, fmt.Errorf("statestore: read %s failed (%v) and backup %s failed (%v)", s.path, err, s.backupPath(), backupErr)
	}
	return backup, nil
}

// Write persists state atomically: backup the current file, write the
// new content to a temp file, then rename over the original — all
// under an exclusive lock, so a concurrent Read either sees the old or
// the new content in full, never a partial write.
func (s *Store) Write(state models.State) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("statestore: acquire write lock: %w", err)
	}
	defer s.lock.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		if err := copyFile(s.path, s.backupPath()); err != nil {
			return fmt.Errorf("statestore: backup before write: %w", err)
		}
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("statestore: marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("statestore: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("statestore: rename temp file over state file: %w", err)
	}
	return nil
}

func (s *Store) backupPath() string {
	return s.path + ".bak"
}

func readJSON(path string) (models.State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.State{}, err
	}
	var state models.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.State{}, err
	}
	return state, nil
}

func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0o600)
}
