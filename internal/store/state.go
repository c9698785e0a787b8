package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the latest playback status, persisted to .showcase/state.json so
// `showcase status` can report on a running or finished session.
type State struct {
	PID           int       `json:"pid"`
	SessionID     string    `json:"session_id,omitempty"`
	Demo          string    `json:"demo"`
	LoopIteration int       `json:"loop_iteration"`
	Revealed      int       `json:"revealed"`
	Total         int       `json:"total"`
	Passes        int       `json:"passes"`
	Phase         string    `json:"phase"`
	StartedAt     time.Time `json:"started_at"`
	LastOutputAt  time.Time `json:"last_output_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Running reports whether the state describes a session that has not
// finished.
func (s State) Running() bool {
	return !s.StartedAt.IsZero() && s.FinishedAt.IsZero()
}

// StateDirName is the directory, relative to the project root, that holds
// the state file and session logs.
const StateDirName = ".showcase"

const stateFileName = "state.json"

// LoadState reads .showcase/state.json in dir.
// Returns a zero State (not an error) if the file does not exist.
func LoadState(dir string) (State, error) {
	path := filepath.Join(dir, StateDirName, stateFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("store: read state: %w", err)
	}

	var s State
	if jsonErr := json.Unmarshal(data, &s); jsonErr != nil {
		return State{}, fmt.Errorf("store: parse state: %w", jsonErr)
	}
	return s, nil
}

// SaveState writes s to .showcase/state.json in dir, creating the directory
// if needed. The file is written to a temp file and renamed into place so
// readers never observe a partial write.
func SaveState(dir string, s State) error {
	stateDir := filepath.Join(dir, StateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("store: create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp state: %w", err)
	}
	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write state: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close state: %w", closeErr)
	}
	path := filepath.Join(stateDir, stateFileName)
	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: finalize state: %w", renameErr)
	}
	return nil
}
