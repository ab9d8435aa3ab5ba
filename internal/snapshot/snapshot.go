// internal/snapshot/snapshot.go
//
// JSON persistence for parser snapshots and analyzed engine state. The
// snapshot is the handoff format between the model parser and this
// engine; the state dump lets tooling inspect results without re-running
// the pipeline.

package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sitecast/erector/internal/method"
	"github.com/sitecast/erector/internal/method/engine"
	"github.com/sitecast/erector/internal/model"
)

// ErrSnapshotNotFound reports a missing snapshot or state file.
var ErrSnapshotNotFound = errors.New("snapshot: file not found")

// LoadModel reads and validates a parser snapshot.
func LoadModel(path string) (model.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Input{}, fmt.Errorf("snapshot: %s: %w", path, ErrSnapshotNotFound)
		}
		return model.Input{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var input model.Input
	if err := json.Unmarshal(data, &input); err != nil {
		return model.Input{}, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	if err := input.Validate(); err != nil {
		return model.Input{}, fmt.Errorf("snapshot: %s: %w", path, err)
	}
	return input, nil
}

// SaveModel writes a snapshot, creating parent directories as needed.
func SaveModel(path string, input model.Input) error {
	encoded, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode model %s: %w", input.ModelID, err)
	}
	return writeFile(path, encoded)
}

// State is one model's analyzed output, frozen for inspection.
type State struct {
	SavedAt time.Time      `json:"saved_at"`
	ModelID string         `json:"model_id,omitempty"`
	Summary engine.Summary `json:"summary"`
	Zones   []method.Zone  `json:"zones"`
	Stages  []method.Stage `json:"stages"`
}

// StateOf captures an engine's current results.
func StateOf(e *engine.Engine, at time.Time) State {
	return State{
		SavedAt: at,
		ModelID: e.ModelID(),
		Summary: e.Summary(),
		Zones:   e.Zones(),
		Stages:  e.Stages(),
	}
}

// SaveState writes analyzed results for later inspection.
func SaveState(path string, state State) error {
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode state %s: %w", state.ModelID, err)
	}
	return writeFile(path, encoded)
}

// LoadState reads a state dump back.
func LoadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, fmt.Errorf("snapshot: %s: %w", path, ErrSnapshotNotFound)
		}
		return State{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return state, nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}
