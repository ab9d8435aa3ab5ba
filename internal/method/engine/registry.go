package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sitecast/erector/internal/model"
)

// ErrModelNotFound reports an unknown model ID in the registry.
var ErrModelNotFound = errors.New("engine: model not found")

// Registry owns engines keyed by model identifier, replacing hidden
// per-module caches with explicit load, invalidate and recompute
// operations. The registry itself is safe for concurrent use; access to
// any one engine must still be serialized by the caller.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]*Engine{}}
}

// Load builds, analyzes and installs an engine for the input, minting a
// model ID when the input carries none. Loading an ID again replaces the
// previous engine.
func (r *Registry) Load(input model.Input, opts ...Option) (*Engine, error) {
	if input.ModelID == "" {
		input.ModelID = uuid.NewString()
	}
	e, err := New(input, opts...)
	if err != nil {
		return nil, err
	}
	e.Analyze()

	r.mu.Lock()
	r.engines[e.ModelID()] = e
	r.mu.Unlock()
	return e, nil
}

// Get returns the engine for a loaded model.
func (r *Registry) Get(modelID string) (*Engine, error) {
	r.mu.RLock()
	e, ok := r.engines[modelID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("engine: model %s: %w", modelID, ErrModelNotFound)
	}
	return e, nil
}

// IDs returns the loaded model identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of loaded models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// Invalidate discards a loaded model, reporting whether one was present.
func (r *Registry) Invalidate(modelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.engines[modelID]
	delete(r.engines, modelID)
	return ok
}

// Recompute re-runs the full analysis for a loaded model, discarding any
// user edits to its zones and stages.
func (r *Registry) Recompute(modelID string) (Summary, error) {
	e, err := r.Get(modelID)
	if err != nil {
		return Summary{}, err
	}
	return e.Analyze(), nil
}
