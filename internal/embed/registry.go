// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package embed

import (
	"sort"
	"sync"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Registry maps stable model IDs to Model implementations. Lookup is
// goroutine-safe; registration normally happens once during startup.
type Registry struct {
	mu     sync.RWMutex
	models map[string]Model
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Register adds a model under its own ID, replacing any previous
// registration with the same ID.
func (r *Registry) Register(m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.ID()] = m
}

// Get returns the model registered under id.
func (r *Registry) Get(id string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return nil, quiverr.New(quiverr.CodeEmbedModelNotFound,
			"unknown embedding model "+id, quiverr.FieldModel(id))
	}
	return m, nil
}

// IDs returns the registered model IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
