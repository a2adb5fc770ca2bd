// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package store

import (
	"time"

	"github.com/quiver-dev/quiver/internal/embed"
)

// Collection is a named, model-bound group of embedding records.
// ModelID is set at creation and never mutated thereafter.
type Collection struct {
	ID      int64
	Name    string
	ModelID string
}

// Record is one stored embedding row.
type Record struct {
	CollectionID int64
	ID           string
	Embedding    []float32
	Content      *string
	ContentBlob  []byte
	ContentHash  []byte
	Metadata     map[string]any
	Updated      time.Time
}

// Entry is one item of a bulk-ingestion stream.
type Entry struct {
	ID       string
	Input    embed.Input
	Metadata map[string]any
}

// EmbedOptions controls a single-record embed.
type EmbedOptions struct {
	// StoreContent persists the original input alongside the vector.
	// When false, content columns stay unset but the content hash is
	// always recorded to support dedup.
	StoreContent bool
}

// MultiOptions controls bulk ingestion.
type MultiOptions struct {
	StoreContent bool
	// BatchSize caps items per batch; zero means the default (100),
	// clamped down to the model's preferred batch size when smaller.
	BatchSize int
}

// MultiResult reports what a bulk ingestion run persisted.
type MultiResult struct {
	// Stored counts records whose vectors were computed by the model.
	Stored int
	// Reused counts records whose stored content hash matched, so the
	// prior vector was kept without a model call.
	Reused int
}

// Result is one similarity-search hit. Content is nil when the record
// was stored without content.
type Result struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  *string        `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
