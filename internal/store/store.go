// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package store defines the collection store: persistent, named groups
// of ID->vector records, each collection bound to one embedding model
// for its lifetime.
package store

import (
	"context"
	"iter"

	"github.com/quiver-dev/quiver/internal/embed"
)

// CollectionStore owns the persisted embedding records. Ingestion and
// similarity search go through these operations only; nothing else
// touches the underlying storage.
//
// Writers follow a single-writer-per-collection discipline: Embed and
// EmbedMulti calls against the same collection must not interleave.
// Reads may run concurrently with each other and with writes and
// observe either the pre- or post-write state of any record.
type CollectionStore interface {
	// GetOrCreate returns the collection named name, creating it bound
	// to modelID if absent. If the collection exists with a different
	// bound model, the call fails with a model-conflict error. The
	// binding is immutable for the collection's lifetime.
	GetOrCreate(ctx context.Context, name, modelID string) (*Collection, error)

	// Get returns an existing collection or a not-found error.
	Get(ctx context.Context, name string) (*Collection, error)

	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*Collection, error)

	// Delete removes the collection and all its records transactionally.
	Delete(ctx context.Context, name string) error

	Count(ctx context.Context, name string) (int, error)

	// Embed computes the input's vector with the collection's bound
	// model and upserts the record under id. Re-embedding an existing
	// (collection, id) overwrites the prior record and refreshes its
	// updated timestamp. When the stored content hash matches the new
	// input, the stored vector is reused without a model call.
	Embed(ctx context.Context, collection, id string, in embed.Input, metadata map[string]any, opts EmbedOptions) error

	// EmbedMulti consumes a stream of entries in batches. Each batch
	// is embedded in one model call and committed in one transaction:
	// a failed batch persists nothing, previously committed batches
	// remain. Cancellation is honored at batch boundaries.
	EmbedMulti(ctx context.Context, collection string, entries iter.Seq2[Entry, error], opts MultiOptions) (MultiResult, error)

	// Similar embeds queryText with the bound model and ranks every
	// stored record against it.
	Similar(ctx context.Context, collection, queryText string, n int) ([]Result, error)

	// SimilarByID ranks against the stored vector of id, excluding id
	// itself from the results.
	SimilarByID(ctx context.Context, collection, id string, n int) ([]Result, error)

	// SimilarByVector ranks every stored record against vec. A
	// non-empty skipID is excluded from the results.
	SimilarByVector(ctx context.Context, collection string, vec []float32, n int, skipID string) ([]Result, error)

	Close() error
}
