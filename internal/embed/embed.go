// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package embed defines the embedding-model capability interface the
// store depends on, a registry of interchangeable models, and the
// concrete remote and offline implementations.
package embed

import (
	"context"
	"iter"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// DefaultBatchSize bounds how many inputs are embedded per model call
// when neither the caller nor the model asks for less.
const DefaultBatchSize = 100

// Input is a single item to embed: either text or raw bytes.
// A nil Data slice marks text input.
type Input struct {
	Text string
	Data []byte
}

// TextInput wraps a string for the text embedding path.
func TextInput(s string) Input {
	return Input{Text: s}
}

// BinaryInput wraps raw bytes for the binary embedding path.
func BinaryInput(b []byte) Input {
	if b == nil {
		b = []byte{}
	}
	return Input{Data: b}
}

// IsBinary reports whether the input routes through the binary path.
func (in Input) IsBinary() bool {
	return in.Data != nil
}

// Bytes returns the raw content of the input, used for content hashing.
func (in Input) Bytes() []byte {
	if in.IsBinary() {
		return in.Data
	}
	return []byte(in.Text)
}

// Model is the capability interface for an embedding model. Concrete
// models are interchangeable behind it; the store never depends on a
// specific implementation.
type Model interface {
	// ID is the stable model identifier persisted with collections.
	ID() string

	// Dimensions is the fixed length of vectors this model produces.
	Dimensions() int

	// BatchSize is the model's preferred number of inputs per
	// EmbedBatch call. Zero means no preference.
	BatchSize() int

	SupportsText() bool
	SupportsBinary() bool

	// Embed returns the vector for a single input.
	Embed(ctx context.Context, in Input) ([]float32, error)

	// EmbedBatch returns one vector per input, same length and order.
	EmbedBatch(ctx context.Context, ins []Input) ([][]float32, error)
}

// CheckInput verifies that the model supports the input's kind and
// fails with an embed.input.unsupported error otherwise. Callers must
// check before dispatching so unsupported input fails fast instead of
// surfacing as an opaque upstream error.
func CheckInput(m Model, in Input) error {
	if in.IsBinary() && !m.SupportsBinary() {
		return quiverr.New(quiverr.CodeEmbedInputUnsupported,
			"model does not accept binary input", quiverr.FieldModel(m.ID()))
	}
	if !in.IsBinary() && !m.SupportsText() {
		return quiverr.New(quiverr.CodeEmbedInputUnsupported,
			"model does not accept text input", quiverr.FieldModel(m.ID()))
	}
	return nil
}

// EffectiveBatchSize resolves the batch size for bulk embedding:
// the caller's size (default DefaultBatchSize when zero or negative),
// clamped down to the model's preferred size when that is smaller.
func EffectiveBatchSize(m Model, requested int) int {
	size := requested
	if size <= 0 {
		size = DefaultBatchSize
	}
	if pref := m.BatchSize(); pref > 0 && pref < size {
		size = pref
	}
	return size
}

// Stream lazily embeds inputs, yielding one vector per input in order.
// Inputs are dispatched to the model in batches of
// EffectiveBatchSize(m, batchSize), so at most one batch of vectors is
// held in memory at a time. The sequence is a single-use forward
// iterator: once an error is yielded or the inputs are exhausted it
// terminates, and it must not be ranged over twice.
func Stream(ctx context.Context, m Model, inputs []Input, batchSize int) iter.Seq2[[]float32, error] {
	size := EffectiveBatchSize(m, batchSize)

	return func(yield func([]float32, error) bool) {
		for start := 0; start < len(inputs); start += size {
			if err := ctx.Err(); err != nil {
				yield(nil, quiverr.Wrapf(err, quiverr.CodeEmbedBatchFailure, "embedding cancelled"))
				return
			}

			end := min(start+size, len(inputs))
			batch := inputs[start:end]
			for _, in := range batch {
				if err := CheckInput(m, in); err != nil {
					yield(nil, err)
					return
				}
			}

			vecs, err := m.EmbedBatch(ctx, batch)
			if err != nil {
				yield(nil, quiverr.Wrapf(err, quiverr.CodeEmbedBatchFailure,
					"embedding batch of %d", len(batch)))
				return
			}
			if len(vecs) != len(batch) {
				yield(nil, quiverr.Errorf(quiverr.CodeEmbedBatchFailure,
					"model %s returned %d vectors for %d inputs", m.ID(), len(vecs), len(batch)))
				return
			}

			for _, v := range vecs {
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}
