// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// defaultHashDims keeps offline vectors small; collections bound to a
// hash model store 4*32 bytes per record.
const defaultHashDims = 32

// Hash is a deterministic offline embedding model: text is embedded as
// a hashed bag of words, binary input as hashed byte trigrams. It
// exists so the engine can run and be tested without network models;
// two equal inputs always produce the identical vector.
type Hash struct {
	dims int
}

var _ Model = (*Hash)(nil)

// NewHash creates a hash model with the given dimensionality
// (defaulting when dims <= 0).
func NewHash(dims int) *Hash {
	if dims <= 0 {
		dims = defaultHashDims
	}
	return &Hash{dims: dims}
}

func (h *Hash) ID() string           { return fmt.Sprintf("hash-%d", h.dims) }
func (h *Hash) Dimensions() int      { return h.dims }
func (h *Hash) BatchSize() int       { return 0 }
func (h *Hash) SupportsText() bool   { return true }
func (h *Hash) SupportsBinary() bool { return true }

// Embed returns the deterministic vector for one input.
func (h *Hash) Embed(_ context.Context, in Input) ([]float32, error) {
	vec := make([]float32, h.dims)
	if in.IsBinary() {
		h.accumulateTrigrams(vec, in.Data)
	} else {
		for _, tok := range strings.Fields(strings.ToLower(in.Text)) {
			vec[h.bucket([]byte(tok))]++
		}
	}
	return vec, nil
}

// EmbedBatch embeds each input independently; there is no remote call
// to amortize.
func (h *Hash) EmbedBatch(ctx context.Context, ins []Input) ([][]float32, error) {
	vecs := make([][]float32, len(ins))
	for i, in := range ins {
		v, err := h.Embed(ctx, in)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (h *Hash) accumulateTrigrams(vec []float32, data []byte) {
	if len(data) == 0 {
		return
	}
	if len(data) < 3 {
		vec[h.bucket(data)]++
		return
	}
	for i := 0; i+3 <= len(data); i++ {
		vec[h.bucket(data[i:i+3])]++
	}
}

func (h *Hash) bucket(b []byte) int {
	f := fnv.New32a()
	_, _ = f.Write(b)
	return int(f.Sum32() % uint32(h.dims))
}
