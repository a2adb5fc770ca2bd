// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package vector

import (
	"math"
	"sort"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Cosine computes the cosine similarity between two vectors: the dot
// product divided by the product of magnitudes. 1 means identical
// direction, -1 opposite. Accumulation happens in float64.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, quiverr.Errorf(quiverr.CodeVectorScoreInvalid,
			"dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, quiverr.New(quiverr.CodeVectorScoreInvalid, "empty vectors")
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, quiverr.New(quiverr.CodeVectorScoreInvalid, "zero-magnitude vector")
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// Scored pairs a candidate ID with its similarity score.
type Scored struct {
	ID    string
	Score float64
}

// Candidate is one stored vector offered to TopK.
type Candidate struct {
	ID     string
	Vector []float32
}

// TopK brute-force ranks every candidate against query by cosine
// similarity and returns the best k, sorted by descending score with
// ties broken by ascending ID. A candidate whose ID equals skipID, or
// whose vector cannot be cosine-scored (zero magnitude), is excluded.
// A candidate with a mismatched dimensionality is an error.
//
// Cost is O(len(candidates) * dimensionality) per call. This is the
// documented scaling ceiling of the engine; there is no index.
func TopK(query []float32, candidates []Candidate, k int, skipID string) ([]Scored, error) {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if skipID != "" && c.ID == skipID {
			continue
		}
		if len(c.Vector) != len(query) {
			return nil, quiverr.Errorf(quiverr.CodeVectorScoreInvalid,
				"candidate %s dimension %d != query dimension %d", c.ID, len(c.Vector), len(query))
		}
		s, err := Cosine(query, c.Vector)
		if err != nil {
			// Zero-magnitude stored vectors have no direction to rank.
			if quiverr.IsInvalidInput(err) {
				continue
			}
			return nil, err
		}
		scored = append(scored, Scored{ID: c.ID, Score: s})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}
