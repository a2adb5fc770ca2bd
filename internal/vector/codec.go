// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package vector implements the binary embedding codec and the
// brute-force similarity scoring used by the collection store.
//
// The wire format is a header-free sequence of little-endian IEEE-754
// float32 values, 4 bytes per value. Any consumer that independently
// knows the dimensionality can decode a blob without metadata.
package vector

import (
	"encoding/binary"
	"math"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// elemWidth is the encoded size of one vector element in bytes.
const elemWidth = 4

// Encode serializes a float32 vector into its BLOB representation:
// little-endian float32 values with no header, length, or delimiter.
// len(Encode(v)) == 4*len(v).
func Encode(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	b := make([]byte, len(values)*elemWidth)
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*elemWidth:], math.Float32bits(v))
	}
	return b
}

// Decode is the inverse of Encode. It fails with a
// vector.decode.malformed error when the blob length is not a
// multiple of the element width. Round trips are bit-exact.
func Decode(b []byte) ([]float32, error) {
	if len(b)%elemWidth != 0 {
		return nil, quiverr.Errorf(quiverr.CodeVectorMalformed,
			"embedding blob length %d is not a multiple of %d", len(b), elemWidth)
	}
	if len(b) == 0 {
		return nil, nil
	}
	vec := make([]float32, len(b)/elemWidth)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*elemWidth:]))
	}
	return vec, nil
}
