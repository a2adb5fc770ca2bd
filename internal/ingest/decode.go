// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package ingest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"

	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// DefaultEncodings is the decode chain used when the caller supplies
// none. ISO-8859-1 maps every byte sequence to text, so default runs
// never fail on decoding.
var DefaultEncodings = []string{"utf-8", "iso-8859-1"}

// decodeText tries each encoding in order and returns the first
// successful decode. UTF-8 is validated strictly; other encodings are
// resolved by their WHATWG names. When every configured encoding
// fails, the error carries the ingest.decode.exhausted code so callers
// can skip the item instead of aborting the run.
func decodeText(b []byte, encodings []string) (string, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	for _, name := range encodings {
		switch strings.ToLower(name) {
		case "utf-8", "utf8":
			if utf8.Valid(b) {
				return string(b), nil
			}
		default:
			enc, err := htmlindex.Get(name)
			if err != nil {
				return "", quiverr.Errorf(quiverr.CodeConfigValidateInvalidValue,
					"unknown encoding %q: %w", name, err)
			}
			out, err := enc.NewDecoder().Bytes(b)
			if err == nil {
				return string(out), nil
			}
		}
	}

	return "", quiverr.Errorf(quiverr.CodeIngestDecodeExhausted,
		"no configured encoding (%s) could decode input", strings.Join(encodings, ", "))
}
