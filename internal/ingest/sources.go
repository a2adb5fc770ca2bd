// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package ingest

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Source is a lazy stream of entries. Sources never load the whole
// input into memory; a yielded error aborts the run.
type Source = iter.Seq2[store.Entry, error]

// FromCSV streams delimiter-separated rows: the first row is a header
// and is consumed, the first column of every following row is the item
// ID and the remaining columns joined by a single space are the
// content.
func FromCSV(r io.Reader, delim rune) Source {
	return func(yield func(store.Entry, error) bool) {
		cr := csv.NewReader(r)
		cr.Comma = delim
		cr.FieldsPerRecord = -1

		// Header row.
		if _, err := cr.Read(); err != nil {
			if !errors.Is(err, io.EOF) {
				yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "reading header row"))
			}
			return
		}

		for {
			row, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "reading row"))
				return
			}
			if len(row) == 0 {
				continue
			}
			e := store.Entry{
				ID:    row[0],
				Input: embed.TextInput(strings.Join(row[1:], " ")),
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// FromJSON streams a JSON array of objects. The "id" member is the
// item ID; "content" is the content when present, otherwise the
// remaining members are concatenated in key order.
func FromJSON(r io.Reader) Source {
	return func(yield func(store.Entry, error) bool) {
		dec := json.NewDecoder(r)

		tok, err := dec.Token()
		if err != nil {
			yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "reading JSON array"))
			return
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			yield(store.Entry{}, quiverr.Errorf(quiverr.CodeIngestSourceInvalid, "expected a JSON array, got %v", tok))
			return
		}

		for dec.More() {
			var obj map[string]any
			if err := dec.Decode(&obj); err != nil {
				yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "decoding JSON object"))
				return
			}
			e, err := entryFromObject(obj)
			if err != nil {
				yield(store.Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// FromNDJSON streams newline-delimited JSON objects with the same
// member conventions as FromJSON.
func FromNDJSON(r io.Reader) Source {
	return func(yield func(store.Entry, error) bool) {
		dec := json.NewDecoder(r)
		for {
			var obj map[string]any
			err := dec.Decode(&obj)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "decoding JSON line"))
				return
			}
			e, err := entryFromObject(obj)
			if err != nil {
				yield(store.Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// FromSQLRows streams query-result rows: the first selected column is
// the item ID, the remaining columns joined by a single space are the
// content. The pipeline is agnostic to the query that produced the
// rows. The caller keeps ownership of rows and closes them.
func FromSQLRows(rows *sql.Rows) Source {
	return func(yield func(store.Entry, error) bool) {
		cols, err := rows.Columns()
		if err != nil {
			yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "reading row columns"))
			return
		}
		if len(cols) == 0 {
			yield(store.Entry{}, quiverr.New(quiverr.CodeIngestSourceInvalid, "query returned no columns"))
			return
		}

		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "scanning row"))
				return
			}

			parts := make([]string, 0, len(vals)-1)
			for _, v := range vals[1:] {
				parts = append(parts, stringify(v))
			}
			e := store.Entry{
				ID:    stringify(vals[0]),
				Input: embed.TextInput(strings.Join(parts, " ")),
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(store.Entry{}, quiverr.Wrapf(err, quiverr.CodeIngestSourceInvalid, "iterating rows"))
		}
	}
}

func entryFromObject(obj map[string]any) (store.Entry, error) {
	rawID, ok := obj["id"]
	if !ok {
		return store.Entry{}, quiverr.New(quiverr.CodeIngestSourceInvalid, `object has no "id" member`)
	}
	id := stringify(rawID)

	var content string
	if c, ok := obj["content"]; ok {
		content = stringify(c)
	} else {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if k != "id" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, stringify(obj[k]))
		}
		content = strings.Join(parts, " ")
	}

	return store.Entry{ID: id, Input: embed.TextInput(content)}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		// JSON numbers and sqlite integers read as floats; trim the
		// decimal point for whole values so IDs stay stable.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
