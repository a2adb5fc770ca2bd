// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package ingest normalizes heterogeneous bulk sources (delimited
// rows, JSON documents, query results, file trees) into batched calls
// against the collection store.
package ingest

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Options apply uniformly to every source kind.
type Options struct {
	// Prefix is prepended to every derived ID before storage.
	Prefix string
	// BatchSize caps items per committed batch (default 100, clamped
	// by the model's preferred batch size).
	BatchSize int
	// StoreContent persists the original content with each record.
	StoreContent bool
	// Binary routes content through the binary embedding path; the
	// collection's model must support binary input.
	Binary bool
	// Encodings is the ordered decode chain for file ingestion
	// (default DefaultEncodings).
	Encodings []string
}

// Skip reports one item that was left out of an otherwise successful
// run.
type Skip struct {
	ID     string
	Reason string
}

// Report summarises an ingestion run.
type Report struct {
	Stored  int
	Reused  int
	Skipped []Skip
}

// Pipeline feeds entry streams into a collection store.
type Pipeline struct {
	store  store.CollectionStore
	logger *slog.Logger
}

// New creates a Pipeline writing through st.
func New(st store.CollectionStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{store: st, logger: logger}
}

// Run ingests an arbitrary entry source into the collection. The
// prefix and binary options are applied to every entry; batching,
// dedup, and atomic commits happen in the store.
func (p *Pipeline) Run(ctx context.Context, collection string, src Source, opts Options) (*Report, error) {
	res, err := p.store.EmbedMulti(ctx, collection, p.transform(src, opts), store.MultiOptions{
		StoreContent: opts.StoreContent,
		BatchSize:    opts.BatchSize,
	})
	report := &Report{Stored: res.Stored, Reused: res.Reused}
	if err != nil {
		return report, err
	}
	return report, nil
}

// CSV ingests delimiter-separated rows (see FromCSV).
func (p *Pipeline) CSV(ctx context.Context, collection string, r io.Reader, delim rune, opts Options) (*Report, error) {
	return p.Run(ctx, collection, FromCSV(r, delim), opts)
}

// JSON ingests a JSON array of objects (see FromJSON).
func (p *Pipeline) JSON(ctx context.Context, collection string, r io.Reader, opts Options) (*Report, error) {
	return p.Run(ctx, collection, FromJSON(r), opts)
}

// NDJSON ingests newline-delimited JSON objects (see FromNDJSON).
func (p *Pipeline) NDJSON(ctx context.Context, collection string, r io.Reader, opts Options) (*Report, error) {
	return p.Run(ctx, collection, FromNDJSON(r), opts)
}

// SQLRows ingests query-result rows (see FromSQLRows).
func (p *Pipeline) SQLRows(ctx context.Context, collection string, rows *sql.Rows, opts Options) (*Report, error) {
	return p.Run(ctx, collection, FromSQLRows(rows), opts)
}

// Files walks root recursively and ingests every file matching
// pattern. The slash-separated path relative to root becomes the item
// ID and the file bytes become the content. pattern matches either the
// relative path or the base name; empty matches everything. A file
// that cannot be read, or whose text cannot be decoded by any
// configured encoding, is skipped and reported, never fatal to the
// run.
func (p *Pipeline) Files(ctx context.Context, collection, root, pattern string, opts Options) (*Report, error) {
	var skipped []Skip

	src := func(yield func(store.Entry, error) bool) {
		walkErr := filepath.WalkDir(root, func(fpath string, d fs.DirEntry, err error) error {
			if err != nil {
				if fpath == root {
					return err
				}
				p.logger.WarnContext(ctx, "skipping unreadable path", "path", fpath, "error", err)
				skipped = append(skipped, Skip{ID: fpath, Reason: err.Error()})
				return nil
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, fpath)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if !matchPattern(pattern, rel) {
				return nil
			}

			data, err := os.ReadFile(fpath)
			if err != nil {
				p.logger.WarnContext(ctx, "skipping unreadable file", "path", fpath, "error", err)
				skipped = append(skipped, Skip{ID: rel, Reason: err.Error()})
				return nil
			}

			var in embed.Input
			if opts.Binary {
				in = embed.BinaryInput(data)
			} else {
				text, err := decodeText(data, opts.Encodings)
				if err != nil {
					if !quiverr.IsExhausted(err) {
						return err
					}
					p.logger.WarnContext(ctx, "skipping undecodable file", "path", fpath, "error", err)
					skipped = append(skipped, Skip{ID: rel, Reason: err.Error()})
					return nil
				}
				in = embed.TextInput(text)
			}

			if !yield(store.Entry{ID: rel, Input: in}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			yield(store.Entry{}, quiverr.Wrapf(walkErr, quiverr.CodeIngestWalkFailure, "walking %s", root))
		}
	}

	report, err := p.Run(ctx, collection, src, opts)
	report.Skipped = append(report.Skipped, skipped...)
	return report, err
}

// transform applies the prefix and binary options to every entry.
func (p *Pipeline) transform(src Source, opts Options) Source {
	if opts.Prefix == "" && !opts.Binary {
		return src
	}
	return func(yield func(store.Entry, error) bool) {
		for e, err := range src {
			if err == nil {
				e.ID = opts.Prefix + e.ID
				if opts.Binary && !e.Input.IsBinary() {
					e.Input = embed.BinaryInput(e.Input.Bytes())
				}
			}
			if !yield(e, err) {
				return
			}
		}
	}
}

// matchPattern matches a file against the inclusion pattern by its
// slash-relative path first, then by its base name.
func matchPattern(pattern, rel string) bool {
	if pattern == "" {
		return true
	}
	if ok, err := path.Match(pattern, rel); err == nil && ok {
		return true
	}
	ok, err := path.Match(pattern, path.Base(rel))
	return err == nil && ok
}
