// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

// Package sqlite implements store.CollectionStore backed by SQLite.
package sqlite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
	"github.com/quiver-dev/quiver/internal/vector"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// Compile-time interface check.
var _ store.CollectionStore = (*CollectionStore)(nil)

// CollectionStore implements store.CollectionStore backed by SQLite.
// Embedding vectors are stored as header-free little-endian float32
// blobs; similarity queries decode and brute-force rank them in Go.
type CollectionStore struct {
	db     *sql.DB
	models *embed.Registry
	logger *slog.Logger
}

// New opens (or creates) a SQLite database at dbPath and initialises
// the collections and embeddings tables. Embedding models referenced
// by stored collections are resolved through models.
func New(dbPath string, models *embed.Registry) (*CollectionStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "migrating collection tables: %w", err)
	}

	return &CollectionStore{db: db, models: models, logger: slog.Default()}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS collections (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT NOT NULL UNIQUE,
	model TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS embeddings (
	collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	id            TEXT NOT NULL,
	embedding     BLOB NOT NULL,
	content       TEXT,
	content_blob  BLOB,
	content_hash  BLOB,
	metadata      TEXT,
	updated       TEXT NOT NULL,
	PRIMARY KEY (collection_id, id)
);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *CollectionStore) Close() error {
	return s.db.Close()
}

// Get returns an existing collection by name.
func (s *CollectionStore) Get(ctx context.Context, name string) (*store.Collection, error) {
	const q = `SELECT id, name, model FROM collections WHERE name = ?`

	var col store.Collection
	err := s.db.QueryRowContext(ctx, q, name).Scan(&col.ID, &col.Name, &col.ModelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quiverr.New(quiverr.CodeStoreCollectionNotFound,
				"collection "+name+" not found", quiverr.FieldCollection(name))
		}
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "getting collection %s: %w", name, err)
	}
	return &col, nil
}

// GetOrCreate returns the named collection, creating it bound to
// modelID when absent. An existing collection bound to a different
// model is a conflict; the binding never changes after creation.
func (s *CollectionStore) GetOrCreate(ctx context.Context, name, modelID string) (*store.Collection, error) {
	col, err := s.Get(ctx, name)
	if err == nil {
		if col.ModelID != modelID {
			return nil, quiverr.New(quiverr.CodeStoreModelMismatch,
				"collection "+name+" is bound to model "+col.ModelID+", not "+modelID,
				quiverr.FieldCollection(name), quiverr.FieldModel(modelID))
		}
		return col, nil
	}
	if !quiverr.IsNotFound(err) {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO collections (name, model) VALUES (?, ?)`, name, modelID)
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "creating collection %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "reading collection id for %s: %w", name, err)
	}

	return &store.Collection{ID: id, Name: name, ModelID: modelID}, nil
}

// Exists reports whether a collection with the given name exists.
func (s *CollectionStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Get(ctx, name)
	if err == nil {
		return true, nil
	}
	if quiverr.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// List returns all collections ordered by name.
func (s *CollectionStore) List(ctx context.Context) ([]*store.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, model FROM collections ORDER BY name`)
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "listing collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []*store.Collection
	for rows.Next() {
		var col store.Collection
		if err := rows.Scan(&col.ID, &col.Name, &col.ModelID); err != nil {
			return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "scanning collection: %w", err)
		}
		cols = append(cols, &col)
	}
	if err := rows.Err(); err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "iterating collections: %w", err)
	}
	return cols, nil
}

// Delete removes the collection row and all its embedding records in
// one transaction. Any error aborts with no partial state change.
func (s *CollectionStore) Delete(ctx context.Context, name string) error {
	col, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings WHERE collection_id = ?`, col.ID); err != nil {
		return quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "deleting records of %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, col.ID); err != nil {
		return quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "deleting collection %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "committing delete of %s: %w", name, err)
	}
	return nil
}

// Count returns the number of records stored in the collection.
func (s *CollectionStore) Count(ctx context.Context, name string) (int, error) {
	col, err := s.Get(ctx, name)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings WHERE collection_id = ?`, col.ID).Scan(&n)
	if err != nil {
		return 0, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "counting records of %s: %w", name, err)
	}
	return n, nil
}

// boundModel resolves a collection and the live model it is bound to.
func (s *CollectionStore) boundModel(ctx context.Context, name string) (*store.Collection, embed.Model, error) {
	col, err := s.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.models.Get(col.ModelID)
	if err != nil {
		return nil, nil, quiverr.With(err, quiverr.FieldCollection(name))
	}
	return col, m, nil
}

// Embed computes the vector for in with the collection's bound model
// and upserts the record. When the stored content hash for (collection,
// id) matches the new input, the stored vector is reused and no model
// call happens.
func (s *CollectionStore) Embed(ctx context.Context, collection, id string, in embed.Input, metadata map[string]any, opts store.EmbedOptions) error {
	col, m, err := s.boundModel(ctx, collection)
	if err != nil {
		return err
	}
	if err := embed.CheckInput(m, in); err != nil {
		return err
	}

	hash := hashInput(in)

	var vec []float32
	if prior, ok, err := s.storedRecord(ctx, col.ID, id); err != nil {
		return err
	} else if ok && bytes.Equal(prior.hash, hash) {
		vec, err = vector.Decode(prior.blob)
		if err != nil {
			// A corrupt stored blob is not fatal; recompute below.
			s.logger.WarnContext(ctx, "stored embedding undecodable, recomputing",
				"collection", collection, "id", id, "error", err)
			vec = nil
		}
	}

	if vec == nil {
		vec, err = m.Embed(ctx, in)
		if err != nil {
			return err
		}
	}
	if err := checkDims(m, vec); err != nil {
		return err
	}

	if err := s.upsertRecord(ctx, s.db, col.ID, store.Entry{ID: id, Input: in, Metadata: metadata},
		vec, hash, opts.StoreContent, time.Now()); err != nil {
		return quiverr.With(err, quiverr.FieldCollection(collection), quiverr.FieldRecordID(id))
	}
	return nil
}

// EmbedMulti consumes entries in batches of
// embed.EffectiveBatchSize(model, opts.BatchSize). Each batch is one
// model call and one transaction; a failed batch persists nothing,
// batches committed before it remain. The context is checked at batch
// boundaries so cancellation never loses committed work.
func (s *CollectionStore) EmbedMulti(ctx context.Context, collection string, entries iter.Seq2[store.Entry, error], opts store.MultiOptions) (store.MultiResult, error) {
	var res store.MultiResult

	col, m, err := s.boundModel(ctx, collection)
	if err != nil {
		return res, err
	}
	size := embed.EffectiveBatchSize(m, opts.BatchSize)

	next, stop := iter.Pull2(entries)
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return res, quiverr.Wrapf(err, quiverr.CodeEmbedBatchFailure,
				"ingestion into %s cancelled", collection)
		}

		batch := make([]store.Entry, 0, size)
		done := false
		var srcErr error
		for len(batch) < size {
			e, eErr, ok := next()
			if !ok {
				done = true
				break
			}
			if eErr != nil {
				srcErr = eErr
				break
			}
			batch = append(batch, e)
		}
		if srcErr != nil {
			// The partial batch is discarded: a broken source should
			// not half-commit, mirroring batch atomicity on the embed
			// side. Prior batches stay committed.
			return res, quiverr.Wrapf(srcErr, quiverr.CodeIngestSourceInvalid,
				"reading entries for %s", collection)
		}

		if len(batch) > 0 {
			stored, reused, err := s.embedBatch(ctx, col, m, batch, opts)
			if err != nil {
				return res, err
			}
			res.Stored += stored
			res.Reused += reused
		}

		if done {
			return res, nil
		}
	}
}

// embedBatch embeds one batch and commits it as a unit.
func (s *CollectionStore) embedBatch(ctx context.Context, col *store.Collection, m embed.Model, batch []store.Entry, opts store.MultiOptions) (stored, reused int, err error) {
	ids := make([]string, len(batch))
	hashes := make([][]byte, len(batch))
	for i, e := range batch {
		if err := embed.CheckInput(m, e.Input); err != nil {
			return 0, 0, quiverr.With(err, quiverr.FieldRecordID(e.ID))
		}
		ids[i] = e.ID
		hashes[i] = hashInput(e.Input)
	}

	prior, err := s.storedRecords(ctx, col.ID, ids)
	if err != nil {
		return 0, 0, err
	}

	// Entries whose content hash is unchanged keep their stored
	// vector; only the rest go to the model.
	vecs := make([][]float32, len(batch))
	var computeIdx []int
	var computeIns []embed.Input
	for i, e := range batch {
		if p, ok := prior[e.ID]; ok && bytes.Equal(p.hash, hashes[i]) {
			if v, decErr := vector.Decode(p.blob); decErr == nil && len(v) > 0 {
				vecs[i] = v
				continue
			}
		}
		computeIdx = append(computeIdx, i)
		computeIns = append(computeIns, e.Input)
	}

	if len(computeIns) > 0 {
		out, err := m.EmbedBatch(ctx, computeIns)
		if err != nil {
			return 0, 0, quiverr.Wrapf(err, quiverr.CodeEmbedBatchFailure,
				"embedding batch of %d for %s", len(computeIns), col.Name)
		}
		if len(out) != len(computeIns) {
			return 0, 0, quiverr.Errorf(quiverr.CodeEmbedBatchFailure,
				"model %s returned %d vectors for %d inputs", m.ID(), len(out), len(computeIns))
		}
		for j, i := range computeIdx {
			if err := checkDims(m, out[j]); err != nil {
				return 0, 0, err
			}
			vecs[i] = out[j]
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "beginning batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for i, e := range batch {
		if err := s.upsertRecord(ctx, tx, col.ID, e, vecs[i], hashes[i], opts.StoreContent, now); err != nil {
			return 0, 0, quiverr.With(err, quiverr.FieldCollection(col.Name), quiverr.FieldRecordID(e.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "committing batch for %s: %w", col.Name, err)
	}
	return len(computeIdx), len(batch) - len(computeIdx), nil
}

// execer abstracts *sql.DB and *sql.Tx for upserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *CollectionStore) upsertRecord(ctx context.Context, db execer, collectionID int64, e store.Entry, vec []float32, hash []byte, storeContent bool, now time.Time) error {
	var content sql.NullString
	var contentBlob []byte
	if storeContent {
		if e.Input.IsBinary() {
			contentBlob = e.Input.Data
		} else {
			content = sql.NullString{String: e.Input.Text, Valid: true}
		}
	}

	var metaJSON sql.NullString
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return quiverr.Errorf(quiverr.CodeStoreInvalidInput, "marshalling metadata for %s: %w", e.ID, err)
		}
		metaJSON = sql.NullString{String: string(b), Valid: true}
	}

	const q = `INSERT INTO embeddings (collection_id, id, embedding, content, content_blob, content_hash, metadata, updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(collection_id, id) DO UPDATE SET
	embedding = excluded.embedding,
	content = excluded.content,
	content_blob = excluded.content_blob,
	content_hash = excluded.content_hash,
	metadata = excluded.metadata,
	updated = excluded.updated`

	_, err := db.ExecContext(ctx, q,
		collectionID, e.ID, vector.Encode(vec), content, contentBlob, hash, metaJSON, formatTime(now))
	if err != nil {
		return quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "upserting record %s: %w", e.ID, err)
	}
	return nil
}

type priorRecord struct {
	hash []byte
	blob []byte
}

func (s *CollectionStore) storedRecord(ctx context.Context, collectionID int64, id string) (priorRecord, bool, error) {
	const q = `SELECT content_hash, embedding FROM embeddings WHERE collection_id = ? AND id = ?`

	var p priorRecord
	err := s.db.QueryRowContext(ctx, q, collectionID, id).Scan(&p.hash, &p.blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return priorRecord{}, false, nil
		}
		return priorRecord{}, false, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "reading record %s: %w", id, err)
	}
	return p, true, nil
}

func (s *CollectionStore) storedRecords(ctx context.Context, collectionID int64, ids []string) (map[string]priorRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, 1+len(ids))
	args = append(args, collectionID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content_hash, embedding FROM embeddings WHERE collection_id = ? AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "reading stored hashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prior := make(map[string]priorRecord)
	for rows.Next() {
		var id string
		var p priorRecord
		if err := rows.Scan(&id, &p.hash, &p.blob); err != nil {
			return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "scanning stored hash: %w", err)
		}
		prior[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "iterating stored hashes: %w", err)
	}
	return prior, nil
}

// GetRecord returns one stored record with its decoded vector.
func (s *CollectionStore) GetRecord(ctx context.Context, collection, id string) (*store.Record, error) {
	col, err := s.Get(ctx, collection)
	if err != nil {
		return nil, err
	}

	const q = `SELECT embedding, content, content_blob, content_hash, metadata, updated
FROM embeddings WHERE collection_id = ? AND id = ?`

	var blob, contentBlob, hash []byte
	var content, metaJSON sql.NullString
	var updated string
	err = s.db.QueryRowContext(ctx, q, col.ID, id).Scan(&blob, &content, &contentBlob, &hash, &metaJSON, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quiverr.New(quiverr.CodeStoreRecordNotFound,
				"record "+id+" not found in "+collection,
				quiverr.FieldCollection(collection), quiverr.FieldRecordID(id))
		}
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "reading record %s: %w", id, err)
	}

	vec, err := vector.Decode(blob)
	if err != nil {
		return nil, quiverr.With(err, quiverr.FieldCollection(collection), quiverr.FieldRecordID(id))
	}

	rec := &store.Record{
		CollectionID: col.ID,
		ID:           id,
		Embedding:    vec,
		ContentBlob:  contentBlob,
		ContentHash:  hash,
		Updated:      parseTime(updated),
	}
	if content.Valid {
		c := content.String
		rec.Content = &c
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &rec.Metadata); err != nil {
			return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "unmarshalling metadata of %s: %w", id, err)
		}
	}
	return rec, nil
}

// Similar embeds queryText with the collection's bound model and ranks
// every stored record against it.
func (s *CollectionStore) Similar(ctx context.Context, collection, queryText string, n int) ([]store.Result, error) {
	col, m, err := s.boundModel(ctx, collection)
	if err != nil {
		return nil, err
	}
	in := embed.TextInput(queryText)
	if err := embed.CheckInput(m, in); err != nil {
		return nil, err
	}
	vec, err := m.Embed(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.similarByVector(ctx, col, vec, n, "")
}

// SimilarByID ranks against the stored vector of id, excluding the
// record itself from the results.
func (s *CollectionStore) SimilarByID(ctx context.Context, collection, id string, n int) ([]store.Result, error) {
	col, err := s.Get(ctx, collection)
	if err != nil {
		return nil, err
	}

	var blob []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT embedding FROM embeddings WHERE collection_id = ? AND id = ?`, col.ID, id).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quiverr.New(quiverr.CodeStoreRecordNotFound,
				"record "+id+" not found in "+collection,
				quiverr.FieldCollection(collection), quiverr.FieldRecordID(id))
		}
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "reading record %s: %w", id, err)
	}

	vec, err := vector.Decode(blob)
	if err != nil {
		return nil, quiverr.With(err, quiverr.FieldCollection(collection), quiverr.FieldRecordID(id))
	}
	return s.similarByVector(ctx, col, vec, n, id)
}

// SimilarByVector ranks every stored record against vec; a non-empty
// skipID is excluded from the results.
func (s *CollectionStore) SimilarByVector(ctx context.Context, collection string, vec []float32, n int, skipID string) ([]store.Result, error) {
	col, err := s.Get(ctx, collection)
	if err != nil {
		return nil, err
	}
	return s.similarByVector(ctx, col, vec, n, skipID)
}

// similarByVector is the brute-force scan: every record in the
// collection is decoded and cosine-scored against the query. Cost is
// O(records * dimensionality) per query; that ceiling is a deliberate
// property of this store, which carries no index.
func (s *CollectionStore) similarByVector(ctx context.Context, col *store.Collection, vec []float32, n int, skipID string) ([]store.Result, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, embedding, content, metadata FROM embeddings WHERE collection_id = ?`, col.ID)
	if err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "scanning records of %s: %w", col.Name, err)
	}
	defer func() { _ = rows.Close() }()

	type rowData struct {
		content  sql.NullString
		metaJSON sql.NullString
	}

	var candidates []vector.Candidate
	byID := make(map[string]rowData)
	for rows.Next() {
		var id string
		var blob []byte
		var rd rowData
		if err := rows.Scan(&id, &blob, &rd.content, &rd.metaJSON); err != nil {
			return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "scanning record: %w", err)
		}
		v, err := vector.Decode(blob)
		if err != nil {
			return nil, quiverr.With(err, quiverr.FieldCollection(col.Name), quiverr.FieldRecordID(id))
		}
		candidates = append(candidates, vector.Candidate{ID: id, Vector: v})
		byID[id] = rd
	}
	if err := rows.Err(); err != nil {
		return nil, quiverr.Errorf(quiverr.CodeStoreDatabaseFailure, "iterating records of %s: %w", col.Name, err)
	}

	top, err := vector.TopK(vec, candidates, n, skipID)
	if err != nil {
		return nil, quiverr.With(err, quiverr.FieldCollection(col.Name))
	}

	results := make([]store.Result, 0, len(top))
	for _, t := range top {
		r := store.Result{ID: t.ID, Score: t.Score}
		rd := byID[t.ID]
		if rd.content.Valid {
			c := rd.content.String
			r.Content = &c
		}
		if rd.metaJSON.Valid && rd.metaJSON.String != "" {
			if err := json.Unmarshal([]byte(rd.metaJSON.String), &r.Metadata); err != nil {
				s.logger.WarnContext(ctx, "skipping corrupt record metadata",
					"collection", col.Name, "id", t.ID, "error", err)
			}
		}
		results = append(results, r)
	}
	return results, nil
}

func hashInput(in embed.Input) []byte {
	sum := sha256.Sum256(in.Bytes())
	return sum[:]
}

func checkDims(m embed.Model, vec []float32) error {
	if d := m.Dimensions(); d > 0 && len(vec) != d {
		return quiverr.Errorf(quiverr.CodeStoreInvalidInput,
			"model %s produced %d dimensions, expected %d", m.ID(), len(vec), d)
	}
	return nil
}

// formatTime serialises a time.Time to RFC3339 in UTC.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
