// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func TestCollections_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "collections", animalModel())

	col, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)
	assert.Equal(t, "animals", col.Name)
	assert.Equal(t, "stub-3", col.ModelID)

	// Second call returns the same collection.
	again, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)
	assert.Equal(t, col.ID, again.ID)

	ok, err := st.Exists(ctx, "animals")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Exists(ctx, "minerals")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollections_ModelBindingIsImmutable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "binding", animalModel(), embed.NewHash(8))

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	_, err = st.GetOrCreate(ctx, "animals", "hash-8")
	require.Error(t, err)
	assert.True(t, quiverr.IsConflict(err))
	assert.Equal(t, quiverr.CodeStoreModelMismatch, quiverr.CodeOf(err))
}

func TestCollections_GetNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "notfound", animalModel())

	_, err := st.Get(ctx, "nope")
	require.Error(t, err)
	assert.True(t, quiverr.IsNotFound(err))
}

func TestCollections_List(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "list", animalModel())

	for _, name := range []string{"zoo", "aquarium", "farm"} {
		_, err := st.GetOrCreate(ctx, name, "stub-3")
		require.NoError(t, err)
	}

	cols, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "aquarium", cols[0].Name)
	assert.Equal(t, "farm", cols[1].Name)
	assert.Equal(t, "zoo", cols[2].Name)
}

func TestEmbed_StoreAndSearch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "search", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	err = st.Embed(ctx, "animals", "hound", embed.TextInput("hound"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	err = st.Embed(ctx, "animals", "cat", embed.TextInput("cat"), nil, store.EmbedOptions{})
	require.NoError(t, err)

	n, err := st.Count(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := st.Similar(ctx, "animals", "dog", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "hound", results[0].ID)
	assert.Equal(t, "cat", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Less(t, results[0].Score, 1.0)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestEmbed_UpsertRefreshesRecord(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "upsert", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	err = st.Embed(ctx, "animals", "pet", embed.TextInput("cat"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	first, err := st.GetRecord(ctx, "animals", "pet")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	// Re-embedding the same ID with new content overwrites the vector
	// and refreshes the timestamp.
	err = st.Embed(ctx, "animals", "pet", embed.TextInput("hound"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	second, err := st.GetRecord(ctx, "animals", "pet")
	require.NoError(t, err)

	assert.NotEqual(t, first.Embedding, second.Embedding)
	assert.True(t, second.Updated.After(first.Updated))

	n, err := st.Count(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEmbed_UnchangedContentReusesVector(t *testing.T) {
	ctx := context.Background()
	m := animalModel()
	st := newTestStore(t, "dedup", m)

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	err = st.Embed(ctx, "animals", "d1", embed.TextInput("dog"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, m.calls)

	// Same content again: no model call, vector reused.
	err = st.Embed(ctx, "animals", "d1", embed.TextInput("dog"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, m.calls)

	// Changed content goes back to the model.
	err = st.Embed(ctx, "animals", "d1", embed.TextInput("hound"), nil, store.EmbedOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, m.calls)
}

func TestEmbed_StoreContent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "content", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	err = st.Embed(ctx, "animals", "kept", embed.TextInput("dog"),
		map[string]any{"kind": "canine"}, store.EmbedOptions{StoreContent: true})
	require.NoError(t, err)
	err = st.Embed(ctx, "animals", "dropped", embed.TextInput("cat"), nil, store.EmbedOptions{})
	require.NoError(t, err)

	kept, err := st.GetRecord(ctx, "animals", "kept")
	require.NoError(t, err)
	require.NotNil(t, kept.Content)
	assert.Equal(t, "dog", *kept.Content)
	assert.Equal(t, map[string]any{"kind": "canine"}, kept.Metadata)

	dropped, err := st.GetRecord(ctx, "animals", "dropped")
	require.NoError(t, err)
	assert.Nil(t, dropped.Content)
}

func TestEmbed_UnsupportedInputKind(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "unsupported", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	err = st.Embed(ctx, "animals", "blob", embed.BinaryInput([]byte{1, 2}), nil, store.EmbedOptions{})
	require.Error(t, err)
	assert.True(t, quiverr.IsUnsupported(err))
}

func TestEmbed_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "unknown", animalModel())

	err := st.Embed(ctx, "ghost", "id", embed.TextInput("dog"), nil, store.EmbedOptions{})
	require.Error(t, err)
	assert.True(t, quiverr.IsNotFound(err))
}

func TestSimilarByID_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "byid", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	for _, id := range []string{"dog", "hound", "cat"} {
		err = st.Embed(ctx, "animals", id, embed.TextInput(id), nil, store.EmbedOptions{})
		require.NoError(t, err)
	}

	results, err := st.SimilarByID(ctx, "animals", "dog", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "hound", results[0].ID)
	for _, r := range results {
		assert.NotEqual(t, "dog", r.ID)
	}
}

func TestSimilarByID_RecordNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "byid-missing", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	_, err = st.SimilarByID(ctx, "animals", "ghost", 0)
	require.Error(t, err)
	assert.True(t, quiverr.IsNotFound(err))
	assert.Equal(t, quiverr.CodeStoreRecordNotFound, quiverr.CodeOf(err))
}

func TestSimilarByVector(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "byvec", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)

	for _, id := range []string{"hound", "cat", "car"} {
		err = st.Embed(ctx, "animals", id, embed.TextInput(id), nil, store.EmbedOptions{})
		require.NoError(t, err)
	}

	results, err := st.SimilarByVector(ctx, "animals", []float32{0.1, 0.95, 0}, 2, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cat", results[0].ID)
}

func TestSimilar_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	m := &stubModel{id: "stub-2", dims: 2, vecs: map[string][]float32{"q": {1, 0}}}
	for i := range 15 {
		m.vecs[string(rune('a'+i))] = []float32{1, float32(i) / 100}
	}
	st := newTestStore(t, "limit", m)

	_, err := st.GetOrCreate(ctx, "many", "stub-2")
	require.NoError(t, err)
	for i := range 15 {
		id := string(rune('a' + i))
		err = st.Embed(ctx, "many", id, embed.TextInput(id), nil, store.EmbedOptions{})
		require.NoError(t, err)
	}

	results, err := st.Similar(ctx, "many", "q", 0)
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestDelete_RemovesRecords(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "delete", animalModel())

	_, err := st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)
	err = st.Embed(ctx, "animals", "dog", embed.TextInput("dog"), nil, store.EmbedOptions{})
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, "animals"))

	ok, err := st.Exists(ctx, "animals")
	require.NoError(t, err)
	assert.False(t, ok)

	// Recreating the collection starts empty and may bind a new model.
	_, err = st.GetOrCreate(ctx, "animals", "stub-3")
	require.NoError(t, err)
	n, err := st.Count(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "delete-missing", animalModel())

	err := st.Delete(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, quiverr.IsNotFound(err))
}
