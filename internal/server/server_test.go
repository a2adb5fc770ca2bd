// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/server"
	"github.com/quiver-dev/quiver/internal/store/sqlite"
)

// newTestServer wires a server over a fresh store with the offline
// hash model registered.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	reg := embed.NewRegistry()
	reg.Register(embed.NewHash(8))

	dir, err := os.MkdirTemp("", "quiver-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	st, err := sqlite.New(filepath.Join(dir, "api.db"), reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	srv, err := server.New(server.Config{
		ListenAddr:   "127.0.0.1:0",
		DefaultModel: "hash-8",
	}, st)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestServer_EmbedCountSimilar(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	for _, id := range []string{"hound", "cat"} {
		w := doJSON(t, h, http.MethodPost, "/api/v1/collections/animals/embed", map[string]any{
			"id":            id,
			"content":       id + " is an animal",
			"store_content": true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := doJSON(t, h, http.MethodGet, "/api/v1/collections/animals/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, 2, count.Count)

	w = doJSON(t, h, http.MethodPost, "/api/v1/collections/animals/similar", map[string]any{
		"text": "hound is an animal",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Results []struct {
			ID      string  `json:"id"`
			Score   float64 `json:"score"`
			Content *string `json:"content"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "hound", out.Results[0].ID)
	require.NotNil(t, out.Results[0].Content)
	assert.Equal(t, "hound is an animal", *out.Results[0].Content)
}

func TestServer_ListAndDelete(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/collections/tmp/embed", map[string]any{
		"id": "x", "content": "ephemeral",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/v1/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Collections []struct {
			Name  string `json:"name"`
			Model string `json:"model"`
			Count int    `json:"count"`
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Collections, 1)
	assert.Equal(t, "tmp", list.Collections[0].Name)
	assert.Equal(t, "hash-8", list.Collections[0].Model)
	assert.Equal(t, 1, list.Collections[0].Count)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/collections/tmp", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/v1/collections/tmp/count", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_UnknownCollectionIs404(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/collections/ghost/count", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ModelConflictIs409(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/collections/bound/embed", map[string]any{
		"id": "a", "content": "first",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The collection is bound to hash-8; asking for another model is a
	// conflict, not a rebind.
	w = doJSON(t, h, http.MethodPost, "/api/v1/collections/bound/embed", map[string]any{
		"id": "b", "content": "second", "model": "hash-16",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestServer_SimilarRequiresExactlyOneQuery(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/v1/collections/animals/embed", map[string]any{
		"id": "a", "content": "something",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/v1/collections/animals/similar", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/collections/animals/similar", map[string]any{
		"text": "x", "id": "a",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_EmbedRequiresID(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/collections/animals/embed", map[string]any{
		"content": "no id",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_RequiresListenAddr(t *testing.T) {
	_, err := server.New(server.Config{}, nil)
	require.Error(t, err)
}
