// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store/sqlite"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// testDir creates a temp directory for a test and returns cleanup func.
func testDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "quiver-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// testDBPath returns a temp SQLite database path.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testDir(t), name+".db")
}

// newTestStore opens a store over a fresh database with the given
// models registered.
func newTestStore(t *testing.T, name string, models ...embed.Model) *sqlite.CollectionStore {
	t.Helper()
	reg := embed.NewRegistry()
	for _, m := range models {
		reg.Register(m)
	}
	st, err := sqlite.New(testDBPath(t, name), reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// stubModel maps known texts to fixed vectors so similarity tests can
// assert exact rankings. EmbedBatch calls are counted, and the model
// can be scripted to fail after N successful calls.
type stubModel struct {
	id        string
	dims      int
	vecs      map[string][]float32
	calls     int
	failAfter int // fail once this many EmbedBatch calls succeeded; 0 never fails
}

var _ embed.Model = (*stubModel)(nil)

func (m *stubModel) ID() string           { return m.id }
func (m *stubModel) Dimensions() int      { return m.dims }
func (m *stubModel) BatchSize() int       { return 0 }
func (m *stubModel) SupportsText() bool   { return true }
func (m *stubModel) SupportsBinary() bool { return false }

func (m *stubModel) Embed(ctx context.Context, in embed.Input) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []embed.Input{in})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *stubModel) EmbedBatch(_ context.Context, ins []embed.Input) ([][]float32, error) {
	if m.failAfter > 0 && m.calls >= m.failAfter {
		return nil, quiverr.New(quiverr.CodeEmbedUpstreamFailure, "scripted upstream failure")
	}
	m.calls++

	vecs := make([][]float32, len(ins))
	for i, in := range ins {
		v, ok := m.vecs[in.Text]
		if !ok {
			return nil, quiverr.Errorf(quiverr.CodeEmbedUpstreamFailure, "no scripted vector for %q", in.Text)
		}
		vecs[i] = v
	}
	return vecs, nil
}

// animalModel returns a stub with a small scripted vocabulary used by
// the similarity tests.
func animalModel() *stubModel {
	return &stubModel{
		id:   "stub-3",
		dims: 3,
		vecs: map[string][]float32{
			"dog":   {1, 0, 0},
			"hound": {0.9, 0.1, 0},
			"cat":   {0.1, 0.9, 0},
			"car":   {0, 0, 1},
		},
	}
}
