// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"embed", "embed-multi", "vector", "similar", "collections", "models", "serve", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "quiver")
}

func TestEmbedAndSimilarCmd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	run := func(args ...string) (string, error) {
		root := NewRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append(args, "--database", db))
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("embed", "notes", "first", "alpha bravo charlie")
	require.NoError(t, err, out)
	assert.Contains(t, out, "embedded notes/first")

	out, err = run("embed", "notes", "second", "delta echo foxtrot")
	require.NoError(t, err, out)

	out, err = run("collections", "count", "notes")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2")

	out, err = run("similar", "notes", "alpha", "bravo")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"id":"first"`)

	out, err = run("collections", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "hash-32")

	out, err = run("collections", "delete", "notes")
	require.NoError(t, err, out)

	_, err = run("collections", "count", "notes")
	require.Error(t, err)
}

func TestVectorCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"vector", "hello world"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "[")
}
