package doctree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// layout writes files (relative path -> content) under root.
func layout(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := New(t.TempDir())
	require.NoError(t, err)
	return tree
}

func TestNew(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = New(file)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestTree_Materialize(t *testing.T) {
	tree := newTree(t)
	layout(t, tree.Root, map[string]string{"v1.2.3/stale.html": "old"})

	out := t.TempDir()
	layout(t, out, map[string]string{
		"index.html":               "new index",
		"guide/install/index.html": "install",
	})
	require.NoError(t, os.Symlink("index.html", filepath.Join(out, "home.html")))

	require.NoError(t, tree.Materialize("v1.2.3", out))

	require.Equal(t, "new index", read(t, filepath.Join(tree.Root, "v1.2.3", "index.html")))
	require.Equal(t, "install", read(t, filepath.Join(tree.Root, "v1.2.3", "guide", "install", "index.html")))
	require.NoFileExists(t, filepath.Join(tree.Root, "v1.2.3", "stale.html"), "stale output is cleaned first")
	link, err := os.Readlink(filepath.Join(tree.Root, "v1.2.3", "home.html"))
	require.NoError(t, err)
	require.Equal(t, "index.html", link)
}

func TestTree_MaterializeMissingOutput(t *testing.T) {
	tree := newTree(t)
	err := tree.Materialize("v1", filepath.Join(t.TempDir(), "nope"))
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	ce, _ := errors.AsClassified(err)
	path, _ := ce.Context().GetString("path")
	require.Contains(t, path, "nope")
}

func TestTree_RejectsBadVersionNames(t *testing.T) {
	tree := newTree(t)
	for _, v := range []string{"", ".", "..", "a/b", `a\b`} {
		require.True(t, errors.HasCategory(tree.Clean(v), errors.CategoryValidation), v)
	}
}

func TestTree_Marker(t *testing.T) {
	tree := newTree(t)
	got, err := tree.ReadMarker()
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, tree.WriteMarker("v1.2.4"))
	got, err = tree.ReadMarker()
	require.NoError(t, err)
	require.Equal(t, "v1.2.4", got)
	_, recorded, err := tree.PromotedEntries()
	require.NoError(t, err)
	require.False(t, recorded)

	require.NoError(t, tree.WriteMarker("v1.2.5", "guide", "index.html"))
	got, err = tree.ReadMarker()
	require.NoError(t, err)
	require.Equal(t, "v1.2.5", got)
	entries, recorded, err := tree.PromotedEntries()
	require.NoError(t, err)
	require.True(t, recorded)
	require.Equal(t, map[string]bool{"guide": true, "index.html": true}, entries)
}
