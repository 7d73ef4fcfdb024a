package dropdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/doctree"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

const page = `<html><body><div class="sd-text-center"><select class="version-select"></select></div></body></html>`

func siteTree(t *testing.T) *doctree.Tree {
	t.Helper()
	tree, err := doctree.New(t.TempDir())
	require.NoError(t, err)
	for _, name := range []string{
		"index.html",
		"guide/index.html",
		"v1/index.html",
		"v1/guide/index.html",
		"master/guide/index.html",
	} {
		full := filepath.Join(tree.Root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(page), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(tree.Root, "plain.html"), []byte("<p>bare</p>"), 0o600))
	return tree
}

func newRewriter(tree *doctree.Tree) *Rewriter {
	resolver := versionpath.Resolver{DocRoot: tree.Root, Latest: "v2", Trim: versionpath.TrimLegacy}
	reserved := map[string]bool{"master": true, "v2": true, "v1": true}
	return NewRewriter(tree, resolver, []string{"master", "v2", "v1"}, reserved)
}

func optionsIn(t *testing.T, path string) []renderedOption {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	sels := selectors(t, data)
	require.Len(t, sels, 1)
	return optionsOf(sels[0])
}

func TestRewriter_PromotedVersion(t *testing.T) {
	tree := siteTree(t)

	res, err := newRewriter(tree).Rewrite(context.Background(), "v2")
	require.NoError(t, err)
	require.Equal(t, 2, res.Rewritten)
	require.Equal(t, 1, res.Unplaced)

	require.Equal(t, []renderedOption{
		{value: "../master/guide/", label: "master"},
		{value: "guide/", label: "latest(v2)", selected: true},
		{value: "../v1/guide/", label: "v1"},
	}, optionsIn(t, filepath.Join(tree.Root, "guide", "index.html")))

	require.Equal(t, []renderedOption{
		{value: "master/", label: "master"},
		{value: "", label: "latest(v2)", selected: true},
		{value: "v1/", label: "v1"},
	}, optionsIn(t, filepath.Join(tree.Root, "index.html")))

	untouched, err := os.ReadFile(filepath.Join(tree.Root, "v1", "index.html"))
	require.NoError(t, err)
	require.Equal(t, page, string(untouched), "nested versions are not part of the promoted one")
}

func TestRewriter_NestedVersion(t *testing.T) {
	tree := siteTree(t)

	res, err := newRewriter(tree).Rewrite(context.Background(), "v1")
	require.NoError(t, err)
	require.Equal(t, 2, res.Rewritten)

	require.Equal(t, []renderedOption{
		{value: "../../master/guide/", label: "master"},
		{value: "../../guide/", label: "latest(v2)"},
		{value: "v1/guide/", label: "v1", selected: true},
	}, optionsIn(t, filepath.Join(tree.Root, "v1", "guide", "index.html")))

	untouched, err := os.ReadFile(filepath.Join(tree.Root, "index.html"))
	require.NoError(t, err)
	require.Equal(t, page, string(untouched))
}

func TestRewriter_SuffixTrim(t *testing.T) {
	tree := siteTree(t)
	r := newRewriter(tree)
	r.resolver.Trim = versionpath.TrimSuffix

	_, err := r.Rewrite(context.Background(), "master")
	require.NoError(t, err)
	require.Equal(t, []renderedOption{
		{value: "master/guide/", label: "master", selected: true},
		{value: "../../guide/", label: "latest(v2)"},
		{value: "../../v1/guide/", label: "v1"},
	}, optionsIn(t, filepath.Join(tree.Root, "master", "guide", "index.html")))
}

func TestRewriter_PromotedVersionLeavesRetiredFolders(t *testing.T) {
	tree, err := doctree.New(t.TempDir())
	require.NoError(t, err)
	for _, name := range []string{
		"v1.2.5/index.html",
		"v1.2.4/index.html",
		"v1.2.3/index.html",
		"master/index.html",
		"v1.2.2/guide/index.html",
	} {
		full := filepath.Join(tree.Root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(page), 0o600))
	}
	_, err = tree.Promote("v1.2.5")
	require.NoError(t, err)

	versions := []string{"master", "v1.2.5", "v1.2.4", "v1.2.3"}
	reserved := map[string]bool{"master": true, "v1.2.5": true, "v1.2.4": true, "v1.2.3": true}
	resolver := versionpath.Resolver{DocRoot: tree.Root, Latest: "v1.2.5", Trim: versionpath.TrimLegacy}
	res, err := NewRewriter(tree, resolver, versions, reserved).Rewrite(context.Background(), "v1.2.5")
	require.NoError(t, err)
	require.Equal(t, 1, res.Rewritten)
	require.Zero(t, res.Unplaced)

	retired, err := os.ReadFile(filepath.Join(tree.Root, "v1.2.2", "guide", "index.html"))
	require.NoError(t, err)
	require.Equal(t, page, string(retired))
}

func TestRewriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRewriter(siteTree(t)).Rewrite(ctx, "v1")
	require.ErrorIs(t, err, context.Canceled)
}
