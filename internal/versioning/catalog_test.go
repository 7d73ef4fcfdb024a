package versioning

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

type stubLister struct {
	releases []string
	err      error
	gotRepo  string
	gotCount int
}

func (s *stubLister) ListReleases(_ context.Context, repo string, count int) ([]string, error) {
	s.gotRepo, s.gotCount = repo, count
	return s.releases, s.err
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog([]string{"v1.2.4", "v1.2.3"}, "master", true)
	require.NoError(t, err)

	require.Equal(t, "v1.2.4", c.Latest())
	require.Equal(t, []string{"master", "v1.2.4", "v1.2.3"}, c.DropdownOrder())
	require.Equal(t, 3, c.ScanLimit())
	require.True(t, c.IsTracked("master"))
	require.False(t, c.IsTracked("v1.0.0"))
	require.Equal(t, map[string]bool{"master": true, "v1.2.4": true, "v1.2.3": true}, c.VersionDirNames())
}

func TestNewCatalog_ExcludeDefault(t *testing.T) {
	c, err := NewCatalog([]string{"v1.2.4", "v1.2.3"}, "main", false)
	require.NoError(t, err)

	require.Equal(t, []string{"v1.2.4", "v1.2.3"}, c.DropdownOrder())
	require.Equal(t, 2, c.ScanLimit())
	require.False(t, c.IsTracked("main"))
	require.True(t, c.VersionDirNames()["main"], "default branch folder stays reserved")
}

func TestNewCatalog_IsImmutable(t *testing.T) {
	releases := []string{"v1.2.4", "v1.2.3"}
	c, err := NewCatalog(releases, "master", true)
	require.NoError(t, err)

	releases[0] = "mutated"
	c.Releases()[1] = "mutated"
	c.DropdownOrder()[0] = "mutated"

	require.Equal(t, []string{"master", "v1.2.4", "v1.2.3"}, c.DropdownOrder())
}

func TestNewCatalog_Errors(t *testing.T) {
	_, err := NewCatalog(nil, "master", true)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = NewCatalog([]string{"v1"}, "", true)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad(t *testing.T) {
	lister := &stubLister{releases: []string{"v3", "v2", "v1", "v0"}}
	c, err := Load(context.Background(), lister, "jina-ai/jina", 3, "master", true)
	require.NoError(t, err)

	require.Equal(t, "jina-ai/jina", lister.gotRepo)
	require.Equal(t, 3, lister.gotCount)
	require.Equal(t, []string{"v3", "v2", "v1"}, c.Releases())
}

func TestLoad_ListerFailureIsFatal(t *testing.T) {
	boom := errors.NetworkError("connection refused").Build()
	_, err := Load(context.Background(), &stubLister{err: boom}, "jina-ai/jina", 3, "master", true)
	require.ErrorIs(t, err, boom)

	_, err = Load(context.Background(), &stubLister{}, "jina-ai/jina", 3, "master", true)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	ce, _ := errors.AsClassified(err)
	repo, _ := ce.Context().GetString("repo")
	require.Equal(t, "jina-ai/jina", repo)

	_, err = Load(context.Background(), &stubLister{releases: []string{"v1"}}, "r", 0, "master", true)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o750))
	}
}

func TestStatus_MissingVersions(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "master", "v1.2.3", "_static")
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0o600))

	c, err := NewCatalog([]string{"v1.2.4", "v1.2.3"}, "master", true)
	require.NoError(t, err)

	status, err := c.Status(root, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"master", "v1.2.3"}, status.Existing)
	require.Equal(t, []string{"v1.2.4"}, status.Missing)
}

func TestStatus_PromotedLatestCountsAsExisting(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "master", "v1.2.3")

	c, err := NewCatalog([]string{"v1.2.4", "v1.2.3"}, "master", true)
	require.NoError(t, err)

	status, err := c.Status(root, "v1.2.4")
	require.NoError(t, err)
	require.Empty(t, status.Missing)

	// A stale marker naming an older release does not hide the new latest.
	status, err = c.Status(root, "v1.2.3")
	require.NoError(t, err)
	require.Equal(t, []string{"v1.2.4"}, status.Missing)
}

func TestStatus_MissingKeepsDropdownOrder(t *testing.T) {
	root := t.TempDir()
	c, err := NewCatalog([]string{"v3", "v2", "v1"}, "main", true)
	require.NoError(t, err)

	status, err := c.Status(root, "")
	require.NoError(t, err)
	require.Empty(t, status.Existing)
	require.Equal(t, []string{"main", "v3", "v2", "v1"}, status.Missing)
}

func TestStatus_ExcludedDefaultBranchIsNeverExisting(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "main", "v2")

	c, err := NewCatalog([]string{"v3", "v2"}, "main", false)
	require.NoError(t, err)

	status, err := c.Status(root, "")
	require.NoError(t, err)
	require.Equal(t, []string{"v2"}, status.Existing)
	require.Equal(t, []string{"v3"}, status.Missing)
}

func TestStatus_UnreadableRoot(t *testing.T) {
	c, err := NewCatalog([]string{"v1"}, "master", true)
	require.NoError(t, err)

	_, err = c.Status(filepath.Join(t.TempDir(), "absent"), "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	var pathErr *os.PathError
	require.True(t, stderrors.As(err, &pathErr))
}
