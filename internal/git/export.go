package git

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// Scratch hands out and reclaims private directories.
type Scratch interface {
	CreateSubdir(prefix string) (string, error)
	RemoveSubdir(dir string) error
}

// Checkout is the source tree of one version, exported to a private directory.
type Checkout struct {
	Version string
	Commit  string
	Dir     string
}

// Exporter materializes revisions of a repository without touching its
// working tree.
type Exporter struct {
	repoDir string
	remote  string
	scratch Scratch
}

// NewExporter creates an exporter reading from the repository at repoDir.
// Branch names missing locally are also looked up on remote.
func NewExporter(repoDir, remote string, scratch Scratch) *Exporter {
	if remote == "" {
		remote = "origin"
	}
	return &Exporter{repoDir: repoDir, remote: remote, scratch: scratch}
}

// Checkout exports the tree of version (a tag or branch) to a fresh directory.
// On failure nothing is left behind.
func (e *Exporter) Checkout(ctx context.Context, version string) (*Checkout, error) {
	repo, err := git.PlainOpenWithOptions(e.repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.ConfigError("cannot open project repository").
			WithCause(err).
			WithContext("path", e.repoDir).
			Build()
	}

	commit, err := e.resolve(repo, version)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, classifyGitError(err, "tree", version)
	}

	dir, err := e.scratch.CreateSubdir(version)
	if err != nil {
		return nil, err
	}
	if err := writeTree(ctx, tree, dir); err != nil {
		_ = e.scratch.RemoveSubdir(dir)
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("version", version)
		}
		return nil, err
	}

	slog.Debug("Exported version source",
		logfields.Version(version),
		logfields.Commit(commit.Hash.String()[:8]),
		logfields.Dir(dir))
	return &Checkout{Version: version, Commit: commit.Hash.String(), Dir: dir}, nil
}

// Release removes the exported tree. Releasing nil is a no-op.
func (e *Exporter) Release(co *Checkout) error {
	if co == nil || co.Dir == "" {
		return nil
	}
	if err := e.scratch.RemoveSubdir(co.Dir); err != nil {
		return err
	}
	co.Dir = ""
	return nil
}

func (e *Exporter) resolve(repo *git.Repository, version string) (*object.Commit, error) {
	candidates := []string{version, e.remote + "/" + version}
	var lastErr error
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			lastErr = err
			continue
		}
		if commit, err := repo.CommitObject(*hash); err == nil {
			return commit, nil
		}
		tag, err := repo.TagObject(*hash)
		if err != nil {
			lastErr = err
			continue
		}
		commit, err := tag.Commit()
		if err != nil {
			lastErr = err
			continue
		}
		return commit, nil
	}
	return nil, errors.NotFoundError("version not found in project repository").
		WithCause(lastErr).
		WithContext("version", version).
		WithContext("path", e.repoDir).
		Build()
}

func writeTree(ctx context.Context, tree *object.Tree, dir string) error {
	root := filepath.Clean(dir) + string(filepath.Separator)
	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, root) {
			return errors.ValidationError("tree entry escapes checkout directory").
				WithContext("path", f.Name).
				Build()
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return errors.FileSystemError("cannot create checkout directory").WithCause(err).WithContext("path", target).Build()
		}
		if err := writeEntry(f, target); err != nil {
			return errors.FileSystemError("cannot write checkout file").WithCause(err).WithContext("path", target).Build()
		}
		return nil
	})
}

func writeEntry(f *object.File, target string) error {
	if f.Mode == filemode.Symlink {
		link, err := f.Contents()
		if err != nil {
			return err
		}
		return os.Symlink(link, target)
	}

	perm := os.FileMode(0o644)
	if f.Mode == filemode.Executable {
		perm = 0o755
	}
	r, err := f.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
