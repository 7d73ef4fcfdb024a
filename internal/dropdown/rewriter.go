package dropdown

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

// DocumentStore gives access to the rendered documents of a tree.
type DocumentStore interface {
	Documents(version, promoted string, reserved map[string]bool) ([]string, error)
	ReadDocument(path string) ([]byte, error)
	WriteDocument(path string, data []byte) error
}

// Rewriter updates the selectors of every document of a version.
type Rewriter struct {
	store    DocumentStore
	resolver versionpath.Resolver
	versions []string
	reserved map[string]bool
}

// Result counts what a rewrite touched.
type Result struct {
	Rewritten int
	// Unplaced counts documents without selector or container; they are left as is.
	Unplaced int
}

// NewRewriter creates a rewriter offering versions, in order, in every selector.
// reserved names the top-level directories that never hold promoted documents.
func NewRewriter(store DocumentStore, resolver versionpath.Resolver, versions []string, reserved map[string]bool) *Rewriter {
	return &Rewriter{store: store, resolver: resolver, versions: versions, reserved: reserved}
}

// Rewrite processes every document built from versionInDir. It stops at the
// first document that cannot be read, rewritten or written back.
func (r *Rewriter) Rewrite(ctx context.Context, versionInDir string) (*Result, error) {
	docs, err := r.store.Documents(versionInDir, r.resolver.Latest, r.reserved)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, path := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		changed, err := r.rewriteOne(path, versionInDir)
		if err != nil {
			if ce, ok := errors.AsClassified(err); ok {
				return res, ce.WithContext("path", path).WithContext("version", versionInDir)
			}
			return res, err
		}
		if changed {
			res.Rewritten++
		} else {
			res.Unplaced++
		}
	}
	slog.Info("Rewrote version selectors",
		logfields.Version(versionInDir),
		logfields.Count(res.Rewritten),
		slog.Int("unplaced", res.Unplaced))
	return res, nil
}

func (r *Rewriter) rewriteOne(path, versionInDir string) (bool, error) {
	options, err := r.resolver.Options(path, versionInDir, r.versions)
	if err != nil {
		return false, err
	}
	src, err := r.store.ReadDocument(path)
	if err != nil {
		return false, err
	}
	out, placed, err := RewriteDocument(src, options)
	if err != nil || !placed {
		return false, err
	}
	slog.Debug("Modifying dropdown", logfields.Path(path))
	return true, r.store.WriteDocument(path, out)
}
