package versioning

import (
	"context"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// ReleaseLister returns release tags of a repository, newest first.
type ReleaseLister interface {
	ListReleases(ctx context.Context, repo string, count int) ([]string, error)
}

// Catalog is the immutable set of versions tracked by a run.
type Catalog struct {
	releases       []string
	defaultBranch  string
	includeDefault bool
}

// NewCatalog builds a catalog from releases ordered newest first.
func NewCatalog(releases []string, defaultBranch string, includeDefault bool) (*Catalog, error) {
	if len(releases) == 0 {
		return nil, errors.NotFoundError("no releases found").Fatal().Build()
	}
	if includeDefault && defaultBranch == "" {
		return nil, errors.ConfigError("default branch name is required when it is included").Build()
	}
	return &Catalog{
		releases:       slices.Clone(releases),
		defaultBranch:  defaultBranch,
		includeDefault: includeDefault,
	}, nil
}

// Load fetches the count most recent releases of repo and builds a catalog.
// Any lister failure is returned as is: a partial catalog is never built.
func Load(ctx context.Context, lister ReleaseLister, repo string, count int, defaultBranch string, includeDefault bool) (*Catalog, error) {
	if count < 1 {
		return nil, errors.ConfigError("number of releases must be at least 1").
			WithContext("num_releases", count).
			Build()
	}
	releases, err := lister.ListReleases(ctx, repo, count)
	if err != nil {
		return nil, err
	}
	if len(releases) > count {
		releases = releases[:count]
	}
	catalog, err := NewCatalog(releases, defaultBranch, includeDefault)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("repo", repo)
		}
		return nil, err
	}
	slog.Info("Resolved tracked versions",
		slog.String("repo", repo),
		logfields.Latest(catalog.Latest()),
		slog.Any("dropdown", catalog.DropdownOrder()))
	return catalog, nil
}

// Latest is the newest release; its build is promoted to the tree root.
func (c *Catalog) Latest() string { return c.releases[0] }

// Releases returns the tracked releases, newest first.
func (c *Catalog) Releases() []string { return slices.Clone(c.releases) }

// DefaultBranch returns the default branch name, even when it is excluded.
func (c *Catalog) DefaultBranch() string { return c.defaultBranch }

// IncludesDefault reports whether the default branch is part of the dropdown.
func (c *Catalog) IncludesDefault() bool { return c.includeDefault }

// DropdownOrder is the default branch (when included) followed by the releases.
func (c *Catalog) DropdownOrder() []string {
	order := make([]string, 0, len(c.releases)+1)
	if c.includeDefault {
		order = append(order, c.defaultBranch)
	}
	return append(order, c.releases...)
}

// IsTracked reports whether name is one of the dropdown versions.
func (c *Catalog) IsTracked(name string) bool {
	return slices.Contains(c.DropdownOrder(), name)
}

// VersionDirNames are the top-level directory names reserved for version folders:
// every release (the latest too, before promotion) and the default branch. The
// default branch is listed even when excluded from the dropdown so its folder is
// never mistaken for promoted content.
func (c *Catalog) VersionDirNames() map[string]bool {
	names := make(map[string]bool, len(c.releases)+1)
	for _, r := range c.releases {
		names[r] = true
	}
	if c.defaultBranch != "" {
		names[c.defaultBranch] = true
	}
	return names
}

// ScanLimit caps how many existing version directories Status records.
func (c *Catalog) ScanLimit() int {
	if c.includeDefault {
		return len(c.releases) + 1
	}
	return len(c.releases)
}
