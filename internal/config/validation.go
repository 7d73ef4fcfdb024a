package config

import (
	"strings"

	"git.home.luguber.info/inful/docversions/internal/forge"
	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

// Validate checks a defaulted configuration.
func (c *Config) Validate() error {
	owner, name, ok := strings.Cut(c.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return errors.ConfigError("repo must be owner/name").WithContext("repo", c.Repo).Build()
	}
	if c.DocsDir == "" {
		return errors.ConfigError("docs_dir is required").Build()
	}
	if c.NumReleases < 1 || c.NumReleases > forge.MaxReleases {
		return errors.ConfigError("num_releases must be between 1 and 100").
			WithContext("num_releases", c.NumReleases).
			Build()
	}
	if strings.ContainsAny(c.DefaultBranch, `/\`) {
		return errors.ConfigError("default_branch cannot contain a path separator").
			WithContext("default_branch", c.DefaultBranch).
			Build()
	}
	if _, err := versionpath.ParseTrimMode(c.LinkTrim); err != nil {
		return err
	}
	for version, argv := range c.Build.Overrides {
		if len(argv) == 0 {
			return errors.ConfigError("build override has no command").WithContext("version", version).Build()
		}
	}
	if c.Commit.Enabled && c.Commit.PushEnabled() && c.Commit.Branch == "" {
		return errors.ConfigError("commit.branch is required when pushing").Build()
	}
	return nil
}
