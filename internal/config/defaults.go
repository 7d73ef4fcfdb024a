package config

import (
	"git.home.luguber.info/inful/docversions/internal/forge"
	"git.home.luguber.info/inful/docversions/internal/git"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

// Defaults for unset keys.
const (
	DefaultNumReleases   = 3
	DefaultBranch        = "master"
	DefaultDocsSubdir    = "docs"
	DefaultBuildDir      = "_build/dirhtml"
	DefaultShell         = "bash"
	DefaultScript        = "makedoc.sh"
	DefaultRemote        = "origin"
	DefaultWatchSchedule = "0 */4 * * *"
)

func applyDefaults(cfg *Config) {
	if cfg.RepoDir == "" {
		cfg.RepoDir = "."
	}
	if cfg.RepoRemote == "" {
		cfg.RepoRemote = DefaultRemote
	}
	if cfg.NumReleases == 0 {
		cfg.NumReleases = DefaultNumReleases
	}
	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultBranch
	}
	if cfg.DocsSubdir == "" {
		cfg.DocsSubdir = DefaultDocsSubdir
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if cfg.Build.Shell == "" {
		cfg.Build.Shell = DefaultShell
	}
	if cfg.Build.Script == "" {
		cfg.Build.Script = DefaultScript
	}
	if cfg.LinkTrim == "" {
		cfg.LinkTrim = string(versionpath.TrimLegacy)
	}
	if cfg.GitHub.APIURL == "" {
		cfg.GitHub.APIURL = forge.DefaultGitHubAPIURL
	}
	if cfg.Commit.Message == "" {
		cfg.Commit.Message = git.DefaultCommitMessage
	}
	if cfg.Commit.Remote == "" {
		cfg.Commit.Remote = DefaultRemote
	}
	if cfg.Watch.Schedule == "" {
		cfg.Watch.Schedule = DefaultWatchSchedule
	}
}
