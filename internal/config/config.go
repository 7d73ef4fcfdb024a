// Package config loads the YAML configuration of a documentation sync.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/git"
)

// CommitMessageEnv overrides commit.message when set.
const CommitMessageEnv = "COMMIT_MESSAGE"

// Config is the root of the configuration file.
type Config struct {
	// Repo names the project whose releases are listed, as owner/name.
	Repo string `yaml:"repo"`
	// RepoDir is the local clone of Repo that versions are exported from.
	RepoDir string `yaml:"repo_dir"`
	// RepoRemote is searched for branches missing locally in RepoDir.
	RepoRemote string `yaml:"repo_remote,omitempty"`
	// DocsDir is the documentation tree, usually a clone of the published site.
	DocsDir string `yaml:"docs_dir"`

	NumReleases          int    `yaml:"num_releases"`
	DefaultBranch        string `yaml:"default_branch"`
	ExcludeDefaultBranch bool   `yaml:"exclude_default_branch,omitempty"`

	// DocsSubdir is the documentation directory inside an exported version.
	DocsSubdir string `yaml:"docs_subdir"`
	// BuildDir is the builder output, relative to DocsSubdir.
	BuildDir string      `yaml:"build_dir"`
	Build    BuildConfig `yaml:"build"`

	// LinkTrim selects how selector links lose their file name: legacy or suffix.
	LinkTrim string `yaml:"link_trim"`

	GitHub    GitHubConfig    `yaml:"github"`
	Commit    CommitConfig    `yaml:"commit"`
	Workspace WorkspaceConfig `yaml:"workspace,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Watch     WatchConfig     `yaml:"watch,omitempty"`
}

// BuildConfig describes the external documentation build.
type BuildConfig struct {
	Shell  string `yaml:"shell"`
	Script string `yaml:"script"`
	// Overrides maps a version to the argv used instead of the script.
	Overrides map[string][]string `yaml:"overrides,omitempty"`
}

// GitHubConfig configures the release listing.
type GitHubConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token,omitempty"`
}

// CommitConfig configures recording the tree after a run.
type CommitConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Message     string `yaml:"message,omitempty"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	// Push defaults to true when unset.
	Push   *bool  `yaml:"push,omitempty"`
	Remote string `yaml:"remote,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// WorkspaceConfig controls where version sources are exported.
type WorkspaceConfig struct {
	// Dir is the parent of the per-run workspace; empty uses the system temp dir.
	Dir string `yaml:"dir,omitempty"`
	// Keep leaves the workspace in place after the run for inspection.
	Keep bool `yaml:"keep,omitempty"`
}

// MetricsConfig configures Prometheus exposition.
type MetricsConfig struct {
	// Textfile is written after every run when set.
	Textfile string `yaml:"textfile,omitempty"`
	// Listen serves /metrics on this address during watch.
	Listen string `yaml:"listen,omitempty"`
}

// WatchConfig configures the periodic sync.
type WatchConfig struct {
	Schedule string `yaml:"schedule,omitempty"`
}

// PushEnabled reports whether commits are pushed.
func (c CommitConfig) PushEnabled() bool {
	return c.Push == nil || *c.Push
}

// CommitOptions converts the commit section for the git package.
func (c *Config) CommitOptions() git.CommitOptions {
	return git.CommitOptions{
		Message:     c.Commit.Message,
		AuthorName:  c.Commit.AuthorName,
		AuthorEmail: c.Commit.AuthorEmail,
		Push:        c.Commit.PushEnabled(),
		Remote:      c.Commit.Remote,
		Branch:      c.Commit.Branch,
		Token:       c.Commit.Token,
	}
}

// Load reads, expands, defaults and validates the configuration at path.
// Environment files are loaded first so ${VAR} references can use them.
func Load(path string) (*Config, error) {
	loadEnvFiles(".env.local", ".env")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, errors.ConfigError("failed to read configuration file").WithCause(err).WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	slog.Debug("Loaded configuration", slog.String("path", path), slog.String("repo", cfg.Repo))
	return cfg, nil
}

// Parse decodes configuration data, expanding ${VAR} references against the
// process environment, then applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.ConfigError("failed to parse configuration").WithCause(err).Build()
	}

	applyDefaults(&cfg)
	if msg := os.Getenv(CommitMessageEnv); msg != "" {
		cfg.Commit.Message = msg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
