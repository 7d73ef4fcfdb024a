package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/git"
)

const initHeader = `# docversions configuration.
# ${VAR} references are expanded from the environment, .env and .env.local.
`

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := &Config{
		Repo:          "your-org/your-project",
		RepoDir:       "../your-project",
		DocsDir:       "../your-project-docs",
		NumReleases:   DefaultNumReleases,
		DefaultBranch: DefaultBranch,
		DocsSubdir:    DefaultDocsSubdir,
		BuildDir:      DefaultBuildDir,
		Build: BuildConfig{
			Shell:  DefaultShell,
			Script: DefaultScript,
		},
		LinkTrim: "legacy",
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
			Token:  "${GITHUB_TOKEN}",
		},
		Commit: CommitConfig{
			Message:     git.DefaultCommitMessage,
			AuthorName:  "docs-bot",
			AuthorEmail: "docs-bot@example.com",
			Remote:      DefaultRemote,
			Branch:      "main",
			Token:       "${GITHUB_TOKEN}",
		},
		Watch: WatchConfig{Schedule: DefaultWatchSchedule},
	}
	return cfg
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists, use --force to overwrite").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.InternalError("failed to encode example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, append([]byte(initHeader), data...), 0o644); err != nil {
		return errors.FileSystemError("failed to write configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
