package forge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// DefaultGitHubAPIURL is used when no API URL is configured.
const DefaultGitHubAPIURL = "https://api.github.com"

// MaxReleases is the largest page the releases endpoint returns.
const MaxReleases = 100

// GitHubClient lists releases through the GitHub REST API.
type GitHubClient struct {
	*BaseForge
}

// NewGitHubClient creates a client. An empty apiURL selects the public API and
// an empty token sends anonymous requests.
func NewGitHubClient(apiURL, token string) *GitHubClient {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	base := NewBaseForge(&http.Client{Timeout: 30 * time.Second}, apiURL, token)
	base.SetCustomHeader("Accept", "application/vnd.github+json")
	base.SetCustomHeader("X-GitHub-Api-Version", "2022-11-28")
	return &GitHubClient{BaseForge: base}
}

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// ListReleases returns up to count release tags of repo ("owner/name"), newest
// first, in the order the API reports them.
func (c *GitHubClient) ListReleases(ctx context.Context, repo string, count int) ([]string, error) {
	if strings.Count(repo, "/") != 1 || strings.HasPrefix(repo, "/") || strings.HasSuffix(repo, "/") {
		return nil, errors.ConfigError("repository must be given as owner/name").
			WithContext("repo", repo).
			Build()
	}
	if count < 1 || count > MaxReleases {
		return nil, errors.ConfigError("release count out of range").
			WithContext("count", count).
			WithContext("max", MaxReleases).
			Build()
	}

	req, err := c.NewRequest(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/releases?per_page=%d", repo, count))
	if err != nil {
		return nil, err
	}

	var releases []githubRelease
	if err := c.DoRequest(req, &releases); err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("repo", repo)
		}
		return nil, err
	}

	tags := make([]string, 0, len(releases))
	for _, r := range releases {
		if r.TagName == "" {
			continue
		}
		tags = append(tags, r.TagName)
		if len(tags) == count {
			break
		}
	}
	slog.Debug("Fetched releases", slog.String("repo", repo), logfields.Count(len(tags)))
	return tags, nil
}
