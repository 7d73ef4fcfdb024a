package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// DefaultCommitMessage is used when no message is configured.
const DefaultCommitMessage = "chore(docs): update docs due to commit"

// CommitOptions controls how the regenerated tree is recorded.
type CommitOptions struct {
	Message     string
	AuthorName  string
	AuthorEmail string
	// Push force-pushes the new commit to Branch on Remote.
	Push   bool
	Remote string
	Branch string
	// Token enables HTTPS basic auth for the push.
	Token string
}

// CommitResult describes what CommitAndPush did.
type CommitResult struct {
	Hash   string
	Clean  bool
	Pushed bool
}

// CommitAndPush stages every change under dir, including deletions, and commits
// it. A clean tree produces no commit.
func CommitAndPush(ctx context.Context, dir string, opts CommitOptions) (*CommitResult, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.ConfigError("documentation tree is not inside a git repository").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, classifyGitError(err, "worktree", dir)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, classifyGitError(err, "status", dir)
	}
	if status.IsClean() {
		slog.Info("Documentation tree unchanged, nothing to commit", logfields.Dir(dir))
		return &CommitResult{Clean: true}, nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return nil, classifyGitError(err, "add", dir)
	}

	message := opts.Message
	if message == "" {
		message = DefaultCommitMessage
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail, When: time.Now()},
	})
	if err != nil {
		return nil, classifyGitError(err, "commit", dir)
	}
	result := &CommitResult{Hash: hash.String()}
	slog.Info("Committed documentation tree", logfields.Commit(hash.String()[:8]), logfields.Dir(dir))

	if !opts.Push {
		return result, nil
	}
	if err := push(ctx, repo, opts); err != nil {
		return result, err
	}
	result.Pushed = true
	return result, nil
}

func push(ctx context.Context, repo *git.Repository, opts CommitOptions) error {
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}
	head, err := repo.Head()
	if err != nil {
		return classifyGitError(err, "head", remote)
	}
	if !head.Name().IsBranch() {
		return errors.GitError("cannot push from a detached HEAD").WithContext("remote", remote).Build()
	}
	branch := opts.Branch
	if branch == "" {
		branch = head.Name().Short()
	}

	spec := ggitcfg.RefSpec("+" + head.Name().String() + ":" + plumbing.NewBranchReferenceName(branch).String())
	var auth transport.AuthMethod
	if opts.Token != "" {
		auth = &githttp.BasicAuth{Username: "x-access-token", Password: opts.Token}
	}

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Auth:       auth,
		Force:      true,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return classifyGitError(err, "push", remote)
	}
	slog.Info("Pushed documentation tree", slog.String("remote", remote), slog.String("branch", branch))
	return nil
}

// Committer records a documentation tree with fixed options.
type Committer struct {
	Options CommitOptions
}

// Commit runs CommitAndPush on dir.
func (c *Committer) Commit(ctx context.Context, dir string) (*CommitResult, error) {
	return CommitAndPush(ctx, dir, c.Options)
}
