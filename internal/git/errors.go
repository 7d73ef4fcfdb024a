package git

import (
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// classifyGitError turns go-git failures into ClassifiedErrors.
func classifyGitError(err error, op, target string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	var builder *errors.ErrorBuilder
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid credentials"):
		builder = errors.ConfigError("git authentication failed")
	case strings.Contains(l, "repository not found") || strings.Contains(l, "repository does not exist"):
		builder = errors.NotFoundError("git repository not found").Fatal()
	case strings.Contains(l, "reference not found") || strings.Contains(l, "revision not found"):
		builder = errors.NotFoundError("git revision not found")
	case strings.Contains(l, "connection") || strings.Contains(l, "timeout") || strings.Contains(l, "no route to host") || strings.Contains(l, "remote hung up"):
		builder = errors.NetworkError("git transport failed")
	default:
		builder = errors.GitError("git operation failed")
	}
	return builder.
		WithCause(err).
		WithContext("op", op).
		WithContext("target", target).
		Build()
}
