// Package errors provides the classified error primitives used across docversions.
//
// Every failure surfaced by the orchestrator is a ClassifiedError whose category
// decides how far it propagates:
//   - CategoryConfig: a required prerequisite is missing; the whole run stops.
//   - CategoryGit, CategoryBuild, CategoryFileSystem: the current version fails,
//     other versions continue.
//   - CategoryNotFound with SeverityWarning: reported and skipped.
//
// Example usage:
//
//	err := errors.GitError("revision not found").
//		WithContext("version", version).
//		WithCause(originalErr).
//		Build()
package errors
