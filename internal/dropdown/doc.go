// Package dropdown rewrites the version selector embedded in rendered pages so
// that every option points at the same page in another version.
package dropdown
