// Package versioning resolves which versions a documentation site tracks.
//
// A Catalog is computed once per run from the release source and never changes
// afterwards; every other component receives it explicitly.
package versioning
