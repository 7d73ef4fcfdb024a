// Package sitebuild runs a project's own documentation build script inside a
// checkout and reports where the rendered pages ended up.
package sitebuild
