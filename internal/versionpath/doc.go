// Package versionpath computes the links of the version selector.
//
// The documentation tree keeps exactly one version (the latest) at its root and
// every other version one directory deeper under a folder named after it:
//
//	docs/index.html              latest
//	docs/guide/index.html        latest
//	docs/master/index.html       default branch
//	docs/v1.2.3/guide/index.html older release
//
// For a document and a target version, Resolve returns the relative link from
// the document to the same logical page in the target version. The number of
// "../" hops is derived from the document's full relative path, so documents of
// the promoted version climb one level less than nested ones.
package versionpath
