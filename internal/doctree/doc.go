// Package doctree manages the versioned documentation tree on disk.
//
// Every tracked version lives in a directory named after it, except the
// promoted version whose pages sit directly at the root. A marker file at the
// root records which version was promoted last.
package doctree
