// Package orchestrator drives a documentation sync run.
//
// A run loads nothing by itself: it receives the version catalog, works out
// which versions the tree lacks, then builds each of them in turn:
//
//	checkout -> clean slot -> build -> materialize -> release checkout
//
// Afterwards the latest release is promoted to the root, the version selector
// of every affected document is rewritten and, when configured, the tree is
// committed. Versions are processed strictly one at a time because they share
// one source repository and one tree.
//
// Failures are isolated per version and collected in a Report. Configuration
// errors and cancellation abort the whole run.
package orchestrator
