// Package forge talks to the code hosting API to discover the releases whose
// documentation is published.
package forge
