// Package git reads version sources out of the project repository and records
// the regenerated documentation tree in its own repository.
//
// Checkouts are exported from the object database into private directories, so
// the project's working tree and index are never touched and any number of
// versions can be materialized side by side.
package git
