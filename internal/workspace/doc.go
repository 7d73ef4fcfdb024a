// Package workspace manages the scratch directory of a run.
//
// Each run gets a uniquely named directory (e.g. docversions-20251214-122336-1a2b3c4d)
// and every version checkout gets its own subdirectory inside it, so two builds
// never see each other's files. Cleanup removes everything unless the manager
// was created with NewKeptManager.
package workspace
