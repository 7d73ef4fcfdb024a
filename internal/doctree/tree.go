package doctree

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// MarkerFile names the file at the root recording the promoted version.
const MarkerFile = ".promoted-version"

// Tree is a documentation tree rooted at Root.
type Tree struct {
	Root string
}

// New returns a Tree for root. The root must be an existing directory.
func New(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.ConfigError("invalid documentation root").WithCause(err).WithContext("path", root).Build()
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.ConfigError("documentation root is not a directory").
			WithCause(err).
			WithContext("path", abs).
			Build()
	}
	return &Tree{Root: abs}, nil
}

// VersionDir is the slot holding a non-promoted version.
func (t *Tree) VersionDir(version string) string {
	return filepath.Join(t.Root, version)
}

// slot validates version as a single path segment and returns its directory.
func (t *Tree) slot(version string) (string, error) {
	if version == "" || version == "." || version == ".." || strings.ContainsAny(version, `/\`) {
		return "", errors.ValidationError("version is not a valid directory name").
			WithContext("version", version).
			Build()
	}
	return t.VersionDir(version), nil
}

// Clean removes any previous output for version. A missing slot is fine.
func (t *Tree) Clean(version string) error {
	dir, err := t.slot(version)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.FileSystemError("cannot remove stale version output").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return nil
}

// Materialize copies a build output directory into the slot of version,
// replacing whatever the slot held.
func (t *Tree) Materialize(version, outputDir string) error {
	if err := t.Clean(version); err != nil {
		return err
	}
	dir := t.VersionDir(version)
	if err := CopyDir(outputDir, dir); err != nil {
		return err
	}
	slog.Info("Materialized version", logfields.Version(version), logfields.Dir(dir))
	return nil
}

// ReadMarker returns the version named by the marker, or "" when there is none.
func (t *Tree) ReadMarker() (string, error) {
	lines, err := t.readMarker()
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return lines[0], nil
}

// PromotedEntries returns the root entry names recorded by the last promotion.
// ok is false when the marker records none, as for trees promoted before entries
// were recorded.
func (t *Tree) PromotedEntries() (entries map[string]bool, ok bool, err error) {
	lines, err := t.readMarker()
	if err != nil || len(lines) < 2 {
		return nil, false, err
	}
	entries = make(map[string]bool, len(lines)-1)
	for _, name := range lines[1:] {
		entries[name] = true
	}
	return entries, true, nil
}

func (t *Tree) readMarker() ([]string, error) {
	path := filepath.Join(t.Root, MarkerFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.FileSystemError("cannot read promotion marker").WithCause(err).WithContext("path", path).Build()
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// WriteMarker records version as the promoted one, followed by the root entries
// its promotion moved, one per line.
func (t *Tree) WriteMarker(version string, entries ...string) error {
	path := filepath.Join(t.Root, MarkerFile)
	content := strings.Join(append([]string{version}, entries...), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.FileSystemError("cannot write promotion marker").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// CopyDir recursively copies src to dst, keeping file modes and symlinks.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return copyErr(err, src)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return copyErr(err, dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return copyErr(err, src)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(srcPath)
			if err != nil {
				return copyErr(err, srcPath)
			}
			if err := os.Symlink(link, dstPath); err != nil {
				return copyErr(err, dstPath)
			}
		case entry.IsDir():
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return copyErr(err, src)
	}
	srcFile, err := os.Open(src)
	if err != nil {
		return copyErr(err, src)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return copyErr(err, dst)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return copyErr(err, dst)
	}
	if err := dstFile.Close(); err != nil {
		return copyErr(err, dst)
	}
	return nil
}

func copyErr(err error, path string) error {
	return errors.FileSystemError("copy failed").WithCause(err).WithContext("path", path).Build()
}
