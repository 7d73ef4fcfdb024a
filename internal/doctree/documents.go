package doctree

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// DocumentExt is the extension of rendered documents.
const DocumentExt = ".html"

// Documents lists the documents built from version, as absolute paths in
// lexical order.
//
// For the promoted version these are the documents under the root whose first
// segment is neither a name in reserved nor hidden. When the marker records the
// entries of the last promotion, only those entries are walked, so folders of
// versions no longer tracked are left alone. For any other version they are the
// documents under its slot.
func (t *Tree) Documents(version, promoted string, reserved map[string]bool) ([]string, error) {
	if version != promoted {
		dir, err := t.slot(version)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, nil
		}
		return walkDocuments(dir, nil)
	}

	promotedEntries, recorded, err := t.PromotedEntries()
	if err != nil {
		return nil, err
	}
	return walkDocuments(t.Root, func(rel string) bool {
		first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		if reserved[first] || strings.HasPrefix(first, ".") {
			return true
		}
		return recorded && !promotedEntries[first]
	})
}

// walkDocuments collects documents under dir, pruning top-level entries for
// which skip returns true.
func walkDocuments(dir string, skip func(rel string) bool) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if skip != nil && filepath.Dir(path) == dir {
			rel, _ := filepath.Rel(dir, path)
			if skip(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), DocumentExt) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.FileSystemError("cannot list documents").WithCause(err).WithContext("path", dir).Build()
	}
	return docs, nil
}

// ReadDocument returns the contents of a document.
func (t *Tree) ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError("cannot read document").WithCause(err).WithContext("path", path).Build()
	}
	return data, nil
}

// WriteDocument replaces the contents of a document, keeping its mode.
func (t *Tree) WriteDocument(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.FileSystemError("cannot write document").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
