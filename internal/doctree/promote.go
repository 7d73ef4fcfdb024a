package doctree

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// Promotion reports what Promote changed.
type Promotion struct {
	Version string
	// Moved lists the root entry names taken from the version slot.
	Moved []string
	// Replaced lists the subset of Moved that overwrote an existing root entry.
	Replaced []string
	// AlreadyPromoted is set when the slot was gone but the marker named version.
	AlreadyPromoted bool
}

// ResolveCollision makes room at the root for an incoming entry called name by
// deleting whatever currently has that name. It reports whether anything was
// deleted.
func ResolveCollision(root, name string) (bool, error) {
	path := filepath.Join(root, name)
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.FileSystemError("cannot inspect root entry").WithCause(err).WithContext("path", path).Build()
	}
	if err := os.RemoveAll(path); err != nil {
		return false, errors.FileSystemError("cannot replace root entry").WithCause(err).WithContext("path", path).Build()
	}
	return true, nil
}

// Promote moves every entry of the slot of version up to the root, replacing
// root entries of the same name, then removes the emptied slot and writes the
// marker listing the moved entries. A slot holding an entry named after the
// version itself or the marker is refused before anything moves.
//
// A missing slot is a not-found warning unless the marker already names version,
// in which case promotion has happened before and nothing is done.
func (t *Tree) Promote(version string) (*Promotion, error) {
	dir, err := t.slot(version)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if marker, mErr := t.ReadMarker(); mErr == nil && marker == version {
			slog.Debug("Version already promoted", logfields.Version(version))
			return &Promotion{Version: version, AlreadyPromoted: true}, nil
		}
		return nil, errors.NotFoundError("latest version doesn't exist, please build first").
			Warning().
			WithContext("version", version).
			WithContext("path", dir).
			Build()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FileSystemError("cannot list version directory").WithCause(err).WithContext("path", dir).Build()
	}

	for _, e := range entries {
		if e.Name() == version || e.Name() == MarkerFile {
			return nil, errors.FileSystemError("version directory holds an entry that cannot be promoted").
				WithContext("version", version).
				WithContext("entry", e.Name()).
				Build()
		}
	}

	result := &Promotion{Version: version}
	for _, e := range entries {
		replaced, err := ResolveCollision(t.Root, e.Name())
		if err != nil {
			return result, err
		}
		src := filepath.Join(dir, e.Name())
		dst := filepath.Join(t.Root, e.Name())
		if err := os.Rename(src, dst); err != nil {
			return result, errors.FileSystemError("cannot move entry to root").
				WithCause(err).
				WithContext("path", src).
				Build()
		}
		result.Moved = append(result.Moved, e.Name())
		if replaced {
			result.Replaced = append(result.Replaced, e.Name())
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return result, errors.FileSystemError("cannot remove promoted version directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	if err := t.WriteMarker(version, result.Moved...); err != nil {
		return result, err
	}

	slog.Info("Promoted version to root",
		logfields.Version(version),
		logfields.Count(len(result.Moved)),
		slog.Any("replaced", result.Replaced))
	return result, nil
}
