package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// Manager owns the scratch directory of one run. Every version checkout lives in
// its own subdirectory so builds never share files.
type Manager struct {
	baseDir string
	tempDir string
	keep    bool
}

// NewManager creates a manager whose run directory is removed by Cleanup.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewKeptManager creates a manager whose run directory survives Cleanup, which
// leaves checkouts around for inspection after a failed build.
func NewKeptManager(baseDir string) *Manager {
	m := NewManager(baseDir)
	m.keep = true
	return m
}

// Create makes a uniquely named run directory under the base directory.
func (m *Manager) Create() error {
	name := "docversions-" + time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
	tempDir := filepath.Join(m.baseDir, name)
	if err := os.MkdirAll(tempDir, 0o750); err != nil {
		return errors.FileSystemError("failed to create workspace directory").
			WithCause(err).
			WithContext("path", tempDir).
			Build()
	}
	m.tempDir = tempDir
	slog.Debug("Created workspace", logfields.Path(tempDir))
	return nil
}

// GetPath returns the run directory, empty before Create.
func (m *Manager) GetPath() string {
	return m.tempDir
}

// Cleanup removes the run directory unless the manager keeps it.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}
	if m.keep {
		slog.Info("Keeping workspace", logfields.Path(m.tempDir))
		return nil
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		return errors.FileSystemError("failed to cleanup workspace").
			WithCause(err).
			WithContext("path", m.tempDir).
			Build()
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// CreateSubdir creates a fresh subdirectory whose name starts with prefix.
// Repeated calls with the same prefix never return the same directory.
func (m *Manager) CreateSubdir(prefix string) (string, error) {
	if m.tempDir == "" {
		return "", errors.InternalError("workspace not created").Build()
	}
	prefix = strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(prefix)
	dir, err := os.MkdirTemp(m.tempDir, prefix+"-")
	if err != nil {
		return "", errors.FileSystemError("failed to create subdirectory").
			WithCause(err).
			WithContext("path", m.tempDir).
			Build()
	}
	return dir, nil
}

// RemoveSubdir deletes a directory handed out by CreateSubdir. Paths outside the
// workspace are refused.
func (m *Manager) RemoveSubdir(dir string) error {
	rel, err := filepath.Rel(m.tempDir, dir)
	if m.tempDir == "" || err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return errors.InternalError("refusing to remove directory outside workspace").
			WithContext("path", dir).
			Build()
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.FileSystemError("failed to remove subdirectory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return nil
}
