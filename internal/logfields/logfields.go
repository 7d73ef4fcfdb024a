package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyVersion    = "version"
	KeyLatest     = "latest"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyCount      = "count"
	KeyMode       = "mode"
	KeyCommit     = "commit"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Version(v string) slog.Attr     { return slog.String(KeyVersion, v) }
func Latest(v string) slog.Attr      { return slog.String(KeyLatest, v) }
func Stage(name string) slog.Attr    { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr         { return slog.String(KeyDir, d) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Mode(m string) slog.Attr        { return slog.String(KeyMode, m) }
func Commit(hash string) slog.Attr   { return slog.String(KeyCommit, hash) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
