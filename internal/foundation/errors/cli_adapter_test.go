package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("invalid input").Build(), expected: 2},
		{name: "not found", err: NotFoundError("missing").Warning().Build(), expected: 4},
		{name: "config", err: ConfigError("makedoc.sh missing").Build(), expected: 7},
		{name: "network", err: NetworkError("releases unavailable").Build(), expected: 8},
		{name: "git", err: GitError("bad revision").Build(), expected: 8},
		{name: "build", err: BuildError("builder failed").Build(), expected: 11},
		{name: "filesystem", err: FileSystemError("copy failed").Build(), expected: 11},
		{name: "wrapped classified", err: wrap(BuildError("builder failed").Build()), expected: 11},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	err := FileSystemError("failed to copy build output").
		WithContext("path", "/docs/v1.2.3").
		WithCause(errors.New("disk full")).
		Build()

	msg := quiet.FormatError(err)
	if !strings.Contains(msg, "failed to copy build output") || !strings.Contains(msg, "/docs/v1.2.3") {
		t.Errorf("unexpected quiet message: %q", msg)
	}
	if strings.Contains(msg, "disk full") {
		t.Errorf("quiet message should not include the cause: %q", msg)
	}
	if msg := verbose.FormatError(err); !strings.Contains(msg, "disk full") {
		t.Errorf("verbose message should include the cause: %q", msg)
	}
	if msg := quiet.FormatError(ConfigError("script missing").Build()); !strings.Contains(msg, "re-run") {
		t.Errorf("user action hint missing: %q", msg)
	}
	if msg := quiet.FormatError(errors.New("plain")); msg != "Error: plain" {
		t.Errorf("unexpected unclassified message: %q", msg)
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	code := adapter.Report(&out, GitError("revision not found").WithContext("version", "v9.9.9").Build())
	if code != 8 {
		t.Fatalf("expected exit code 8, got %d", code)
	}
	if !strings.Contains(out.String(), "revision not found") {
		t.Errorf("missing message on output: %q", out.String())
	}
	if !strings.Contains(logs.String(), "version=v9.9.9") {
		t.Errorf("context not logged: %q", logs.String())
	}
	if adapter.Report(&out, nil) != 0 {
		t.Error("nil error should map to exit code 0")
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func wrap(err error) error { return wrapped{err: err} }
