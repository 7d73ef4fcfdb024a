package sitebuild

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

// Builder renders the documentation found in docsDir and returns the directory
// holding the rendered pages.
type Builder interface {
	Build(ctx context.Context, version, docsDir string) (string, error)
}

// ScriptBuilder runs "<Shell> <Script>" in the docs directory, or the argv listed
// in Overrides for versions whose tooling predates the script.
type ScriptBuilder struct {
	Shell     string
	Script    string
	OutputDir string
	Overrides map[string][]string
}

// NewScriptBuilder creates a builder with the usual defaults for empty fields.
func NewScriptBuilder(shell, script, outputDir string, overrides map[string][]string) *ScriptBuilder {
	if shell == "" {
		shell = "bash"
	}
	if script == "" {
		script = "makedoc.sh"
	}
	if outputDir == "" {
		outputDir = filepath.Join("_build", "dirhtml")
	}
	return &ScriptBuilder{Shell: shell, Script: script, OutputDir: outputDir, Overrides: overrides}
}

// Build runs the build for version. A missing script or interpreter is a
// configuration error; a failing or output-less build is a build error.
func (b *ScriptBuilder) Build(ctx context.Context, version, docsDir string) (string, error) {
	argv, err := b.command(version, docsDir)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = docsDir
	cmd.Env = append(os.Environ(), "DOCVERSIONS_VERSION="+version)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Info("Building documentation", logfields.Version(version), logfields.Dir(docsDir), slog.Any("argv", argv))
	start := time.Now()
	runErr := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("build stdout", logfields.Version(version), slog.String("output", out))
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("build stderr", logfields.Version(version), slog.String("error_output", tail(errOut, 4096)))
	}
	if runErr != nil {
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		}
		return "", errors.BuildError("documentation build failed").
			WithCause(runErr).
			WithContext("version", version).
			WithContext("dir", docsDir).
			WithContext("output", tail(output, 1024)).
			Build()
	}

	outDir := filepath.Join(docsDir, b.OutputDir)
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		return "", errors.BuildError("documentation build produced no output directory").
			WithCause(err).
			WithContext("version", version).
			WithContext("path", outDir).
			Build()
	}
	slog.Info("Built documentation", logfields.Version(version), logfields.Duration(time.Since(start)))
	return outDir, nil
}

func (b *ScriptBuilder) command(version, docsDir string) ([]string, error) {
	if info, err := os.Stat(docsDir); err != nil || !info.IsDir() {
		return nil, errors.ConfigError("docs directory missing in checkout").
			WithCause(err).
			WithContext("version", version).
			WithContext("path", docsDir).
			Build()
	}

	if argv, ok := b.Overrides[version]; ok && len(argv) > 0 {
		if _, err := exec.LookPath(argv[0]); err != nil {
			return nil, errors.ConfigError("build override command not found").
				WithCause(err).
				WithContext("version", version).
				WithContext("command", argv[0]).
				Build()
		}
		return argv, nil
	}

	script := filepath.Join(docsDir, b.Script)
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return nil, errors.ConfigError("build script doesn't exist in docs directory").
			WithCause(err).
			WithContext("version", version).
			WithContext("path", script).
			Build()
	}
	if _, err := exec.LookPath(b.Shell); err != nil {
		return nil, errors.ConfigError("build shell not found").
			WithCause(err).
			WithContext("shell", b.Shell).
			Build()
	}
	return []string{b.Shell, b.Script}, nil
}

// tail keeps the last n bytes of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
