package sitebuild

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

func writeScript(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "makedoc.sh"), []byte(body), 0o600))
}

func TestScriptBuilder_Build(t *testing.T) {
	docs := filepath.Join(t.TempDir(), "docs")
	writeScript(t, docs, `mkdir -p _build/dirhtml
echo "<html>$DOCVERSIONS_VERSION</html>" > _build/dirhtml/index.html
`)

	b := NewScriptBuilder("sh", "", "", nil)
	out, err := b.Build(context.Background(), "v1.2.3", docs)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(docs, "_build", "dirhtml"), out)

	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Equal(t, "<html>v1.2.3</html>", strings.TrimSpace(string(data)))
}

func TestScriptBuilder_Override(t *testing.T) {
	docs := t.TempDir()
	b := NewScriptBuilder("sh", "makedoc.sh", "site", map[string][]string{
		"v2.5.0": {"sh", "-c", "mkdir -p site && touch site/index.html"},
	})

	out, err := b.Build(context.Background(), "v2.5.0", docs)
	require.NoError(t, err, "the script is not needed when an override applies")
	require.FileExists(t, filepath.Join(out, "index.html"))

	_, err = b.Build(context.Background(), "v2.6.0", docs)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestScriptBuilder_Failures(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		shell    string
		noDocs   bool
		override []string
		category errors.ErrorCategory
	}{
		{name: "script exits non-zero", script: "echo broken >&2; exit 3", shell: "sh", category: errors.CategoryBuild},
		{name: "no output directory", script: "true", shell: "sh", category: errors.CategoryBuild},
		{name: "missing script", shell: "sh", category: errors.CategoryConfig},
		{name: "missing shell", script: "true", shell: "definitely-not-a-shell", category: errors.CategoryConfig},
		{name: "missing docs directory", shell: "sh", noDocs: true, category: errors.CategoryConfig},
		{name: "missing override binary", shell: "sh", override: []string{"no-such-sphinx"}, category: errors.CategoryConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := filepath.Join(t.TempDir(), "docs")
			switch {
			case tt.noDocs:
			case tt.script != "":
				writeScript(t, docs, tt.script)
			default:
				require.NoError(t, os.MkdirAll(docs, 0o750))
			}
			var overrides map[string][]string
			if tt.override != nil {
				overrides = map[string][]string{"v1": tt.override}
			}

			_, err := NewScriptBuilder(tt.shell, "", "", overrides).Build(context.Background(), "v1", docs)
			require.Error(t, err)
			require.Equal(t, tt.category, errors.GetCategory(err))
		})
	}
}

func TestScriptBuilder_FailureCarriesOutput(t *testing.T) {
	docs := t.TempDir()
	writeScript(t, docs, "echo sphinx exploded >&2; exit 1")

	_, err := NewScriptBuilder("sh", "", "", nil).Build(context.Background(), "master", docs)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	output, _ := ce.Context().GetString("output")
	require.Contains(t, output, "sphinx exploded")
	version, _ := ce.Context().GetString("version")
	require.Equal(t, "master", version)
}

func TestTail(t *testing.T) {
	require.Equal(t, "abc", tail(" abc\n", 10))
	require.Equal(t, "...def", tail("abcdef", 3))
}
