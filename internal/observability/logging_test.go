package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithMode(ctx, "full")
	ctx = WithStage(ctx, "build")
	ctx = WithVersion(ctx, "v1.2.3")

	lc := GetContext(ctx)
	require.Equal(t, "run-1", lc.RunID)
	require.Equal(t, "full", lc.Mode)
	require.Equal(t, "build", lc.Stage)
	require.Equal(t, "v1.2.3", lc.Version)
}

func TestOverwriteContextValue(t *testing.T) {
	ctx := WithStage(context.Background(), "scan")
	child := WithStage(ctx, "promote")

	require.Equal(t, "promote", GetContext(child).Stage)
	require.Equal(t, "scan", GetContext(ctx).Stage, "parent context must not change")
}

func TestEmptyContext(t *testing.T) {
	require.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestInfoContextAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithVersion(WithRunID(context.Background(), "run-7"), "master")
	InfoContext(ctx, "built", slog.Int("files", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "built", rec["msg"])
	require.Equal(t, "run-7", rec["run_id"])
	require.Equal(t, "master", rec["version"])
	require.InDelta(t, 3, rec["files"], 0)
	require.NotContains(t, rec, "stage")
}
