package logfields

import (
	"errors"
	"testing"
	"time"
)

func TestHelpersUseCanonicalKeys(t *testing.T) {
	cases := map[string]string{
		RunID("abc").Key:          KeyRunID,
		Version("v1.2.3").Key:     KeyVersion,
		Latest("v1.2.4").Key:      KeyLatest,
		Stage("build").Key:        KeyStage,
		Path("/docs").Key:         KeyPath,
		Dir("/tmp/x").Key:         KeyDir,
		Count(3).Key:              KeyCount,
		Mode("full").Key:          KeyMode,
		Commit("deadbeef").Key:    KeyCommit,
		Duration(time.Second).Key: KeyDurationMS,
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("expected key %q, got %q", want, got)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if v := Error(nil).Value.String(); v != "" {
		t.Errorf("nil error should produce empty value, got %q", v)
	}
	if v := Error(errors.New("boom")).Value.String(); v != "boom" {
		t.Errorf("unexpected error value %q", v)
	}
}

func TestDurationMilliseconds(t *testing.T) {
	if v := Duration(1500 * time.Millisecond).Value.Float64(); v != 1500 {
		t.Errorf("expected 1500ms, got %v", v)
	}
}
