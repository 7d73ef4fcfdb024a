package orchestrator

import (
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// Mode selects which versions a run builds.
type Mode string

const (
	// ModeFull builds every missing version, promotes the latest and rewrites
	// the selectors of every dropdown version.
	ModeFull Mode = "full"
	// ModeDefault rebuilds the default branch only. Nothing is promoted.
	ModeDefault Mode = "default"
	// ModeLatest rebuilds the latest release and promotes it.
	ModeLatest Mode = "latest"
)

// ParseMode validates a mode name; empty selects ModeFull.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeDefault:
		return ModeDefault, nil
	case ModeLatest:
		return ModeLatest, nil
	default:
		return "", errors.ValidationError("unknown run mode, want full, default or latest").
			WithContext("mode", s).
			Build()
	}
}

func (m Mode) promotes() bool { return m != ModeDefault }
