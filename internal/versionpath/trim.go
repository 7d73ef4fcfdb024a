package versionpath

import (
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// TrimMode selects how the trailing file name is removed from a link value.
type TrimMode string

const (
	// TrimLegacy strips any trailing run of the characters of "index.html",
	// then of ".html". It matches the output already published by the sites
	// this tool maintains, including over-trimmed names such as "annex.html".
	TrimLegacy TrimMode = "legacy"

	// TrimSuffix removes a literal "index.html" suffix, then a literal ".html" suffix.
	TrimSuffix TrimMode = "suffix"
)

const (
	indexCutset = "index.html"
	htmlCutset  = ".html"
)

// ParseTrimMode validates a configured trim mode; empty selects TrimLegacy.
func ParseTrimMode(s string) (TrimMode, error) {
	switch TrimMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TrimLegacy:
		return TrimLegacy, nil
	case TrimSuffix:
		return TrimSuffix, nil
	default:
		return "", errors.ConfigError("unknown link trim mode, want legacy or suffix").
			WithContext("link_trim", s).
			Build()
	}
}

// Trim applies mode to value.
func Trim(value string, mode TrimMode) string {
	if mode == TrimSuffix {
		value = strings.TrimSuffix(value, "index.html")
		return strings.TrimSuffix(value, ".html")
	}
	value = strings.TrimRight(value, indexCutset)
	return strings.TrimRight(value, htmlCutset)
}
