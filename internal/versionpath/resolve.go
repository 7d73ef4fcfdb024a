package versionpath

import (
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// segments returns docPath relative to docRoot, split on "/".
func segments(docRoot, docPath string) ([]string, error) {
	rel, err := filepath.Rel(docRoot, docPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "document is not under the documentation root").
			WithContext("path", docPath).
			WithContext("root", docRoot).
			Build()
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, errors.ValidationError("document is not under the documentation root").
			WithContext("path", docPath).
			WithContext("root", docRoot).
			Build()
	}
	return strings.Split(rel, "/"), nil
}

// joinSegments joins path segments; an empty list yields ".".
func joinSegments(parts []string) string {
	if len(parts) == 0 {
		return "."
	}
	return path.Join(parts...)
}

// Raw returns the link value before the trailing trim is applied.
//
// versionInDir is the version whose build contains docPath, versionInDropdown
// the version the option points to.
func Raw(docRoot, docPath, versionInDropdown, versionInDir, latest string) (string, error) {
	parts, err := segments(docRoot, docPath)
	if err != nil {
		return "", err
	}
	rel := strings.Join(parts, "/")

	if versionInDropdown == versionInDir {
		// A latest document still sitting under its version folder (not yet promoted).
		if parts[0] == latest {
			return joinSegments(parts[1:]), nil
		}
		return rel, nil
	}

	relPath := rel
	if versionInDir != latest {
		relPath = joinSegments(parts[1:])
	}

	// Depth comes from the unstripped path: promoted documents climb one level less.
	depth := len(parts) - 1

	targetPrefix := versionInDropdown
	if versionInDropdown == latest {
		targetPrefix = ""
	}

	value := strings.Repeat("../", depth) + targetPrefix + "/" + relPath
	return strings.ReplaceAll(value, "//", "/"), nil
}

// Resolve returns the option value with the legacy trailing trim applied.
func Resolve(docRoot, docPath, versionInDropdown, versionInDir, latest string) (string, error) {
	raw, err := Raw(docRoot, docPath, versionInDropdown, versionInDir, latest)
	if err != nil {
		return "", err
	}
	return Trim(raw, TrimLegacy), nil
}

// Label is the display text of an option.
func Label(versionInDropdown, latest string) string {
	if versionInDropdown == latest {
		return "latest(" + versionInDropdown + ")"
	}
	return versionInDropdown
}

// Selected reports whether the option for versionInDropdown is the current one.
func Selected(versionInDropdown, versionInDir string) bool {
	return versionInDropdown == versionInDir
}
