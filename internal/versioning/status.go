package versioning

import (
	"os"
	"slices"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// Status partitions the dropdown versions against what the tree already holds.
type Status struct {
	Existing []string
	Missing  []string
}

// Status inspects docRoot. A tracked version exists when a directory named after
// it is present; the latest version also exists when promoted names it, meaning
// its build already sits at the root.
func (c *Catalog) Status(docRoot, promoted string) (*Status, error) {
	entries, err := os.ReadDir(docRoot)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read documentation root").
			WithSeverity(errors.SeverityFatal).
			WithContext("path", docRoot).
			Build()
	}

	status := &Status{}
	limit := c.ScanLimit()
	for _, e := range entries {
		if len(status.Existing) >= limit {
			break
		}
		if e.IsDir() && c.IsTracked(e.Name()) {
			status.Existing = append(status.Existing, e.Name())
		}
	}
	if promoted != "" && promoted == c.Latest() && !slices.Contains(status.Existing, promoted) {
		status.Existing = append(status.Existing, promoted)
	}

	for _, v := range c.DropdownOrder() {
		if !slices.Contains(status.Existing, v) {
			status.Missing = append(status.Missing, v)
		}
	}
	return status, nil
}
