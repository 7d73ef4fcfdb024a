package versionpath

// Option is one entry of the version selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Resolver binds the values that stay fixed for a whole run.
type Resolver struct {
	DocRoot string
	Latest  string
	Trim    TrimMode
}

// Value returns the trimmed link from docPath (built from versionInDir) to versionInDropdown.
func (r Resolver) Value(docPath, versionInDropdown, versionInDir string) (string, error) {
	raw, err := Raw(r.DocRoot, docPath, versionInDropdown, versionInDir, r.Latest)
	if err != nil {
		return "", err
	}
	return Trim(raw, r.Trim), nil
}

// Options builds one Option per version, in the given order.
func (r Resolver) Options(docPath, versionInDir string, versions []string) ([]Option, error) {
	options := make([]Option, 0, len(versions))
	for _, v := range versions {
		value, err := r.Value(docPath, v, versionInDir)
		if err != nil {
			return nil, err
		}
		options = append(options, Option{
			Value:    value,
			Label:    Label(v, r.Latest),
			Selected: Selected(v, versionInDir),
		})
	}
	return options, nil
}
