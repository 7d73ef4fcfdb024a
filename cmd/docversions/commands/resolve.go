package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

// ResolveCmd implements the 'resolve' command. It needs no configuration.
type ResolveCmd struct {
	Root   string `required:"" help:"Documentation root"`
	Doc    string `arg:"" help:"Document path, absolute or relative to --root"`
	Target string `required:"" help:"Version the selector entry points to"`
	InDir  string `name:"in-dir" required:"" help:"Version the document was built from"`
	Latest string `required:"" help:"Latest version, the one promoted to the root"`
	Trim   string `help:"Trailing trim mode: legacy or suffix" default:"legacy" enum:"legacy,suffix"`
	Raw    bool   `help:"Also print the value before trimming"`
}

func (r *ResolveCmd) Run(_ *Global, _ *CLI) error {
	return r.print(os.Stdout)
}

func (r *ResolveCmd) print(w io.Writer) error {
	mode, err := versionpath.ParseTrimMode(r.Trim)
	if err != nil {
		return err
	}
	doc := r.Doc
	if !filepath.IsAbs(doc) {
		doc = filepath.Join(r.Root, doc)
	}

	resolver := versionpath.Resolver{DocRoot: r.Root, Latest: r.Latest, Trim: mode}
	value, err := resolver.Value(doc, r.Target, r.InDir)
	if err != nil {
		return err
	}
	if r.Raw {
		raw, err := versionpath.Raw(r.Root, doc, r.Target, r.InDir, r.Latest)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "raw:      %s\n", raw)
	}
	_, _ = fmt.Fprintf(w, "value:    %s\n", value)
	_, _ = fmt.Fprintf(w, "label:    %s\n", versionpath.Label(r.Target, r.Latest))
	_, _ = fmt.Fprintf(w, "selected: %t\n", versionpath.Selected(r.Target, r.InDir))
	return nil
}
