package dropdown

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
	"git.home.luguber.info/inful/docversions/internal/versionpath"
)

const (
	// SelectClass marks the selector in current themes.
	SelectClass = "version-select"
	// LegacySelectID marks the selector in older themes.
	LegacySelectID = "version"
	// ContainerClass marks the element hosting the selector.
	ContainerClass = "sd-text-center"

	navigateOnChange = "window.location.href=this.value"
)

// RewriteDocument replaces the options of the version selector in src. It
// reports whether the selector is part of the page, which is false only when a
// selector had to be created and there was no container to put it in.
func RewriteDocument(src []byte, options []versionpath.Option) ([]byte, bool, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, false, errors.DocumentError("failed to parse HTML").WithCause(err).Build()
	}

	sel := findSelector(doc)
	setOptions(sel, options)

	if container := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, atom.Div) && hasClass(n, ContainerClass)
	}); container != nil {
		place(container, sel)
	}
	if sel.Parent == nil {
		return src, false, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, false, errors.DocumentError("failed to render HTML").WithCause(err).Build()
	}
	return buf.Bytes(), true, nil
}

// findSelector returns the existing selector or a new detached one.
func findSelector(doc *html.Node) *html.Node {
	if n := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, atom.Select) && hasClass(n, SelectClass)
	}); n != nil {
		return n
	}
	if n := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, atom.Select) && getAttr(n, "id") == LegacySelectID
	}); n != nil {
		return n
	}
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Select,
		Data:     "select",
		Attr: []html.Attribute{
			{Key: "onchange", Val: navigateOnChange},
			{Key: "class", Val: SelectClass},
		},
	}
}

func setOptions(sel *html.Node, options []versionpath.Option) {
	for c := sel.FirstChild; c != nil; c = sel.FirstChild {
		sel.RemoveChild(c)
	}
	for _, o := range options {
		opt := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Option,
			Data:     "option",
			Attr:     []html.Attribute{{Key: "value", Val: o.Value}},
		}
		if o.Selected {
			opt.Attr = append(opt.Attr, html.Attribute{Key: "selected", Val: "selected"})
		}
		opt.AppendChild(&html.Node{Type: html.TextNode, Data: o.Label})
		sel.AppendChild(opt)
	}
}

// place drops every selector directly inside container and puts sel where the
// first of them was, or at the end when there was none.
func place(container, sel *html.Node) {
	var anchor *html.Node
	seen := false
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		if isElement(c, atom.Select) {
			seen = true
			container.RemoveChild(c)
		} else if seen && anchor == nil {
			anchor = c
		}
		c = next
	}
	if sel.Parent != nil {
		sel.Parent.RemoveChild(sel)
	}
	if anchor != nil {
		container.InsertBefore(sel, anchor)
		return
	}
	container.AppendChild(sel)
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(getAttr(n, "class")), class)
}
