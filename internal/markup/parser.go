// Package markup parses component markup into a mutable node tree and
// serializes it back.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed markup unit. Root is a synthetic document node whose
// children are the top-level nodes of the input.
type Document struct {
	Root *html.Node

	// full records whether the input was a complete HTML document. Fragments
	// are rendered without the html/head/body wrapper the parser would add.
	full bool
}

// Parse converts markup into a Document. Inputs that start with a doctype or
// an <html> tag are parsed as full documents; anything else, such as a
// <dom-module> component file, is parsed as a body fragment.
func Parse(src string) (*Document, error) {
	if isFullDocument(src) {
		root, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		return &Document{Root: root, full: true}, nil
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return &Document{Root: root}, nil
}

// Render serializes the document tree back to markup.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return buf.String(), nil
}

// IsFull reports whether the document was parsed as a complete HTML page.
func (d *Document) IsFull() bool {
	return d.full
}

func isFullDocument(src string) bool {
	head := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}
