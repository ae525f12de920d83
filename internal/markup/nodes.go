package markup

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	// RepeatMarker is the `is` value of a repeating template.
	RepeatMarker = "dom-repeat"
	// BindMarker is the `is` value of an auto-binding root template.
	BindMarker = "dom-bind"

	// DefaultItemName and DefaultIndexName are the iteration variables of a
	// repeating template without `as` / `index-as` attributes.
	DefaultItemName  = "item"
	DefaultIndexName = "index"
)

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// IsRepeat reports whether n is a <template is="dom-repeat"> element.
func IsRepeat(n *html.Node) bool {
	if !IsElement(n, "template") {
		return false
	}
	is, _ := Attr(n, "is")
	return is == RepeatMarker
}

// IsHostTemplate reports whether n is a template whose bindings belong to
// the host component: a plain <template> or a dom-bind root.
func IsHostTemplate(n *html.Node) bool {
	if !IsElement(n, "template") {
		return false
	}
	is, ok := Attr(n, "is")
	return !ok || is == "" || is == BindMarker
}

// RepeatVariables returns the item and index variable names declared by a
// repeating template. Polymer spells the index attribute `index-as`; the
// camel-case `indexAs` form is lowercased by the parser and accepted too.
func RepeatVariables(n *html.Node) (item, index string) {
	item, index = DefaultItemName, DefaultIndexName
	if v, ok := Attr(n, "as"); ok && strings.TrimSpace(v) != "" {
		item = strings.TrimSpace(v)
	}
	for _, key := range []string{"index-as", "indexas"} {
		if v, ok := Attr(n, key); ok && strings.TrimSpace(v) != "" {
			index = strings.TrimSpace(v)
			break
		}
	}
	return item, index
}

// Find returns the first node in document order under root (root included)
// for which match returns true.
func Find(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// ModuleID returns the id of the first <dom-module> element, or "" if there
// is none.
func ModuleID(root *html.Node) string {
	module := Find(root, func(n *html.Node) bool {
		return IsElement(n, "dom-module")
	})
	id, _ := Attr(module, "id")
	return strings.TrimSpace(id)
}

// TextChild returns n's first child when it is a text node, which is how the
// parser stores the body of raw text elements such as <script>.
func TextChild(n *html.Node) (*html.Node, bool) {
	if n == nil || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return nil, false
	}
	return n.FirstChild, true
}
