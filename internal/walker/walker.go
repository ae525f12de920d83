// Package walker drives binding visitors over the host templates of a
// component document.
package walker

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/markup"
)

// Visitor inspects one text node's data or one attribute value. It returns
// the replacement and true to change the content, or false to keep it.
type Visitor interface {
	Visit(text string, node *html.Node, scope *binding.Scope) (string, bool)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(text string, node *html.Node, scope *binding.Scope) (string, bool)

// Visit calls f.
func (f VisitorFunc) Visit(text string, node *html.Node, scope *binding.Scope) (string, bool) {
	return f(text, node, scope)
}

// HostTemplates returns the top-level host templates under root in document
// order. Templates nested inside a host are part of that host's subtree and
// are not returned separately.
func HostTemplates(root *html.Node) []*html.Node {
	var hosts []*html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if markup.IsHostTemplate(n) {
			hosts = append(hosts, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	if root != nil {
		find(root)
	}
	return hosts
}

// Walk visits every non-empty text node and every element attribute below
// each host. The host tags themselves and the attributes of repeating
// templates are not visited; a repeating template's `items` belong to the
// enclosing scope and are evaluated by Polymer, not rewritten.
func Walk(hosts []*html.Node, scope *binding.Scope, v Visitor) {
	for _, host := range hosts {
		for c := host.FirstChild; c != nil; c = c.NextSibling {
			walk(c, scope, v)
		}
	}
}

func walk(n *html.Node, scope *binding.Scope, v Visitor) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		if out, ok := v.Visit(n.Data, n, scope); ok {
			n.Data = out
		}
		return
	case html.ElementNode:
		if !markup.IsRepeat(n) {
			for i := range n.Attr {
				if out, ok := v.Visit(n.Attr[i].Val, n, scope); ok {
					n.Attr[i].Val = out
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, scope, v)
	}
}
