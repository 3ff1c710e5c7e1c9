// Package dom provides the small set of HTML tree operations the binding
// runtime needs: parsing templates, walking, replacing and serializing nodes.
// Trees are golang.org/x/net/html nodes.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/ripple/pkg/errors"
)

// Visitor is called for each node during Walk. Calling next descends into
// the node's children; not calling it skips the subtree.
type Visitor func(n *html.Node, next func())

// ParseFragment parses markup in a <body> context and returns the
// top-level nodes, detached from any parent.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// Parse parses markup that must contain exactly one root element.
// Whitespace and comments around the root are ignored.
func Parse(markup string) (*html.Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	var root *html.Node
	for _, n := range nodes {
		switch {
		case n.Type == html.CommentNode:
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
		case n.Type == html.ElementNode && root == nil:
			root = n
		default:
			return nil, fmt.Errorf("%w: template must have a single root element", errors.ErrTemplate)
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: template has no root element", errors.ErrTemplate)
	}
	return root, nil
}

// Walk visits root and its descendants in pre-order. The sibling that
// follows each child is captured before the child is visited, so a visitor
// may replace or remove the node it is given.
func Walk(root *html.Node, visit Visitor) {
	if root == nil {
		return
	}
	visit(root, func() {
		for c := root.FirstChild; c != nil; {
			next := c.NextSibling
			Walk(c, visit)
			c = next
		}
	})
}

// Find returns the nodes under root (inclusive) matching pred, in pre-order.
func Find(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node, next func()) {
		if pred(n) {
			out = append(out, n)
		}
		next()
	})
	return out
}

// voidElements never have children or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Clone returns a deep copy of n without a parent.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Replace puts replacement where old is. It does nothing when old is
// detached or the nodes are the same.
func Replace(old, replacement *html.Node) {
	if old == nil || replacement == nil || old == replacement || old.Parent == nil {
		return
	}
	Remove(replacement)
	old.Parent.InsertBefore(replacement, old)
	old.Parent.RemoveChild(old)
}

// Append detaches n and appends it to parent.
func Append(parent, n *html.Node) {
	Remove(n)
	parent.AppendChild(n)
}

// InsertBefore detaches n and inserts it before ref.
func InsertBefore(ref, n *html.Node) error {
	if ref.Parent == nil {
		return fmt.Errorf("insert before a detached node")
	}
	Remove(n)
	ref.Parent.InsertBefore(n, ref)
	return nil
}

// InsertAfter detaches n and inserts it after ref.
func InsertAfter(ref, n *html.Node) error {
	if ref.Parent == nil {
		return fmt.Errorf("insert after a detached node")
	}
	Remove(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
	return nil
}

// Remove detaches n from its parent, if any.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Render serializes n and its subtree.
func Render(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return ""
		}
	}
	return sb.String()
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node, next func()) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		next()
	})
	return sb.String()
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}
