package testing

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
)

// Finder locates nodes in a rendered tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *html.Node) []*html.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*html.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *html.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *html.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *html.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*html.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return dom.TextContent(r.First())
}

// Attr returns an attribute of the first match. Panics if no matches.
func (r FinderResult) Attr(key string) (string, bool) {
	return dom.Attr(r.First(), key)
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type predicateFinder struct {
	match func(*html.Node) bool
	desc  string
}

func (f *predicateFinder) Evaluate(root *html.Node) []*html.Node {
	if root == nil {
		return nil
	}
	return dom.Find(root, f.match)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) Finder {
	tag = strings.ToLower(tag)
	return &predicateFinder{
		match: func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == tag
		},
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText matches the innermost elements whose trimmed text content equals
// text exactly.
func ByText(text string) Finder {
	return &predicateFinder{
		match: func(n *html.Node) bool {
			if n.Type != html.ElementNode || strings.TrimSpace(dom.TextContent(n)) != text {
				return false
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && strings.TrimSpace(dom.TextContent(c)) == text {
					return false
				}
			}
			return true
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches the innermost elements whose text content
// contains substr.
func ByTextContaining(substr string) Finder {
	return &predicateFinder{
		match: func(n *html.Node) bool {
			if n.Type != html.ElementNode || !strings.Contains(dom.TextContent(n), substr) {
				return false
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && strings.Contains(dom.TextContent(c), substr) {
					return false
				}
			}
			return true
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substr),
	}
}

// ByAttr matches elements whose attribute key equals value.
func ByAttr(key, value string) Finder {
	return &predicateFinder{
		match: func(n *html.Node) bool {
			v, ok := dom.Attr(n, key)
			return n.Type == html.ElementNode && ok && v == value
		},
		desc: fmt.Sprintf("ByAttr(%q, %q)", key, value),
	}
}

// ByID matches the element with the given id attribute.
func ByID(id string) Finder {
	f := ByAttr("id", id).(*predicateFinder)
	f.desc = fmt.Sprintf("ByID(%q)", id)
	return f
}

// ByClass matches elements carrying class name.
func ByClass(name string) Finder {
	return &predicateFinder{
		match: func(n *html.Node) bool {
			return n.Type == html.ElementNode && dom.HasClass(n, name)
		},
		desc: fmt.Sprintf("ByClass(%q)", name),
	}
}

// ByPredicate matches nodes for which fn returns true.
func ByPredicate(desc string, fn func(*html.Node) bool) Finder {
	return &predicateFinder{match: fn, desc: fmt.Sprintf("ByPredicate(%s)", desc)}
}

// Descendant matches nodes found by of under any node found by ancestor.
func Descendant(ancestor, of Finder) Finder {
	return &descendantFinder{ancestor: ancestor, of: of}
}

type descendantFinder struct {
	ancestor Finder
	of       Finder
}

func (f *descendantFinder) Evaluate(root *html.Node) []*html.Node {
	seen := make(map[*html.Node]bool)
	var out []*html.Node
	for _, a := range f.ancestor.Evaluate(root) {
		for c := a.FirstChild; c != nil; c = c.NextSibling {
			for _, n := range f.of.Evaluate(c) {
				if !seen[n] {
					seen[n] = true
					out = append(out, n)
				}
			}
		}
	}
	return out
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(%s, %s)", f.ancestor.Description(), f.of.Description())
}
