package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/interpolate"
)

// ValueKind tags how an evaluated template value renders.
type ValueKind int

const (
	// KindText renders as a text node or attribute string.
	KindText ValueKind = iota
	// KindNode renders a caller-supplied HTML node in place.
	KindNode
	// KindComponent renders the root node of a component.
	KindComponent
)

func (k ValueKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindComponent:
		return "component"
	default:
		return "text"
	}
}

// Renderable is anything that owns a root node, typically a component.
type Renderable interface {
	Node() *html.Node
}

// Value is an evaluated template value tagged with its render kind.
type Value struct {
	Kind      ValueKind
	Text      string
	Node      *html.Node
	Component Renderable
}

// Classify tags v for rendering.
func Classify(v any) Value {
	switch x := v.(type) {
	case *html.Node:
		if x != nil {
			return Value{Kind: KindNode, Node: x}
		}
	case Renderable:
		if n := x.Node(); n != nil {
			return Value{Kind: KindComponent, Component: x, Node: n}
		}
	}
	return Value{Kind: KindText, Text: interpolate.Stringify(v)}
}
