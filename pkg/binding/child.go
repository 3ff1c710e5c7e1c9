package binding

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
)

// ChildBinding replaces a placeholder element with a child component. The
// element's attributes become the child's data, evaluated against the
// parent, and are pushed again whenever the parent properties they read
// change. The element's inner HTML becomes the child's yield content.
type ChildBinding struct {
	state
	node    *html.Node
	factory ChildFactory
	child   Child
	attrs   []html.Attribute
}

// NewChild creates a binding that instantiates factory in place of node.
func NewChild(view View, node *html.Node, factory ChildFactory) *ChildBinding {
	return &ChildBinding{
		state:   state{view: view},
		node:    node,
		factory: factory,
	}
}

// Child returns the component created by Bind.
func (b *ChildBinding) Child() Child {
	return b.child
}

// Bind creates the child and swaps it into the placeholder's position.
func (b *ChildBinding) Bind() error {
	return guard(b.view, "child:"+b.node.Data, dom.Render(b.node), func() error {
		b.attrs = dom.Attrs(b.node)
		data := make(map[string]any, len(b.attrs))
		var props []string
		for _, a := range b.attrs {
			v, err := b.view.Interpolate(a.Val)
			if err != nil {
				return err
			}
			data[AttrName(a.Key)] = v
			if !b.view.Has(a.Val) {
				continue
			}
			p, err := b.view.Props(a.Val)
			if err != nil {
				return err
			}
			for _, prop := range p {
				if !slices.Contains(props, prop) {
					props = append(props, prop)
				}
			}
		}

		child, err := b.factory(ChildOptions{
			Data:  data,
			Yield: dom.InnerHTML(b.node),
			Owner: b.view,
		})
		if err != nil {
			return err
		}
		dom.Replace(b.node, child.Node())
		b.child = child
		b.props = props
		b.bound = true
		b.renders++
		b.subscribe(b.update, b)
		return nil
	})
}

// Unbind stops updates and destroys the child.
func (b *ChildBinding) Unbind() {
	b.release()
	if b.child != nil {
		b.child.Destroy()
	}
}

func (b *ChildBinding) update() {
	b.job = 0
	if !b.bound {
		return
	}
	b.renders++
	for _, a := range b.attrs {
		if !b.view.Has(a.Val) {
			continue
		}
		v, err := b.view.Interpolate(a.Val)
		if err != nil {
			report(b.view, "binding.ChildBinding.update", err)
			continue
		}
		b.child.Set(AttrName(a.Key), v)
	}
}

// AttrName maps an HTML attribute name to a data key: a data- prefix is
// dropped and kebab-case becomes camelCase.
func AttrName(key string) string {
	key = strings.TrimPrefix(key, "data-")
	parts := strings.Split(key, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
