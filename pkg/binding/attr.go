package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/interpolate"
)

// AttrBinding keeps one attribute in sync with its template text. Boolean
// attributes are removed when the value is falsy.
type AttrBinding struct {
	state
	node *html.Node
	name string
	text string
}

// NewAttr creates a binding for attribute name on node.
func NewAttr(view View, node *html.Node, name, text string) *AttrBinding {
	return &AttrBinding{
		state: state{view: view},
		node:  node,
		name:  name,
		text:  text,
	}
}

// Name returns the attribute name.
func (b *AttrBinding) Name() string {
	return b.name
}

// Bind renders the attribute and subscribes to its properties.
func (b *AttrBinding) Bind() error {
	if !b.view.Has(b.text) {
		return nil
	}
	return guard(b.view, "attr:"+b.name, b.text, func() error {
		props, err := b.view.Props(b.text)
		if err != nil {
			return err
		}
		v, err := b.view.Interpolate(b.text)
		if err != nil {
			return err
		}
		b.props = props
		b.bound = true
		b.render(v)
		b.subscribe(b.update, b)
		return nil
	})
}

// Unbind stops updates.
func (b *AttrBinding) Unbind() {
	b.release()
}

func (b *AttrBinding) update() {
	b.job = 0
	if !b.bound {
		return
	}
	v, err := b.view.Interpolate(b.text)
	if err != nil {
		report(b.view, "binding.AttrBinding.update", err)
		return
	}
	b.render(v)
}

func (b *AttrBinding) render(v any) {
	b.renders++
	if dom.IsBooleanAttr(b.name) {
		if interpolate.Truthy(v) {
			dom.SetAttr(b.node, b.name, "")
		} else {
			dom.RemoveAttr(b.node, b.name)
		}
		return
	}
	dom.SetAttr(b.node, b.name, interpolate.Stringify(v))
}
