package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
)

// DirectiveBinding drives a registered Directive from an attribute.
type DirectiveBinding struct {
	state
	node      *html.Node
	name      string
	text      string
	directive Directive
}

// NewDirective creates a binding that feeds the value of attribute name to d.
func NewDirective(view View, node *html.Node, name, text string, d Directive) *DirectiveBinding {
	return &DirectiveBinding{
		state:     state{view: view},
		node:      node,
		name:      name,
		text:      text,
		directive: d,
	}
}

// Name returns the directive attribute name.
func (b *DirectiveBinding) Name() string {
	return b.name
}

// Bind strips the directive attribute, runs the directive's Bind, pushes the
// initial value through Update and subscribes to the referenced properties.
func (b *DirectiveBinding) Bind() error {
	dom.RemoveAttr(b.node, b.name)
	return guard(b.view, "directive:"+b.name, b.text, func() error {
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
		b.directive.Bind(b.node, b.view)
		b.renders++
		b.directive.Update(v, b.node, b.view)
		b.subscribe(b.update, b)
		return nil
	})
}

// Unbind stops updates and runs the directive's Unbind.
func (b *DirectiveBinding) Unbind() {
	wasBound := b.bound
	b.release()
	if wasBound {
		b.directive.Unbind(b.node, b.view)
	}
}

func (b *DirectiveBinding) update() {
	b.job = 0
	if !b.bound {
		return
	}
	v, err := b.view.Interpolate(b.text)
	if err != nil {
		report(b.view, "binding.DirectiveBinding.update", err)
		return
	}
	b.renders++
	b.directive.Update(v, b.node, b.view)
}
