package core

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/binding"
	"github.com/go-drift/ripple/pkg/dom"
)

// render parses the template and binds every node in pre-order. The first
// binding error aborts the walk and is returned.
func (i *Instance) render() error {
	root, err := dom.Parse(i.def.template)
	if err != nil {
		return fmt.Errorf("%s: %w", i.def.name, err)
	}
	i.root = root

	var bindErr error
	dom.Walk(root, func(n *html.Node, next func()) {
		if bindErr != nil {
			return
		}
		bs, descend := i.bindingsFor(n, n == root)
		for _, b := range bs {
			if err := b.Bind(); err != nil {
				bindErr = err
				return
			}
			i.bindings = append(i.bindings, b)
		}
		if descend {
			next()
		}
	})
	return bindErr
}

// bindingsFor returns the bindings for n and whether its children should be
// walked. A child component owns its subtree, so it is not descended into.
// The root element is never treated as a child component.
func (i *Instance) bindingsFor(n *html.Node, isRoot bool) ([]binding.Binding, bool) {
	switch n.Type {
	case html.TextNode:
		if i.Has(n.Data) {
			return []binding.Binding{binding.NewText(i, n)}, true
		}
		return nil, true

	case html.ElementNode:
		if !isRoot {
			if factory, ok := i.Component(strings.ToLower(n.Data)); ok {
				return []binding.Binding{binding.NewChild(i, n, factory)}, false
			}
		}
		var bs []binding.Binding
		for _, a := range dom.Attrs(n) {
			if a.Namespace != "" {
				continue
			}
			if d, ok := i.Directive(a.Key); ok {
				bs = append(bs, binding.NewDirective(i, n, a.Key, a.Val, d))
				continue
			}
			if i.Has(a.Val) {
				bs = append(bs, binding.NewAttr(i, n, a.Key, a.Val))
			}
		}
		return bs, true
	}
	return nil, true
}
