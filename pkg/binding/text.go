package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
)

// TextBinding keeps a text node in sync with its template text. When the
// value is a node or component, the text node is replaced by it and later
// renders replace that node in turn.
type TextBinding struct {
	state
	node *html.Node
	text string
}

// NewText creates a binding for a text node. The node's current data is
// the template text.
func NewText(view View, node *html.Node) *TextBinding {
	return &TextBinding{
		state: state{view: view},
		node:  node,
		text:  node.Data,
	}
}

// Node returns the node currently rendered for this binding.
func (b *TextBinding) Node() *html.Node {
	return b.node
}

// Bind renders the text and subscribes to its properties. Text without
// placeholders is left alone and creates no subscription.
func (b *TextBinding) Bind() error {
	if !b.view.Has(b.text) {
		return nil
	}
	return guard(b.view, "text", b.text, func() error {
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

// Unbind stops updates. The rendered node stays in the tree.
func (b *TextBinding) Unbind() {
	b.release()
}

func (b *TextBinding) update() {
	b.job = 0
	if !b.bound {
		return
	}
	v, err := b.view.Interpolate(b.text)
	if err != nil {
		report(b.view, "binding.TextBinding.update", err)
		return
	}
	b.render(v)
}

func (b *TextBinding) render(v any) {
	val := Classify(v)
	b.renders++
	if val.Kind == KindText {
		if b.node.Type == html.TextNode {
			b.node.Data = val.Text
			return
		}
		val.Node = dom.Text(val.Text)
	}
	if val.Node == b.node {
		return
	}
	dom.Replace(b.node, val.Node)
	b.node = val.Node
}
