// Package directives provides the built-in attribute directives:
//
//	on-<event>="{{handler}}"   calls handler when the node receives event
//	show="{{visible}}"          removes the hidden attribute while truthy
//	class-<name>="{{active}}"   toggles class name while truthy
//
// Register installs them on anything that accepts directive registrations,
// such as a core.Runtime.
package directives

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/binding"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/interpolate"
)

// Registrar accepts directive registrations.
type Registrar interface {
	Directive(name string, d binding.Directive)
	DirectivePrefix(prefix string, factory func(suffix string) binding.Directive)
}

// Register installs the built-in directives on r.
func Register(r Registrar) {
	r.Directive("show", Show())
	r.DirectivePrefix("on-", func(event string) binding.Directive { return On(event) })
	r.DirectivePrefix("class-", func(name string) binding.Directive { return Class(name) })
}

// OnDirective dispatches node events to the bound handler.
type OnDirective struct {
	event    string
	handlers map[*html.Node]func(*dom.Event)
	remove   map[*html.Node]func()
}

// On creates a directive that listens for event. The bound value must be a
// func(*dom.Event) or a func(); nil detaches the handler without removing
// the listener.
func On(event string) *OnDirective {
	return &OnDirective{
		event:    event,
		handlers: make(map[*html.Node]func(*dom.Event)),
		remove:   make(map[*html.Node]func()),
	}
}

// Event returns the event type the directive listens for.
func (d *OnDirective) Event() string {
	return d.event
}

func (d *OnDirective) Bind(node *html.Node, view binding.View) {
	d.remove[node] = view.Events().Listen(node, d.event, func(ev *dom.Event) {
		if h := d.handlers[node]; h != nil {
			h(ev)
		}
	})
}

func (d *OnDirective) Update(value any, node *html.Node, view binding.View) {
	switch fn := value.(type) {
	case nil:
		delete(d.handlers, node)
	case func(*dom.Event):
		d.handlers[node] = fn
	case func():
		d.handlers[node] = func(*dom.Event) { fn() }
	default:
		delete(d.handlers, node)
		view.Reporter().Report(&errors.RippleError{
			Op:        "directives.On.Update",
			Kind:      errors.KindBind,
			Component: view.Name(),
			Err:       fmt.Errorf("on-%s: handler must be a func, got %T", d.event, value),
		})
	}
}

func (d *OnDirective) Unbind(node *html.Node, view binding.View) {
	if remove, ok := d.remove[node]; ok {
		remove()
	}
	delete(d.remove, node)
	delete(d.handlers, node)
}

// Show hides the node with the hidden attribute while the value is falsy.
func Show() binding.DirectiveFunc {
	return func(value any, node *html.Node, _ binding.View) {
		if interpolate.Truthy(value) {
			dom.RemoveAttr(node, "hidden")
		} else {
			dom.SetAttr(node, "hidden", "")
		}
	}
}

// Class toggles one class on the node with the truthiness of the value.
func Class(name string) binding.DirectiveFunc {
	return func(value any, node *html.Node, _ binding.View) {
		dom.ToggleClass(node, name, interpolate.Truthy(value))
	}
}
