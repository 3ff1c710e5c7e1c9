package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// View is the component a binding belongs to.
type View interface {
	// Name identifies the component in error reports.
	Name() string
	// Interpolate evaluates template text against the view's properties.
	Interpolate(text string) (any, error)
	// Props lists the property paths read by template text.
	Props(text string) ([]string, error)
	// Has reports whether template text contains a placeholder.
	Has(text string) bool
	// Watch calls fn after any of paths changes. The returned function
	// removes the subscription.
	Watch(paths []string, fn func()) func()
	// Scheduler defers renders to the next flush.
	Scheduler() *scheduler.Scheduler
	// Events is the listener registry for rendered nodes.
	Events() *dom.Events
	// Directive looks up a registered directive by attribute name.
	Directive(name string) (Directive, bool)
	// Component looks up a registered child component by tag name.
	Component(tag string) (ChildFactory, bool)
	// Reporter receives update failures.
	Reporter() *errors.Reporter
}

// Binding is a live connection between a node and template text.
type Binding interface {
	// Bind renders once and subscribes to the referenced properties.
	Bind() error
	// Unbind removes subscriptions and cancels any pending render.
	Unbind()
	// Subscriptions returns the number of watched properties.
	Subscriptions() int
	// Bound reports whether the binding is active.
	Bound() bool
	// Renders returns how many times the binding has written to the tree.
	Renders() int
}

// Directive is attribute-driven behaviour attached to an element. The
// directive attribute is removed from the element before Bind runs.
type Directive interface {
	Bind(node *html.Node, view View)
	Update(value any, node *html.Node, view View)
	Unbind(node *html.Node, view View)
}

// DirectiveFunc adapts an update function to a Directive with no-op Bind
// and Unbind.
type DirectiveFunc func(value any, node *html.Node, view View)

// Bind does nothing.
func (f DirectiveFunc) Bind(*html.Node, View) {}

// Update calls f.
func (f DirectiveFunc) Update(value any, node *html.Node, view View) {
	f(value, node, view)
}

// Unbind does nothing.
func (f DirectiveFunc) Unbind(*html.Node, View) {}

// Child is a component instance created by a ChildBinding.
type Child interface {
	Renderable
	Set(path string, value any) bool
	Destroy()
}

// ChildOptions are the inputs for creating a child component.
type ChildOptions struct {
	// Data holds the evaluated attributes of the placeholder element.
	Data map[string]any
	// Yield is the inner HTML of the placeholder element.
	Yield string
	// Owner is the view that declared the child.
	Owner View
}

// ChildFactory creates a child component.
type ChildFactory func(opts ChildOptions) (Child, error)

// state tracks the shared lifecycle of the binding kinds.
type state struct {
	view    View
	unwatch func()
	job     scheduler.JobID
	props   []string
	bound   bool
	renders int
}

func (s *state) Bound() bool {
	return s.bound
}

func (s *state) Renders() int {
	return s.renders
}

func (s *state) Subscriptions() int {
	if s.unwatch == nil {
		return 0
	}
	return len(s.props)
}

// subscribe watches props and schedules fn, deduplicated by ctx, on change.
func (s *state) subscribe(fn func(), ctx any) {
	if len(s.props) == 0 {
		return
	}
	sched := s.view.Scheduler()
	s.unwatch = s.view.Watch(s.props, func() {
		if s.bound {
			s.job = sched.Once(fn, ctx)
		}
	})
}

func (s *state) release() {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	s.view.Scheduler().Cancel(s.job)
	s.job = 0
	s.bound = false
}
