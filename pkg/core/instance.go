package core

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/binding"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/interpolate"
	"github.com/go-drift/ripple/pkg/observer"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// YieldKey is the data key holding the content projected into a component.
const YieldKey = "yield"

// Instance is a live component: its data, rendered tree and bindings.
type Instance struct {
	lifecycle

	id       string
	def      *Definition
	rt       *Runtime
	graph    *observer.Graph
	root     *html.Node
	owner    *Instance
	children []*Instance
	bindings []binding.Binding
	yield    string
	mounted  bool

	watchers  map[string][]*watcher
	listeners map[string][]*listener
}

type watcher struct {
	unsubscribe func()
}

type listener struct {
	fn func(args ...any)
}

type instanceOptions struct {
	owner *Instance
	yield string
}

// Option configures Definition.New.
type Option func(*instanceOptions)

// WithOwner makes the instance a child of owner. Destroying owner destroys
// the instance.
func WithOwner(owner *Instance) Option {
	return func(o *instanceOptions) {
		o.owner = owner
	}
}

// WithYield sets the markup projected into the template as {{yield}}.
func WithYield(markup string) Option {
	return func(o *instanceOptions) {
		o.yield = markup
	}
}

// New creates, renders and binds an instance of d. data is copied; the
// caller's map is not modified. Attribute validation failures wrap
// errors.ErrRequiredAttr or errors.ErrAttrType, and template failures are
// returned as *errors.BindError.
func (d *Definition) New(rt *Runtime, data map[string]any, opts ...Option) (*Instance, error) {
	var o instanceOptions
	for _, opt := range opts {
		opt(&o)
	}

	scope := maps.Clone(data)
	if scope == nil {
		scope = make(map[string]any)
	}
	if err := d.validate(scope); err != nil {
		return nil, err
	}
	if _, ok := scope[YieldKey]; !ok && o.yield != "" {
		y, err := yieldNode(o.yield)
		if err != nil {
			return nil, err
		}
		scope[YieldKey] = y
	}

	inst := &Instance{
		id:        uuid.NewString(),
		def:       d,
		rt:        rt,
		graph:     observer.New(scope, rt.sched),
		owner:     o.owner,
		yield:     o.yield,
		watchers:  make(map[string][]*watcher),
		listeners: make(map[string][]*listener),
	}
	runHooks(d.onInitialize, inst)

	if err := inst.render(); err != nil {
		inst.unbind()
		inst.graph.Dispose()
		return nil, err
	}
	if inst.owner != nil {
		inst.owner.children = append(inst.owner.children, inst)
	}
	rt.instances++
	runHooks(d.onReady, inst)
	return inst, nil
}

// yieldNode turns projected markup into one node. Several top-level nodes
// are wrapped in a span.
func yieldNode(markup string) (*html.Node, error) {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	wrap := &html.Node{Type: html.ElementNode, Data: "span"}
	for _, n := range nodes {
		wrap.AppendChild(n)
	}
	return wrap, nil
}

// ID returns the instance's unique id.
func (i *Instance) ID() string {
	return i.id
}

// Name returns the component name.
func (i *Instance) Name() string {
	return i.def.name
}

// Definition returns the definition the instance was created from.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Runtime returns the runtime the instance belongs to.
func (i *Instance) Runtime() *Runtime {
	return i.rt
}

// Owner returns the instance that declared this one in its template, or nil.
func (i *Instance) Owner() *Instance {
	return i.owner
}

// Children returns the child instances created by the template.
func (i *Instance) Children() []*Instance {
	return slices.Clone(i.children)
}

// Bindings returns the active bindings of the template.
func (i *Instance) Bindings() []binding.Binding {
	return slices.Clone(i.bindings)
}

// Yield returns the projected markup passed with WithYield.
func (i *Instance) Yield() string {
	return i.yield
}

// Data returns the instance's root data map.
func (i *Instance) Data() map[string]any {
	return i.graph.Root()
}

// Graph returns the observer graph over the instance data.
func (i *Instance) Graph() *observer.Graph {
	return i.graph
}

// Get reads a dot-delimited path from the instance data.
func (i *Instance) Get(path string) any {
	return i.graph.Get(path)
}

// Set writes a dot-delimited path and reports whether anything changed.
// Bound nodes update on the next flush. Set does nothing once the instance
// is destroyed.
func (i *Instance) Set(path string, value any) bool {
	if i.Destroyed() {
		return false
	}
	return i.graph.Set(path, value)
}

// Attr returns the observer for a declared or ad-hoc attribute.
func (i *Instance) Attr(name string) *observer.Path {
	return i.graph.Path(name)
}

// Change subscribes fn to changes of path until the instance is destroyed.
// The returned function unsubscribes early.
func (i *Instance) Change(path string, fn observer.ChangeFunc) func() {
	unsubscribe := i.graph.Path(path).Change(fn)
	cancel := i.OnDispose(unsubscribe)
	return func() {
		unsubscribe()
		cancel()
	}
}

// Watch calls fn synchronously after any of paths changes. The returned
// function removes the subscription; Unwatch removes every subscription made
// for a path.
func (i *Instance) Watch(paths []string, fn func()) func() {
	var ws []*watcher
	for _, p := range paths {
		w := &watcher{unsubscribe: i.graph.Path(p).Change(func(any, any) { fn() })}
		i.watchers[p] = append(i.watchers[p], w)
		ws = append(ws, w)
	}
	return func() {
		for _, w := range ws {
			w.unsubscribe()
		}
		for _, p := range paths {
			i.watchers[p] = slices.DeleteFunc(i.watchers[p], func(x *watcher) bool {
				return slices.Contains(ws, x)
			})
			if len(i.watchers[p]) == 0 {
				delete(i.watchers, p)
			}
		}
	}
}

// Unwatch removes every Watch subscription on path.
func (i *Instance) Unwatch(path string) {
	for _, w := range i.watchers[path] {
		w.unsubscribe()
	}
	delete(i.watchers, path)
}

// Watchers returns the number of Watch subscriptions on path.
func (i *Instance) Watchers(path string) int {
	return len(i.watchers[path])
}

// Interpolate evaluates template text against the instance data. The
// instance is bound to "this".
func (i *Instance) Interpolate(text string) (any, error) {
	return i.rt.interp.Value(text, interpolate.Options{
		Scope:   i.graph.Root(),
		Context: i,
		Filters: i.def.filters,
	})
}

// Props lists the data paths read by template text.
func (i *Instance) Props(text string) ([]string, error) {
	return i.rt.interp.Props(text)
}

// Has reports whether text contains a placeholder.
func (i *Instance) Has(text string) bool {
	return i.rt.interp.Has(text)
}

// Scheduler returns the runtime's scheduler.
func (i *Instance) Scheduler() *scheduler.Scheduler {
	return i.rt.sched
}

// Events returns the runtime's node event registry.
func (i *Instance) Events() *dom.Events {
	return i.rt.events
}

// Reporter returns the runtime's error reporter.
func (i *Instance) Reporter() *errors.Reporter {
	return i.rt.reporter
}

// Directive resolves a directive by attribute name, preferring the
// definition's registrations over the runtime's.
func (i *Instance) Directive(name string) (binding.Directive, bool) {
	if d, ok := i.def.directives[name]; ok {
		return d, true
	}
	return i.rt.LookupDirective(name)
}

// Component resolves the child factory for a tag, preferring the
// definition's registrations over the runtime's.
func (i *Instance) Component(tag string) (binding.ChildFactory, bool) {
	def, ok := i.def.Child(tag)
	if !ok {
		def, ok = i.rt.components[tag]
	}
	if !ok {
		return nil, false
	}
	return func(opts binding.ChildOptions) (binding.Child, error) {
		return def.New(i.rt, opts.Data, WithOwner(i), WithYield(opts.Yield))
	}, true
}

// Node returns the root element of the rendered template.
func (i *Instance) Node() *html.Node {
	return i.root
}

// HTML serializes the rendered tree.
func (i *Instance) HTML() string {
	return dom.Render(i.root)
}

// On registers fn for a component event. The returned function removes it.
func (i *Instance) On(event string, fn func(args ...any)) func() {
	if fn == nil {
		return func() {}
	}
	l := &listener{fn: fn}
	i.listeners[event] = append(i.listeners[event], l)
	return func() {
		i.listeners[event] = slices.DeleteFunc(i.listeners[event], func(x *listener) bool { return x == l })
	}
}

// Emit calls the listeners registered for event in registration order.
func (i *Instance) Emit(event string, args ...any) {
	for _, l := range slices.Clone(i.listeners[event]) {
		l.fn(args...)
	}
}

// Destroy tears the instance down: it is removed from the tree, its
// bindings are unbound and their pending renders cancelled, the observer
// graph is disposed, owned children are destroyed, and finally disposers run
// and event listeners are cleared. Calling Destroy again does nothing.
func (i *Instance) Destroy() {
	if !i.markDestroying() {
		return
	}
	runHooks(i.def.onDestroy, i)
	i.Emit("destroying")

	if i.root != nil && i.root.Parent != nil {
		i.Remove()
	}
	i.unbind()
	for _, c := range slices.Clone(i.children) {
		c.Destroy()
	}
	for p := range i.watchers {
		i.Unwatch(p)
	}
	i.graph.Dispose()
	if i.owner != nil {
		i.owner.children = slices.DeleteFunc(i.owner.children, func(c *Instance) bool { return c == i })
	}
	i.rt.instances--

	i.runDisposers()
	i.Emit("destroyed")
	clear(i.listeners)
}

func (i *Instance) unbind() {
	for _, b := range i.bindings {
		b.Unbind()
	}
	i.bindings = nil
}
