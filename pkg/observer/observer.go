// Package observer watches dot-delimited paths in a mutable object graph.
//
// A Graph wraps a root map. Graph.Path hands out one *Path per distinct path
// string, so every caller asking for "user.name" shares the same listeners.
// Reads are permissive: a path that runs into a missing key or a non-container
// value reads as nil rather than failing.
package observer

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-drift/ripple/pkg/scheduler"
)

// ChangeFunc receives the new and previous value of a path.
type ChangeFunc func(newValue, oldValue any)

// Graph owns a root object and the observers created for it.
type Graph struct {
	root    map[string]any
	sched   *scheduler.Scheduler
	paths   map[string]*Path
	settled []*settledListener
	settle  scheduler.JobID
	// disposed graphs no longer schedule settle notifications.
	disposed bool
}

type settledListener struct {
	fn func()
}

// New creates a Graph over root. A nil root starts empty. sched receives the
// deduplicated settle notification; it may be nil when nothing listens.
func New(root map[string]any, sched *scheduler.Scheduler) *Graph {
	if root == nil {
		root = make(map[string]any)
	}
	return &Graph{
		root:  root,
		sched: sched,
		paths: make(map[string]*Path),
	}
}

// Root returns the underlying root map.
func (g *Graph) Root() map[string]any {
	return g.root
}

// Path returns the observer for path, creating it on first use.
func (g *Graph) Path(path string) *Path {
	if p, ok := g.paths[path]; ok {
		return p
	}
	p := &Path{graph: g, name: path, segments: split(path)}
	g.paths[path] = p
	return p
}

// Cached reports whether an observer for path is currently cached.
func (g *Graph) Cached(path string) bool {
	_, ok := g.paths[path]
	return ok
}

// Len returns the number of cached observers.
func (g *Graph) Len() int {
	return len(g.paths)
}

// Get reads path.
func (g *Graph) Get(path string) any {
	return g.Path(path).Get()
}

// Set writes path and reports whether anything changed.
func (g *Graph) Set(path string, value any) bool {
	return g.Path(path).Set(value)
}

// OnSettled registers fn to run once per frame after any path changed.
// The returned function removes the listener.
func (g *Graph) OnSettled(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	l := &settledListener{fn: fn}
	g.settled = append(g.settled, l)
	return func() {
		g.settled = slices.DeleteFunc(g.settled, func(x *settledListener) bool { return x == l })
	}
}

// Dispose drops every cached observer and its listeners and cancels the
// pending settle notification.
func (g *Graph) Dispose() {
	for _, p := range slices.Collect(maps.Values(g.paths)) {
		p.Dispose()
	}
	g.settled = nil
	if g.sched != nil {
		g.sched.Cancel(g.settle)
	}
	g.settle = 0
	g.disposed = true
}

func (g *Graph) changed() {
	if g.sched == nil || g.disposed {
		return
	}
	g.settle = g.sched.Once(g.emitSettled, g)
}

func (g *Graph) emitSettled() {
	g.settle = 0
	for _, l := range slices.Clone(g.settled) {
		l.fn()
	}
}

func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// lookup reads a child of v by name. Maps with string keys and exported
// struct fields are supported; everything else misses.
func lookup(v any, name string) (any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		x, ok := m[name]
		return x, ok
	case map[string]string:
		x, ok := m[name]
		return x, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		x := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !x.IsValid() {
			return nil, false
		}
		return x.Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(name)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

// same reports identity equality: == for comparable values, reference
// identity for maps, slices and funcs.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if ra.Type().Comparable() {
		return safeEqual(a, b)
	}
	return false
}

// safeEqual compares values whose type is comparable but may hold
// incomparable dynamic values (interfaces inside structs).
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
