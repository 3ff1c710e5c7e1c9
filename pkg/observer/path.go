package observer

import (
	"maps"
	"slices"
	"strings"
)

// Path observes one dot-delimited path of a Graph.
type Path struct {
	graph     *Graph
	name      string
	segments  []string
	listeners []*listener
	disposed  bool
}

type listener struct {
	fn ChangeFunc
}

// Name returns the dot-delimited path.
func (p *Path) Name() string {
	return p.name
}

// Get returns the value at the path, or nil if any segment is missing.
func (p *Path) Get() any {
	var v any = p.graph.root
	for _, seg := range p.segments {
		next, ok := lookup(v, seg)
		if !ok {
			return nil
		}
		v = next
	}
	return v
}

// Set writes value at the path and reports whether anything changed.
//
// A map[string]any value is merged key by key: each key is set as its own
// sub-path, and one change is emitted for this path only when at least one
// sub-path changed. Any other value is compared by identity with the current
// value; on a change it is written, creating intermediate maps as needed,
// and listeners run before Set returns. The root path "" only accepts maps.
func (p *Path) Set(value any) bool {
	if obj, ok := value.(map[string]any); ok {
		return p.merge(obj)
	}
	if len(p.segments) == 0 {
		return false
	}

	old := p.Get()
	if same(old, value) {
		return false
	}
	p.write(value)
	p.emit(value, old)
	return true
}

func (p *Path) merge(obj map[string]any) bool {
	current := p.Get()
	prev, isMap := current.(map[string]any)
	var old any = current
	if isMap {
		old = maps.Clone(prev)
	} else {
		p.write(make(map[string]any, len(obj)))
	}

	changed := 0
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if p.graph.Path(p.child(key)).Set(obj[key]) {
			changed++
		}
	}
	if changed == 0 && isMap {
		return false
	}
	p.emit(p.Get(), old)
	return true
}

func (p *Path) child(key string) string {
	if p.name == "" {
		return key
	}
	return p.name + "." + key
}

// write stores value, replacing missing or non-map intermediates with maps.
func (p *Path) write(value any) {
	if len(p.segments) == 0 {
		if m, ok := value.(map[string]any); ok {
			clear(p.graph.root)
			maps.Copy(p.graph.root, m)
		}
		return
	}
	m := p.graph.root
	for _, seg := range p.segments[:len(p.segments)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
	m[p.segments[len(p.segments)-1]] = value
}

// emit notifies listeners and the graph. A disposed path stays silent.
func (p *Path) emit(newValue, oldValue any) {
	if p.disposed {
		return
	}
	for _, l := range slices.Clone(p.listeners) {
		l.fn(newValue, oldValue)
	}
	p.graph.changed()
}

// Change subscribes fn to changes of this path. The returned function
// unsubscribes; calling it more than once is harmless.
func (p *Path) Change(fn ChangeFunc) func() {
	if fn == nil || p.disposed {
		return func() {}
	}
	l := &listener{fn: fn}
	p.listeners = append(p.listeners, l)
	return func() {
		p.listeners = slices.DeleteFunc(p.listeners, func(x *listener) bool { return x == l })
	}
}

// Listeners returns the number of subscribed change listeners.
func (p *Path) Listeners() int {
	return len(p.listeners)
}

// Dispose unsubscribes every listener and removes the path from its graph's
// cache. A later Graph.Path call for the same path creates a new observer.
func (p *Path) Dispose() {
	p.listeners = nil
	p.disposed = true
	if p.graph.paths[p.name] == p {
		delete(p.graph.paths, p.name)
	}
}

// Disposed reports whether Dispose has been called.
func (p *Path) Disposed() bool {
	return p.disposed
}

// Parent returns the path with its last segment removed, and false for a
// single-segment path.
func Parent(path string) (string, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", false
	}
	return path[:i], true
}
