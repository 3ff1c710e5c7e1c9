package dom

import (
	"slices"

	"golang.org/x/net/html"
)

// Event is dispatched to listeners registered on a node and its ancestors.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Detail        any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

type eventListener struct {
	fn func(*Event)
}

// Events stores listeners keyed by node. It stands in for the browser's
// event system so directives can attach handlers to rendered nodes.
type Events struct {
	listeners map[*html.Node]map[string][]*eventListener
}

// NewEvents creates an empty registry.
func NewEvents() *Events {
	return &Events{listeners: make(map[*html.Node]map[string][]*eventListener)}
}

// Listen registers fn for events of type typ on n. The returned function
// removes the listener.
func (e *Events) Listen(n *html.Node, typ string, fn func(*Event)) func() {
	if n == nil || fn == nil {
		return func() {}
	}
	byType, ok := e.listeners[n]
	if !ok {
		byType = make(map[string][]*eventListener)
		e.listeners[n] = byType
	}
	l := &eventListener{fn: fn}
	byType[typ] = append(byType[typ], l)
	return func() {
		byType := e.listeners[n]
		if byType == nil {
			return
		}
		byType[typ] = slices.DeleteFunc(byType[typ], func(x *eventListener) bool { return x == l })
		if len(byType[typ]) == 0 {
			delete(byType, typ)
		}
		if len(byType) == 0 {
			delete(e.listeners, n)
		}
	}
}

// Listeners returns the number of listeners of type typ on n.
func (e *Events) Listeners(n *html.Node, typ string) int {
	return len(e.listeners[n][typ])
}

// Dispatch delivers ev to target and then to each ancestor until a listener
// stops propagation. It returns the number of listeners invoked.
func (e *Events) Dispatch(target *html.Node, ev *Event) int {
	ev.Target = target
	called := 0
	for n := target; n != nil; n = n.Parent {
		ev.CurrentTarget = n
		for _, l := range slices.Clone(e.listeners[n][ev.Type]) {
			l.fn(ev)
			called++
		}
		if ev.stopped {
			break
		}
	}
	return called
}

// Clear removes every listener registered on n.
func (e *Events) Clear(n *html.Node) {
	delete(e.listeners, n)
}
