// Package binding connects rendered HTML nodes to the properties their
// template text reads.
//
// Four kinds of binding exist: text nodes, attributes, directives and child
// components. Each one renders synchronously when bound, subscribes to the
// properties its template references, and re-renders on the next scheduler
// flush after any of them change. Several changes before a flush produce a
// single render.
//
// A binding moves through unbound → bound → unbound. Errors during Bind are
// returned to the caller; errors during a scheduled update are reported via
// the errors package and the last good render stays in place.
package binding
