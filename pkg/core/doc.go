// Package core provides the component runtime: definitions, instances and
// their lifecycle.
//
// A Definition is an immutable-by-convention description of a component: a
// template, an attribute schema, and registries of filters, directives and
// child components. Definition.New turns it into an Instance bound to a
// Runtime, which owns the shared scheduler, expression cache, interpolator
// and node event registry.
//
//	rt := core.NewRuntime()
//	card := core.Define("card", `<div class="card">{{title | upper}}</div>`).
//	    Attr("title", core.AttrRule{Required: true, Type: core.String})
//
//	inst, err := card.New(rt, map[string]any{"title": "rent"})
//	if err != nil {
//	    return err
//	}
//	inst.AppendTo(body)
//	inst.Set("title", "gas") // rendered on the next frame
//
// # Lifecycle
//
// An instance is validated, given its observer graph, initialized, rendered
// and marked ready inside New. It then moves between mounted and unmounted
// any number of times through AppendTo, ReplaceNode, Before, After and
// Remove. Destroy unbinds every binding, cancels their pending renders,
// disposes the observer graph, destroys owned children and finally clears
// event listeners.
//
// Instances are not safe for concurrent use. Mutations from other goroutines
// must be handed to the frame loop, see scheduler.FrameLoop.Dispatch.
package core
