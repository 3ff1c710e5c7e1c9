package core

// Disposable is a resource released when an instance is destroyed.
type Disposable interface {
	Dispose()
}

// UseController creates a controller and disposes it with the instance.
//
// Example:
//
//	clock := core.UseController(inst, func() *Ticker { return NewTicker(time.Second) })
func UseController[C Disposable](inst *Instance, create func() C) C {
	controller := create()
	inst.OnDispose(controller.Dispose)
	return controller
}

// UseSettled calls fn once per flush in which any of the instance's data
// changed, until the instance is destroyed.
func UseSettled(inst *Instance, fn func()) {
	inst.OnDispose(inst.graph.OnSettled(fn))
}
