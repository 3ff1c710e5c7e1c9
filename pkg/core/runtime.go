package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-drift/ripple/pkg/binding"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/expression"
	"github.com/go-drift/ripple/pkg/interpolate"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// DirectiveFactory creates a directive for the part of an attribute name
// after a registered prefix, e.g. "click" for "on-click".
type DirectiveFactory = func(suffix string) binding.Directive

// Runtime owns the state shared by a tree of component instances. Separate
// runtimes share nothing, so independent trees (and tests) stay isolated.
type Runtime struct {
	sched      *scheduler.Scheduler
	engine     *expression.Engine
	interp     *interpolate.Interpolator
	events     *dom.Events
	reporter   *errors.Reporter
	directives map[string]binding.Directive
	prefixes   []directivePrefix
	components map[string]*Definition
	instances  int
}

type directivePrefix struct {
	prefix  string
	factory DirectiveFactory
}

type runtimeOptions struct {
	frames     scheduler.Frames
	open       string
	close      string
	filters    map[string]interpolate.Filter
	exprOpts   []expression.Option
	handler    errors.ErrorHandler
	directives map[string]binding.Directive
}

// RuntimeOption configures NewRuntime.
type RuntimeOption func(*runtimeOptions)

// WithFrames sets the frame host driving scheduler flushes. The default is a
// scheduler.FrameLoop at scheduler.DefaultFrameInterval, which only flushes
// while Run is active.
func WithFrames(f scheduler.Frames) RuntimeOption {
	return func(o *runtimeOptions) {
		o.frames = f
	}
}

// WithDelims overrides the "{{" and "}}" placeholder delimiters.
func WithDelims(open, close string) RuntimeOption {
	return func(o *runtimeOptions) {
		o.open, o.close = open, close
	}
}

// WithFilters registers filters available to every component. The default
// filters from interpolate.DefaultFilters are always present.
func WithFilters(filters map[string]interpolate.Filter) RuntimeOption {
	return func(o *runtimeOptions) {
		for name, f := range filters {
			o.filters[name] = f
		}
	}
}

// WithErrorHandler sends the runtime's render failures and recovered panics
// to h. Without it they go to the process-wide handler (errors.SetHandler).
func WithErrorHandler(h errors.ErrorHandler) RuntimeOption {
	return func(o *runtimeOptions) {
		o.handler = h
	}
}

// WithFunction exposes fn to template expressions under name.
func WithFunction(name string, fn func(args ...any) (any, error)) RuntimeOption {
	return func(o *runtimeOptions) {
		o.exprOpts = append(o.exprOpts, expression.WithFunction(name, fn))
	}
}

// NewRuntime creates a runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	o := runtimeOptions{
		filters:    interpolate.DefaultFilters(),
		directives: make(map[string]binding.Directive),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.frames == nil {
		o.frames = scheduler.NewFrameLoop(scheduler.DefaultFrameInterval)
	}

	engine := expression.NewEngine(o.exprOpts...)
	iopts := []interpolate.Option{
		interpolate.WithEngine(engine),
		interpolate.WithFilters(o.filters),
	}
	if o.open != "" && o.close != "" {
		iopts = append(iopts, interpolate.WithDelims(o.open, o.close))
	}

	reporter := errors.NewReporter(o.handler)
	return &Runtime{
		sched:      scheduler.New(o.frames, scheduler.WithReporter(reporter)),
		engine:     engine,
		interp:     interpolate.New(iopts...),
		events:     dom.NewEvents(),
		reporter:   reporter,
		directives: o.directives,
		components: make(map[string]*Definition),
	}
}

// Scheduler returns the update scheduler.
func (r *Runtime) Scheduler() *scheduler.Scheduler {
	return r.sched
}

// Engine returns the expression engine and its compile cache.
func (r *Runtime) Engine() *expression.Engine {
	return r.engine
}

// Interpolator returns the template interpolator.
func (r *Runtime) Interpolator() *interpolate.Interpolator {
	return r.interp
}

// Events returns the node event registry.
func (r *Runtime) Events() *dom.Events {
	return r.events
}

// Reporter returns the reporter for this runtime's errors. Its handler can
// be replaced at any time with SetHandler.
func (r *Runtime) Reporter() *errors.Reporter {
	return r.reporter
}

// Instances returns the number of live instances created by this runtime.
func (r *Runtime) Instances() int {
	return r.instances
}

// Filter registers a filter for every component of this runtime.
func (r *Runtime) Filter(name string, f interpolate.Filter) {
	r.interp.AddFilter(name, f)
}

// Directive registers a directive for every component of this runtime.
func (r *Runtime) Directive(name string, d binding.Directive) {
	r.directives[name] = d
}

// DirectivePrefix registers a directive family. Any attribute starting with
// prefix that has no exact registration is bound to factory(suffix).
func (r *Runtime) DirectivePrefix(prefix string, factory DirectiveFactory) {
	r.prefixes = append(r.prefixes, directivePrefix{prefix: prefix, factory: factory})
}

// Component registers a child component for every component of this
// runtime. Tag names are matched case-insensitively.
func (r *Runtime) Component(tag string, def *Definition) {
	r.components[strings.ToLower(tag)] = def
}

// LookupDirective resolves name against exact registrations, then prefixes
// in registration order.
func (r *Runtime) LookupDirective(name string) (binding.Directive, bool) {
	if d, ok := r.directives[name]; ok {
		return d, true
	}
	for _, p := range r.prefixes {
		if suffix, ok := strings.CutPrefix(name, p.prefix); ok && suffix != "" {
			if d := p.factory(suffix); d != nil {
				return d, true
			}
		}
	}
	return nil, false
}

// Flush runs every pending job immediately instead of waiting for a frame.
func (r *Runtime) Flush() {
	r.sched.Flush()
}

// Run drives the frame host until ctx is cancelled. It fails when the host
// has no loop of its own, as with scheduler.ManualFrames.
func (r *Runtime) Run(ctx context.Context) error {
	loop, ok := r.sched.Frames().(interface{ Run(context.Context) error })
	if !ok {
		return fmt.Errorf("core: frame host %T cannot run", r.sched.Frames())
	}
	return loop.Run(ctx)
}
