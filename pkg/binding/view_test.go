package binding

import (
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/interpolate"
	"github.com/go-drift/ripple/pkg/observer"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// testView is a minimal View over an observer graph.
type testView struct {
	graph      *observer.Graph
	sched      *scheduler.Scheduler
	frames     *scheduler.ManualFrames
	interp     *interpolate.Interpolator
	events     *dom.Events
	reporter   *errors.Reporter
	directives map[string]Directive
	children   map[string]ChildFactory
}

func newTestView(data map[string]any) *testView {
	frames := &scheduler.ManualFrames{}
	reporter := errors.NewReporter(nil)
	sched := scheduler.New(frames, scheduler.WithReporter(reporter))
	return &testView{
		reporter:   reporter,
		graph:      observer.New(data, sched),
		sched:      sched,
		frames:     frames,
		interp:     interpolate.New(interpolate.WithFilters(interpolate.DefaultFilters())),
		events:     dom.NewEvents(),
		directives: make(map[string]Directive),
		children:   make(map[string]ChildFactory),
	}
}

func (v *testView) Name() string { return "test-view" }

func (v *testView) Interpolate(text string) (any, error) {
	return v.interp.Value(text, interpolate.Options{Scope: v.graph.Root(), Context: v})
}

func (v *testView) Props(text string) ([]string, error) { return v.interp.Props(text) }

func (v *testView) Has(text string) bool { return v.interp.Has(text) }

func (v *testView) Watch(paths []string, fn func()) func() {
	var unsubs []func()
	for _, p := range paths {
		unsubs = append(unsubs, v.graph.Path(p).Change(func(any, any) { fn() }))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (v *testView) Scheduler() *scheduler.Scheduler { return v.sched }

func (v *testView) Events() *dom.Events { return v.events }

func (v *testView) Directive(name string) (Directive, bool) {
	d, ok := v.directives[name]
	return d, ok
}

func (v *testView) Component(tag string) (ChildFactory, bool) {
	f, ok := v.children[tag]
	return f, ok
}

func (v *testView) Reporter() *errors.Reporter { return v.reporter }

func (v *testView) set(path string, value any) { v.graph.Set(path, value) }

func (v *testView) tick() { v.frames.Tick() }

// testChild is a Child whose root echoes its data.
type testChild struct {
	root      *html.Node
	data      *observer.Graph
	yield     string
	destroyed bool
}

func newTestChild(opts ChildOptions) (Child, error) {
	c := &testChild{
		root:  &html.Node{Type: html.ElementNode, Data: "section"},
		data:  observer.New(opts.Data, nil),
		yield: opts.Yield,
	}
	return c, nil
}

func (c *testChild) Node() *html.Node { return c.root }

func (c *testChild) Set(path string, value any) bool { return c.data.Set(path, value) }

func (c *testChild) Destroy() { c.destroyed = true }

// errorCapture records reported errors for assertions.
type errorCapture struct {
	errs []*errors.RippleError
}

func (c *errorCapture) HandleError(err *errors.RippleError) { c.errs = append(c.errs, err) }

func (c *errorCapture) HandlePanic(*errors.PanicError) {}

// captureErrors routes v's reports into a new errorCapture.
func captureErrors(v *testView) *errorCapture {
	c := &errorCapture{}
	v.reporter.SetHandler(c)
	return c
}

func parse(markup string) *html.Node {
	n, err := dom.Parse(markup)
	if err != nil {
		panic(err)
	}
	return n
}
