package testing

import (
	stderrors "errors"
	"sync"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/directives"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// DefaultMaxFrames bounds PumpAndSettle.
const DefaultMaxFrames = 100

// ErrSettleTimeout is returned when PumpAndSettle runs out of frames.
var ErrSettleTimeout = stderrors.New("PumpAndSettle timed out: runtime did not settle")

// ViewTester mounts components into a detached <body> and drives the
// scheduler one frame at a time. It is the error handler of its own runtime,
// so reported errors are recorded instead of logged and never reach other
// runtimes or the process-wide handler.
type ViewTester struct {
	rt         *core.Runtime
	frames     *scheduler.ManualFrames
	body       *html.Node
	root       *core.Instance
	dispatches []func()

	mu     sync.Mutex
	errs   []*errors.RippleError
	panics []*errors.PanicError
}

// NewViewTester creates a tester whose runtime has the built-in directives
// registered. Call Cleanup() when done, or use NewViewTesterWithT() instead.
func NewViewTester(opts ...core.RuntimeOption) *ViewTester {
	frames := &scheduler.ManualFrames{}
	rt := core.NewRuntime(append([]core.RuntimeOption{core.WithFrames(frames)}, opts...)...)
	directives.Register(rt)

	t := &ViewTester{
		rt:     rt,
		frames: frames,
		body:   &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body},
	}
	rt.Reporter().SetHandler(t)
	return t
}

// NewViewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewViewTesterWithT(t *testing.T, opts ...core.RuntimeOption) *ViewTester {
	tester := NewViewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup destroys the mounted component.
func (t *ViewTester) Cleanup() {
	if t.root != nil {
		t.root.Destroy()
		t.root = nil
	}
}

// Runtime returns the runtime components are created with.
func (t *ViewTester) Runtime() *core.Runtime {
	return t.rt
}

// Body returns the node components are mounted into.
func (t *ViewTester) Body() *html.Node {
	return t.body
}

// Root returns the mounted component.
func (t *ViewTester) Root() *core.Instance {
	return t.root
}

// Mount destroys the previously mounted component, creates a new instance
// of def and appends it to Body.
func (t *ViewTester) Mount(def *core.Definition, data map[string]any, opts ...core.Option) (*core.Instance, error) {
	if t.root != nil {
		t.root.Destroy()
		t.root = nil
	}
	inst, err := def.New(t.rt, data, opts...)
	if err != nil {
		return nil, err
	}
	if err := inst.AppendTo(t.body); err != nil {
		inst.Destroy()
		return nil, err
	}
	t.root = inst
	return inst, nil
}

// Pump drains the dispatch queue and runs one frame. It reports whether a
// frame was pending.
func (t *ViewTester) Pump() bool {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
	return t.frames.Tick()
}

// PumpAndSettle runs frames until nothing is scheduled or maxFrames have
// run. A non-positive maxFrames means DefaultMaxFrames.
func (t *ViewTester) PumpAndSettle(maxFrames int) error {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	for range maxFrames {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *ViewTester) needsWork() bool {
	return t.frames.Requested() || len(t.dispatches) > 0
}

// Frames returns the number of frames run so far.
func (t *ViewTester) Frames() int {
	return t.frames.Frames()
}

// Dispatch queues a callback for the next Pump, mirroring
// scheduler.FrameLoop.Dispatch.
func (t *ViewTester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Find evaluates a finder against Body.
func (t *ViewTester) Find(finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(t.body), finder: finder}
}

// Click dispatches a click event to the first node matched by finder and
// returns the number of listeners that ran. Panics if nothing matches.
func (t *ViewTester) Click(finder Finder) int {
	return t.Trigger(finder, "click", nil)
}

// Trigger dispatches an event of type typ to the first node matched by
// finder. Panics if nothing matches.
func (t *ViewTester) Trigger(finder Finder, typ string, detail any) int {
	target := t.Find(finder).First()
	return t.rt.Events().Dispatch(target, &dom.Event{Type: typ, Detail: detail})
}

// HTML serializes Body's children.
func (t *ViewTester) HTML() string {
	return dom.InnerHTML(t.body)
}

// HandleError records err.
func (t *ViewTester) HandleError(err *errors.RippleError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, err)
}

// HandlePanic records err.
func (t *ViewTester) HandlePanic(err *errors.PanicError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.panics = append(t.panics, err)
}

// Errors returns the errors reported since the tester was created.
func (t *ViewTester) Errors() []*errors.RippleError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*errors.RippleError(nil), t.errs...)
}

// Panics returns the panics recovered since the tester was created.
func (t *ViewTester) Panics() []*errors.PanicError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*errors.PanicError(nil), t.panics...)
}
