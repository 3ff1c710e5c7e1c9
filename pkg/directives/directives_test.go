package directives_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/directives"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/scheduler"
)

type captured struct {
	errs []*errors.RippleError
}

func (c *captured) HandleError(err *errors.RippleError) { c.errs = append(c.errs, err) }
func (c *captured) HandlePanic(*errors.PanicError)      {}

func newRuntime() (*core.Runtime, *scheduler.ManualFrames) {
	frames := &scheduler.ManualFrames{}
	rt := core.NewRuntime(core.WithFrames(frames))
	directives.Register(rt)
	return rt, frames
}

func TestOn(t *testing.T) {
	rt, frames := newRuntime()
	var log []string
	def := core.Define("button", `<div><button on-click="{{press}}">go</button></div>`)
	inst, err := def.New(rt, map[string]any{
		"press": func(ev *dom.Event) { log = append(log, "first:"+ev.Type) },
	})
	require.NoError(t, err)
	assert.Equal(t, "<div><button>go</button></div>", inst.HTML())

	btn := inst.Node().FirstChild
	rt.Events().Dispatch(btn, &dom.Event{Type: "click"})

	inst.Set("press", func() { log = append(log, "second") })
	frames.Tick()
	rt.Events().Dispatch(btn, &dom.Event{Type: "click"})
	assert.Equal(t, 1, rt.Events().Listeners(btn, "click"))

	inst.Destroy()
	assert.Equal(t, 0, rt.Events().Listeners(btn, "click"))
	rt.Events().Dispatch(btn, &dom.Event{Type: "click"})
	assert.Equal(t, []string{"first:click", "second"}, log)
}

func TestOn_RejectsNonFunctions(t *testing.T) {
	c := &captured{}
	rt, _ := newRuntime()
	rt.Reporter().SetHandler(c)
	inst, err := core.Define("bad", `<a on-click="{{id}}">x</a>`).New(rt, map[string]any{"id": 3})
	require.NoError(t, err)
	require.Len(t, c.errs, 1)
	assert.Equal(t, errors.KindBind, c.errs[0].Kind)
	assert.Equal(t, 1, rt.Events().Dispatch(inst.Node(), &dom.Event{Type: "click"}), "listener stays attached")
}

func TestShowAndClass(t *testing.T) {
	rt, frames := newRuntime()
	def := core.Define("panel", `<div class="box" show="{{open}}" class-active="{{open}}">x</div>`)
	inst, err := def.New(rt, map[string]any{"open": false})
	require.NoError(t, err)
	assert.Equal(t, `<div class="box" hidden="">x</div>`, inst.HTML())

	inst.Set("open", true)
	frames.Tick()
	assert.Equal(t, `<div class="box active">x</div>`, inst.HTML())
}
