// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/interpolate"
)

// Counter is a component that displays a count and increments it when its
// button is clicked. onTap, when set, receives each new count.
func Counter(onTap func(clicks int)) *core.Definition {
	return core.Define("counter", `<div class="counter">
  <span class="count">{{clicks}}</span>
  <button on-click="{{increment}}">Add</button>
</div>`).
		Attr("clicks", core.AttrRule{Type: core.Number, Default: 0}).
		OnInitialize(func(inst *core.Instance) {
			inst.Set("increment", func() {
				n, _ := interpolate.Number(inst.Get("clicks"))
				next := int(n) + 1
				inst.Set("clicks", next)
				if onTap != nil {
					onTap(next)
				}
			})
		})
}

// Labelled is a component that projects its yield content after a label.
func Labelled() *core.Definition {
	return core.Define("labelled", `<label><b>{{label}}</b>{{yield}}</label>`).
		Attr("label", core.AttrRule{Type: core.String, Required: true})
}
