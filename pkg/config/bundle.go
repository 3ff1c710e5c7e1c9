package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/interpolate"
)

// Bundle is a YAML file of component declarations:
//
//	components:
//	  - name: bill-card
//	    template: <li class="bill">{{title}} {{amount | fixed:2}}</li>
//	    attrs:
//	      - {name: title, type: string, required: true}
//	      - {name: amount, type: number, default: 0}
//	  - name: bill-list
//	    template: <ul><bill-card title="{{lead}}"></bill-card></ul>
//	    children: [bill-card]
//	    data: {lead: Rent}
type Bundle struct {
	Components []ComponentSpec `yaml:"components"`
}

// ComponentSpec declares one component.
type ComponentSpec struct {
	Name     string     `yaml:"name"`
	Template string     `yaml:"template"`
	Attrs    []AttrSpec `yaml:"attrs,omitempty"`
	// Children names the bundle components usable as tags in Template.
	Children []string `yaml:"children,omitempty"`
	// Directives names directives Template relies on. They must be
	// registered with the runtime the bundle is checked against.
	Directives []string `yaml:"directives,omitempty"`
	// Data is sample data used by tooling when no data file is given.
	Data map[string]any `yaml:"data,omitempty"`
}

// AttrSpec declares one attribute.
type AttrSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Default  any    `yaml:"default,omitempty"`
}

// ParseBundle decodes a bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}
	return &b, nil
}

// LoadBundle reads and decodes a bundle file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return ParseBundle(data)
}

// Component returns the component named name.
func (b *Bundle) Component(name string) (*ComponentSpec, bool) {
	for i := range b.Components {
		if b.Components[i].Name == name {
			return &b.Components[i], true
		}
	}
	return nil, false
}

// Definitions builds a core.Definition per component, with children wired
// by name.
func (b *Bundle) Definitions() (map[string]*core.Definition, error) {
	defs := make(map[string]*core.Definition, len(b.Components))
	for _, c := range b.Components {
		if c.Name == "" {
			return nil, configError("bundle", "", fmt.Errorf("component without a name"))
		}
		if _, dup := defs[c.Name]; dup {
			return nil, configError("bundle", c.Name, fmt.Errorf("duplicate component"))
		}
		def := core.Define(c.Name, c.Template)
		for _, a := range c.Attrs {
			typ, err := core.ParseAttrType(a.Type)
			if err != nil {
				return nil, configError("bundle", c.Name, fmt.Errorf("attribute %q: %w", a.Name, err))
			}
			def.Attr(a.Name, core.AttrRule{Default: a.Default, Required: a.Required, Type: typ})
		}
		defs[c.Name] = def
	}
	for _, c := range b.Components {
		for _, tag := range c.Children {
			child, ok := defs[tag]
			if !ok {
				return nil, configError("bundle", c.Name, fmt.Errorf("unknown child component %q", tag))
			}
			defs[c.Name].Component(tag, child)
		}
	}
	return defs, nil
}

// Check validates every component against rt without instantiating it: the
// template must have a single root element, every placeholder must compile,
// every filter must be registered and every declared directive must
// resolve. All problems are returned.
func (b *Bundle) Check(rt *core.Runtime) []error {
	defs, err := b.Definitions()
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, c := range b.Components {
		for _, name := range c.Directives {
			if _, ok := rt.LookupDirective(name); !ok {
				errs = append(errs, configError("check", c.Name, fmt.Errorf("%w %q", errors.ErrUnknownDirective, name)))
			}
		}

		root, err := dom.Parse(c.Template)
		if err != nil {
			errs = append(errs, configError("check", c.Name, err))
			continue
		}
		def := defs[c.Name]
		dom.Walk(root, func(n *html.Node, next func()) {
			switch n.Type {
			case html.TextNode:
				errs = append(errs, checkText(rt, def, n.Data)...)
			case html.ElementNode:
				for _, a := range n.Attr {
					errs = append(errs, checkText(rt, def, a.Val)...)
				}
			}
			next()
		})
	}
	return errs
}

func checkText(rt *core.Runtime, def *core.Definition, text string) []error {
	interp := rt.Interpolator()
	var errs []error
	_ = interp.Each(text, func(m interpolate.Match) error {
		if _, err := rt.Engine().Compile(m.Expr); err != nil {
			errs = append(errs, &errors.RippleError{
				Op:        "config.check",
				Kind:      errors.KindExpression,
				Component: def.Name(),
				Err:       fmt.Errorf("%s: %w", strings.TrimSpace(m.Text), err),
			})
		}
		for _, f := range m.Filters {
			if _, ok := interp.Filter(f.Name); ok || def.HasFilter(f.Name) {
				continue
			}
			errs = append(errs, configError("check", def.Name(), fmt.Errorf("%w %q in %s", errors.ErrUnknownFilter, f.Name, m.Text)))
		}
		return nil
	})
	return errs
}

func configError(op, component string, err error) error {
	return &errors.RippleError{
		Op:        "config." + op,
		Kind:      errors.KindConfig,
		Component: component,
		Err:       err,
	}
}
