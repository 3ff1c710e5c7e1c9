package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-drift/ripple/pkg/binding"
	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/interpolate"
)

// AttrType is the runtime type an attribute value must have.
type AttrType int

const (
	// Any accepts every value.
	Any AttrType = iota
	String
	// Number accepts every integer and floating point kind.
	Number
	Bool
	// Map accepts maps with any key and element type.
	Map
	// Slice accepts slices and arrays.
	Slice
	Func
)

func (t AttrType) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Map:
		return "map"
	case Slice:
		return "slice"
	case Func:
		return "func"
	default:
		return "any"
	}
}

// Matches reports whether v has type t. nil never matches a concrete type.
func (t AttrType) Matches(v any) bool {
	if t == Any {
		return true
	}
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return t == String
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return t == Number
	case reflect.Bool:
		return t == Bool
	case reflect.Map:
		return t == Map
	case reflect.Slice, reflect.Array:
		return t == Slice
	case reflect.Func:
		return t == Func
	}
	return false
}

// ParseAttrType maps a type name as written in configuration to an AttrType.
func ParseAttrType(name string) (AttrType, error) {
	for t := Any; t <= Func; t++ {
		if t.String() == strings.ToLower(name) {
			return t, nil
		}
	}
	if name == "" {
		return Any, nil
	}
	return Any, fmt.Errorf("unknown attribute type %q", name)
}

// AttrRule declares one attribute of a component.
type AttrRule struct {
	// Default is used when the attribute is absent or nil. A func() any is
	// called for every instance, so maps and slices are not shared.
	Default any
	// Required fails construction when the attribute is absent or nil.
	Required bool
	// Type is checked against every present value.
	Type AttrType
}

func (r AttrRule) defaultValue() any {
	if fn, ok := r.Default.(func() any); ok {
		return fn()
	}
	return r.Default
}

// Hook is a lifecycle callback.
type Hook func(inst *Instance)

// Definition describes a component. Registration methods return the
// definition so they can be chained; they must not be called once instances
// exist.
type Definition struct {
	name       string
	template   string
	attrs      map[string]AttrRule
	attrOrder  []string
	filters    map[string]interpolate.Filter
	directives map[string]binding.Directive
	components map[string]*Definition

	onInitialize []Hook
	onReady      []Hook
	onMount      []Hook
	onUnmount    []Hook
	onDestroy    []Hook
}

// Define creates a definition. template must have exactly one root element.
func Define(name, template string) *Definition {
	return &Definition{
		name:       name,
		template:   template,
		attrs:      make(map[string]AttrRule),
		filters:    make(map[string]interpolate.Filter),
		directives: make(map[string]binding.Directive),
		components: make(map[string]*Definition),
	}
}

// Name returns the component name.
func (d *Definition) Name() string {
	return d.name
}

// Template returns the template markup.
func (d *Definition) Template() string {
	return d.template
}

// Attr declares an attribute.
func (d *Definition) Attr(name string, rule AttrRule) *Definition {
	if _, ok := d.attrs[name]; !ok {
		d.attrOrder = append(d.attrOrder, name)
	}
	d.attrs[name] = rule
	return d
}

// Attrs returns the declared attribute names in declaration order.
func (d *Definition) Attrs() []string {
	return slices.Clone(d.attrOrder)
}

// Rule returns the rule declared for name.
func (d *Definition) Rule(name string) (AttrRule, bool) {
	r, ok := d.attrs[name]
	return r, ok
}

// Filter registers a filter visible to this component's template only.
func (d *Definition) Filter(name string, f interpolate.Filter) *Definition {
	d.filters[name] = f
	return d
}

// Directive registers a directive for this component's template.
func (d *Definition) Directive(name string, dir binding.Directive) *Definition {
	d.directives[name] = dir
	return d
}

// DirectiveFunc registers an update-only directive.
func (d *Definition) DirectiveFunc(name string, fn binding.DirectiveFunc) *Definition {
	return d.Directive(name, fn)
}

// Component registers child as the component for elements named tag.
func (d *Definition) Component(tag string, child *Definition) *Definition {
	d.components[strings.ToLower(tag)] = child
	return d
}

// Components returns the registered child tags, sorted.
func (d *Definition) Components() []string {
	tags := make([]string, 0, len(d.components))
	for tag := range d.components {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Child returns the definition registered for tag.
func (d *Definition) Child(tag string) (*Definition, bool) {
	c, ok := d.components[strings.ToLower(tag)]
	return c, ok
}

// HasFilter reports whether the definition registers a filter called name.
func (d *Definition) HasFilter(name string) bool {
	_, ok := d.filters[name]
	return ok
}

// HasDirective reports whether the definition registers a directive called name.
func (d *Definition) HasDirective(name string) bool {
	_, ok := d.directives[name]
	return ok
}

// OnInitialize runs fn after attributes are validated and before rendering.
func (d *Definition) OnInitialize(fn Hook) *Definition {
	d.onInitialize = append(d.onInitialize, fn)
	return d
}

// OnReady runs fn once the template is rendered and bound.
func (d *Definition) OnReady(fn Hook) *Definition {
	d.onReady = append(d.onReady, fn)
	return d
}

// OnMount runs fn each time the instance is inserted into a tree.
func (d *Definition) OnMount(fn Hook) *Definition {
	d.onMount = append(d.onMount, fn)
	return d
}

// OnUnmount runs fn each time the instance is removed from its tree.
func (d *Definition) OnUnmount(fn Hook) *Definition {
	d.onUnmount = append(d.onUnmount, fn)
	return d
}

// OnDestroy runs fn when destruction starts, before anything is torn down.
func (d *Definition) OnDestroy(fn Hook) *Definition {
	d.onDestroy = append(d.onDestroy, fn)
	return d
}

// validate applies defaults to data and checks the attribute rules.
func (d *Definition) validate(data map[string]any) error {
	for _, name := range d.attrOrder {
		rule := d.attrs[name]
		v, ok := data[name]
		if !ok || v == nil {
			if rule.Required {
				return &errors.AttrError{Component: d.name, Attr: name}
			}
			if rule.Default != nil {
				data[name] = rule.defaultValue()
			}
			continue
		}
		if !rule.Type.Matches(v) {
			return &errors.AttrError{Component: d.name, Attr: name, Want: rule.Type.String(), Got: v}
		}
	}
	return nil
}

func runHooks(hooks []Hook, inst *Instance) {
	for _, h := range hooks {
		h(inst)
	}
}
