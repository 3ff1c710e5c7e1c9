// Package expression compiles the small expressions found inside template
// placeholders.
//
// Expressions are evaluated with github.com/expr-lang/expr. Compiling also
// records which free identifiers the expression reads, so callers can look
// them up in a scope and subscribe to exactly those properties.
package expression

import (
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// ThisName is the identifier bound to the evaluation context.
const ThisName = "this"

// reserved names are never treated as scope lookups.
var reserved = map[string]bool{
	ThisName: true,
	"$env":   true,
}

// Engine compiles expressions and caches them by source text.
type Engine struct {
	cache     map[string]*Expression
	functions map[string]bool
	options   []expr.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithFunction makes fn callable from expressions as name. Function names
// are not reported as properties.
func WithFunction(name string, fn func(args ...any) (any, error)) Option {
	return func(e *Engine) {
		e.functions[name] = true
		e.options = append(e.options, expr.Function(name, fn))
	}
}

// NewEngine creates an Engine with an empty cache.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache:     make(map[string]*Expression),
		functions: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Len returns the number of cached expressions.
func (e *Engine) Len() int {
	return len(e.cache)
}

// Compile returns the compiled form of src, compiling it on first use.
func (e *Engine) Compile(src string) (*Expression, error) {
	src = strings.TrimSpace(src)
	if x, ok := e.cache[src]; ok {
		return x, nil
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}
	c := &collector{
		paths:  make(map[*ast.IdentifierNode]string),
		locals: make(map[string]bool),
		called: make(map[string]bool),
	}
	ast.Walk(&tree.Node, c)

	x := &Expression{
		Source:  src,
		members: make(map[string][][]string),
	}
	for _, id := range c.order {
		name := id.Value
		if reserved[name] || c.locals[name] || e.functions[name] {
			continue
		}
		if !slices.Contains(x.Params, name) {
			x.Params = append(x.Params, name)
		}
		path := name
		if p, ok := c.paths[id]; ok {
			path = p
			x.members[name] = append(x.members[name], strings.Split(p, ".")[1:])
		}
		if !slices.Contains(x.Props, path) {
			x.Props = append(x.Props, path)
		}
	}

	opts := append([]expr.Option{expr.AllowUndefinedVariables()}, e.options...)
	// A parameter named like a builtin (count, date, max...) is a scope
	// lookup, so the builtin is hidden unless this expression also calls it.
	for _, name := range x.Params {
		if _, ok := builtin.Index[name]; ok && !c.called[name] {
			opts = append(opts, expr.DisableBuiltin(name))
		}
	}
	program, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	x.program = program

	e.cache[src] = x
	return x, nil
}

// Expression is a compiled template expression.
type Expression struct {
	// Source is the trimmed expression text.
	Source string
	// Params are the free root identifiers in first-occurrence order.
	Params []string
	// Props are the property paths the expression reads. Static member
	// chains such as user.name are reported whole.
	Props []string

	program *vm.Program
	members map[string][][]string
}

// Exec evaluates the expression. Each parameter is read from scope; missing
// entries are nil. this is bound to the ThisName identifier. Evaluation
// errors are returned unchanged apart from wrapping.
func (x *Expression) Exec(scope map[string]any, this any) (any, error) {
	env := make(map[string]any, len(x.Params)+1)
	for _, name := range x.Params {
		v := scope[name]
		if v == nil && len(x.members[name]) > 0 {
			v = placeholder(x.members[name])
		}
		env[name] = v
	}
	env[ThisName] = this

	out, err := expr.Run(x.program, env)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", x.Source, err)
	}
	return out, nil
}

// placeholder builds empty maps along the member chains read from a missing
// root, so that user.name evaluates to nil instead of failing on nil.
func placeholder(chains [][]string) map[string]any {
	root := make(map[string]any)
	for _, chain := range chains {
		m := root
		for _, seg := range chain[:max(len(chain)-1, 0)] {
			next, ok := m[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[seg] = next
			}
			m = next
		}
	}
	return root
}

// collector records identifiers in source order and the longest static
// member chain hanging off each of them.
type collector struct {
	order  []*ast.IdentifierNode
	paths  map[*ast.IdentifierNode]string
	locals map[string]bool
	called map[string]bool
}

func (c *collector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.order = append(c.order, n)
	case *ast.MemberNode:
		if root, path, ok := staticPath(n); ok && root != nil {
			if len(path) > len(c.paths[root]) {
				c.paths[root] = path
			}
		}
	case *ast.VariableDeclaratorNode:
		c.locals[n.Name] = true
	case *ast.BuiltinNode:
		c.called[n.Name] = true
	}
}

func staticPath(node ast.Node) (*ast.IdentifierNode, string, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n, n.Value, true
	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return nil, "", false
		}
		root, base, ok := staticPath(n.Node)
		if !ok {
			return nil, "", false
		}
		return root, base + "." + prop.Value, true
	}
	return nil, "", false
}
