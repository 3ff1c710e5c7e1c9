// Package interpolate evaluates {{expression | filter:arg}} placeholders.
//
// An Interpolator finds delimited placeholders in a string, evaluates each
// expression with an expression.Engine and pipes the result through named
// filters left to right. A string made of exactly one placeholder evaluates
// to the raw value; anything else is string substitution.
package interpolate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-drift/ripple/pkg/errors"
	"github.com/go-drift/ripple/pkg/expression"
)

// Filter transforms a value. args are the positional arguments written after
// the filter name, already unquoted.
type Filter func(value any, args ...string) (any, error)

// FilterCall is one stage of a filter chain.
type FilterCall struct {
	Name string
	Args []string
}

// Match is one placeholder occurrence.
type Match struct {
	// Text is the full placeholder including delimiters.
	Text string
	// Expr is the expression before the first pipe, trimmed.
	Expr string
	// Filters is the filter chain, in application order.
	Filters []FilterCall
	// Index is the zero-based occurrence number.
	Index int
	// Start and End are byte offsets of Text in the source string.
	Start, End int
}

// Options carries the evaluation inputs for Value and Replace.
type Options struct {
	// Scope maps root identifiers to values.
	Scope map[string]any
	// Context is bound to "this" inside expressions.
	Context any
	// Filters are consulted before the interpolator's own filters.
	Filters map[string]Filter
}

// Interpolator finds and evaluates placeholders.
type Interpolator struct {
	open, close string
	pattern     *regexp.Regexp
	filters     map[string]Filter
	engine      *expression.Engine
}

// Option configures an Interpolator.
type Option func(*Interpolator)

// WithDelims sets the placeholder delimiters. The default is {{ and }}.
func WithDelims(open, close string) Option {
	return func(i *Interpolator) {
		i.open, i.close = open, close
	}
}

// WithFilters registers filters, replacing any with the same name.
func WithFilters(filters map[string]Filter) Option {
	return func(i *Interpolator) {
		for name, f := range filters {
			i.filters[name] = f
		}
	}
}

// WithEngine shares an expression engine, and with it its compile cache.
func WithEngine(e *expression.Engine) Option {
	return func(i *Interpolator) {
		i.engine = e
	}
}

// New creates an Interpolator.
func New(opts ...Option) *Interpolator {
	i := &Interpolator{
		open:    "{{",
		close:   "}}",
		filters: make(map[string]Filter),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.engine == nil {
		i.engine = expression.NewEngine()
	}
	i.pattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(i.open) + `\s*(.+?)\s*` + regexp.QuoteMeta(i.close))
	return i
}

// Delims returns the opening and closing delimiters.
func (i *Interpolator) Delims() (string, string) {
	return i.open, i.close
}

// Engine returns the expression engine.
func (i *Interpolator) Engine() *expression.Engine {
	return i.engine
}

// AddFilter registers f under name.
func (i *Interpolator) AddFilter(name string, f Filter) {
	i.filters[name] = f
}

// Filter looks up a registered filter.
func (i *Interpolator) Filter(name string) (Filter, bool) {
	f, ok := i.filters[name]
	return f, ok
}

// Has reports whether str contains at least one placeholder.
func (i *Interpolator) Has(str string) bool {
	return i.pattern.MatchString(str)
}

// Single reports whether str is exactly one placeholder.
func (i *Interpolator) Single(str string) bool {
	loc := i.pattern.FindStringIndex(str)
	return loc != nil && loc[0] == 0 && loc[1] == len(str)
}

// Each calls fn for every placeholder in str, left to right. Iteration stops
// at the first error, which is returned.
func (i *Interpolator) Each(str string, fn func(Match) error) error {
	for n, loc := range i.pattern.FindAllStringSubmatchIndex(str, -1) {
		body := str[loc[2]:loc[3]]
		exprText, filters := splitFilters(body)
		m := Match{
			Text:    str[loc[0]:loc[1]],
			Expr:    exprText,
			Filters: filters,
			Index:   n,
			Start:   loc[0],
			End:     loc[1],
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// Props returns the unique property paths read by every placeholder in str,
// in first-occurrence order.
func (i *Interpolator) Props(str string) ([]string, error) {
	var props []string
	seen := make(map[string]bool)
	err := i.Each(str, func(m Match) error {
		x, err := i.engine.Compile(m.Expr)
		if err != nil {
			return err
		}
		for _, p := range x.Props {
			if !seen[p] {
				seen[p] = true
				props = append(props, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

// Value evaluates str. A string that is exactly one placeholder yields the
// raw filtered value; otherwise placeholders are substituted and a string is
// returned. A string without placeholders is returned unchanged.
func (i *Interpolator) Value(str string, opts Options) (any, error) {
	if i.Single(str) {
		var out any
		err := i.Each(str, func(m Match) error {
			v, err := i.eval(m, opts)
			out = v
			return err
		})
		return out, err
	}
	return i.Replace(str, opts)
}

// Replace substitutes every placeholder in str with its evaluated value.
// nil results become the empty string.
func (i *Interpolator) Replace(str string, opts Options) (string, error) {
	var sb strings.Builder
	last := 0
	err := i.Each(str, func(m Match) error {
		v, err := i.eval(m, opts)
		if err != nil {
			return err
		}
		sb.WriteString(str[last:m.Start])
		sb.WriteString(Stringify(v))
		last = m.End
		return nil
	})
	if err != nil {
		return "", err
	}
	sb.WriteString(str[last:])
	return sb.String(), nil
}

func (i *Interpolator) eval(m Match, opts Options) (any, error) {
	x, err := i.engine.Compile(m.Expr)
	if err != nil {
		return nil, err
	}
	v, err := x.Exec(opts.Scope, opts.Context)
	if err != nil {
		return nil, err
	}
	for _, call := range m.Filters {
		f, ok := opts.Filters[call.Name]
		if !ok {
			f, ok = i.filters[call.Name]
		}
		if !ok {
			return nil, fmt.Errorf("%w %q in %s", errors.ErrUnknownFilter, call.Name, m.Text)
		}
		if v, err = f(v, call.Args...); err != nil {
			return nil, fmt.Errorf("filter %q: %w", call.Name, err)
		}
	}
	return v, nil
}

// Stringify converts an evaluated value to text. nil becomes "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
