package interpolate

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ripple/pkg/errors"
)

func TestReplace_Scenarios(t *testing.T) {
	currency := func(v any, _ ...string) (any, error) {
		f, _ := Number(v)
		return fmt.Sprintf("$%.2f", f), nil
	}
	i := New(WithFilters(map[string]Filter{"currency": currency}))

	tests := []struct {
		name  string
		str   string
		scope map[string]any
		want  any
	}{
		{"hello", "Hello {{name}}", map[string]any{"name": "Tobi"}, "Hello Tobi"},
		{"currency", "{{price | currency}}", map[string]any{"price": 5}, "$5.00"},
		{"no placeholders", "plain text", nil, "plain text"},
		{"nil becomes empty", "a{{missing}}b", nil, "ab"},
		{"several", "{{a}}-{{b}}-{{a}}", map[string]any{"a": 1, "b": 2}, "1-2-1"},
		{"single raw", "{{hits}}", map[string]any{"hits": 3}, 3},
		{"single nil raw", "{{missing}}", nil, nil},
		{"whitespace", "{{  name  }}", map[string]any{"name": "x"}, "x"},
		{"logical or", "{{ a || b }}", map[string]any{"a": false, "b": true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := i.Value(tt.str, Options{Scope: tt.scope})
			if err != nil {
				t.Fatalf("Value error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterChain(t *testing.T) {
	var calls []string
	trace := func(name string) Filter {
		return func(v any, args ...string) (any, error) {
			calls = append(calls, fmt.Sprintf("%s%v", name, args))
			return fmt.Sprintf("%s(%v)", name, v), nil
		}
	}
	i := New(WithFilters(map[string]Filter{"a": trace("a"), "b": trace("b")}))

	got, err := i.Value(`{{ x | a:1:'two:2' | b }}`, Options{Scope: map[string]any{"x": "v"}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "b(a(v))" {
		t.Errorf("Value = %v, want b(a(v))", got)
	}
	if diff := cmp.Diff([]string{"a[1 two:2]", "b[]"}, calls); diff != "" {
		t.Errorf("filter calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownFilter(t *testing.T) {
	_, err := New().Value("{{ x | nope }}", Options{})
	if !stderrors.Is(err, errors.ErrUnknownFilter) {
		t.Fatalf("error = %v, want ErrUnknownFilter", err)
	}
}

func TestCallFiltersOverride(t *testing.T) {
	i := New(WithFilters(map[string]Filter{"tag": func(any, ...string) (any, error) { return "global", nil }}))
	local := map[string]Filter{"tag": func(any, ...string) (any, error) { return "local", nil }}

	got, err := i.Value("{{ x | tag }}", Options{Filters: local})
	if err != nil {
		t.Fatal(err)
	}
	if got != "local" {
		t.Errorf("Value = %v, want local", got)
	}
}

func TestProps(t *testing.T) {
	i := New()
	got, err := i.Props("{{ a + b }} and {{ user.name | upper }} then {{ a }}")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "user.name"}, got); diff != "" {
		t.Errorf("Props mismatch (-want +got):\n%s", diff)
	}

	multi, err := i.Props("{{ first +\n\t last }} {{ total\n | fixed:2 }}")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first", "last", "total"}, multi); diff != "" {
		t.Errorf("multi-line Props mismatch (-want +got):\n%s", diff)
	}
	v, err := New(WithFilters(DefaultFilters())).Value("{{ a +\n b }}/{{ n\n | fixed:1 }}", Options{Scope: map[string]any{"a": 1, "b": 2, "n": 1.5}})
	if err != nil {
		t.Fatal(err)
	}
	if v != "3/1.5" {
		t.Errorf("multi-line Value = %v, want 3/1.5", v)
	}

	none, err := i.Props("static")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("Props(static) = %v, want none", none)
	}
}

func TestEach(t *testing.T) {
	var got []Match
	err := New().Each("x {{a}} y {{ b | f:1 }}", func(m Match) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []Match{
		{Text: "{{a}}", Expr: "a", Index: 0, Start: 2, End: 7},
		{Text: "{{ b | f:1 }}", Expr: "b", Filters: []FilterCall{{Name: "f", Args: []string{"1"}}}, Index: 1, Start: 10, End: 23},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Each mismatch (-want +got):\n%s", diff)
	}
}

func TestEach_StopsOnError(t *testing.T) {
	stop := stderrors.New("stop")
	n := 0
	err := New().Each("{{a}}{{b}}{{c}}", func(Match) error {
		n++
		return stop
	})
	if err != stop || n != 1 {
		t.Errorf("Each = (%v, %d calls), want (stop, 1)", err, n)
	}
}

func TestCustomDelims(t *testing.T) {
	i := New(WithDelims("[[", "]]"))
	got, err := i.Value("Hi [[ name ]] {{name}}", Options{Scope: map[string]any{"name": "Ann"}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hi Ann {{name}}" {
		t.Errorf("Value = %q, want %q", got, "Hi Ann {{name}}")
	}
	if open, close := i.Delims(); open != "[[" || close != "]]" {
		t.Errorf("Delims() = %q %q", open, close)
	}
}

func TestSingleAndHas(t *testing.T) {
	i := New()
	tests := []struct {
		str         string
		has, single bool
	}{
		{"{{a}}", true, true},
		{" {{a}}", true, false},
		{"{{a}}{{b}}", true, false},
		{"none", false, false},
		{"{{ a &&\n b }}", true, true},
		{"x {{ a |\n upper }}", true, false},
	}
	for _, tt := range tests {
		if got := i.Has(tt.str); got != tt.has {
			t.Errorf("Has(%q) = %v, want %v", tt.str, got, tt.has)
		}
		if got := i.Single(tt.str); got != tt.single {
			t.Errorf("Single(%q) = %v, want %v", tt.str, got, tt.single)
		}
	}
}

func TestSplitFilters(t *testing.T) {
	tests := []struct {
		body  string
		expr  string
		calls []FilterCall
	}{
		{"a", "a", nil},
		{"a || b", "a || b", nil},
		{"a | f", "a", []FilterCall{{Name: "f"}}},
		{`a == "x|y" | f:"p|q":r`, `a == "x|y"`, []FilterCall{{Name: "f", Args: []string{"p|q", "r"}}}},
		{`a | f:'it\'s'`, "a", []FilterCall{{Name: "f", Args: []string{"it's"}}}},
	}
	for _, tt := range tests {
		expr, calls := splitFilters(tt.body)
		if expr != tt.expr {
			t.Errorf("splitFilters(%q) expr = %q, want %q", tt.body, expr, tt.expr)
		}
		if diff := cmp.Diff(tt.calls, calls); diff != "" {
			t.Errorf("splitFilters(%q) calls mismatch (-want +got):\n%s", tt.body, diff)
		}
	}
}
