package interpolate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultFilters(t *testing.T) {
	i := New(WithFilters(DefaultFilters()))
	scope := map[string]any{
		"name":  " Ada ",
		"tags":  []string{"a", "b"},
		"empty": "",
		"long":  "abcdefgh",
		"price": 3.14159,
		"obj":   map[string]any{"k": 1},
	}
	tests := []struct {
		str  string
		want any
	}{
		{"{{ name | trim | upper }}", "ADA"},
		{"{{ name | lower }}", " ada "},
		{"{{ empty | default:'n/a' }}", "n/a"},
		{"{{ name | default:'n/a' }}", " Ada "},
		{"{{ tags | join }}", "a, b"},
		{"{{ tags | join:'/' }}", "a/b"},
		{"{{ obj | json }}", `{"k":1}`},
		{"{{ long | truncate:3 }}", "abc…"},
		{"{{ price | fixed }}", "3.14"},
		{"{{ price | fixed:0 }}", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got, err := i.Value(tt.str, Options{Scope: scope})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterArgumentErrors(t *testing.T) {
	i := New(WithFilters(DefaultFilters()))
	for _, str := range []string{"{{ x | truncate }}", "{{ x | truncate:abc }}", "{{ x | fixed }}"} {
		if _, err := i.Value(str, Options{Scope: map[string]any{"x": "word"}}); err == nil {
			t.Errorf("Value(%q) should fail", str)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0, false},
		{0.0, false},
		{2, true},
		{"", false},
		{"0", true},
		{[]int{}, false},
		{[]int{1}, true},
		{map[string]any{}, false},
		{struct{}{}, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
