package testing

import (
	"testing"

	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/testing/internal/testbed"
)

func mountList(t *testing.T) *ViewTester {
	t.Helper()
	tester := NewViewTesterWithT(t)
	tester.Runtime().Component("labelled", testbed.Labelled())
	list := core.Define("list", `<form id="f">
  <labelled label="Name"><input name="name" class="field wide"></labelled>
  <labelled label="Age"><input name="age" class="field"></labelled>
  <p>Total: <em>2</em></p>
</form>`)
	if _, err := tester.Mount(list, nil); err != nil {
		t.Fatal(err)
	}
	return tester
}

func TestFinders(t *testing.T) {
	tester := mountList(t)

	tests := []struct {
		finder Finder
		count  int
	}{
		{ByTag("label"), 2},
		{ByTag("INPUT"), 2},
		{ByClass("field"), 2},
		{ByClass("wide"), 1},
		{ByAttr("name", "age"), 1},
		{ByID("f"), 1},
		{ByID("missing"), 0},
		{ByText("Name"), 1},
		{ByText("2"), 1},
		{ByTextContaining("Total"), 1},
		{Descendant(ByTag("label"), ByTag("input")), 2},
		{Descendant(ByTag("p"), ByTag("input")), 0},
	}
	for _, tt := range tests {
		if got := tester.Find(tt.finder).Count(); got != tt.count {
			t.Errorf("%s found %d, want %d", tt.finder.Description(), got, tt.count)
		}
	}
}

func TestFinderResult(t *testing.T) {
	tester := mountList(t)

	inputs := tester.Find(ByTag("input"))
	if name, _ := inputs.Attr("name"); name != "name" {
		t.Errorf("first input name = %q", name)
	}
	if name, _ := attrAt(inputs, 1, "name"); name != "age" {
		t.Errorf("second input name = %q", name)
	}
	if got := tester.Find(ByText("2")).First().Data; got != "em" {
		t.Errorf("ByText should match the innermost element, got <%s>", got)
	}
	if tester.Find(ByTag("table")).FirstOrNil() != nil {
		t.Error("FirstOrNil should be nil without matches")
	}

	defer func() {
		if recover() == nil {
			t.Error("First() without matches should panic")
		}
	}()
	tester.Find(ByTag("table")).First()
}

func attrAt(r FinderResult, i int, key string) (string, bool) {
	n := r.At(i)
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
