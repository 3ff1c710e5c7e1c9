package dom

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/errors"
)

func mustParse(t *testing.T, markup string) *html.Node {
	t.Helper()
	n, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse(%q): %v", markup, err)
	}
	return n
}

func TestParse(t *testing.T) {
	n := mustParse(t, "\n  <!-- note --><ul class=\"bills\"><li>{{a}}</li></ul>\n")
	if n.Data != "ul" {
		t.Fatalf("root = %q, want ul", n.Data)
	}
	if n.Parent != nil {
		t.Error("root should be detached")
	}
	if got, want := Render(n), `<ul class="bills"><li>{{a}}</li></ul>`; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, markup := range []string{"", "just text", "<a></a><b></b>", "  "} {
		_, err := Parse(markup)
		if !stderrors.Is(err, errors.ErrTemplate) {
			t.Errorf("Parse(%q) error = %v, want ErrTemplate", markup, err)
		}
	}
}

func TestWalk_PreOrder(t *testing.T) {
	root := mustParse(t, "<div><p><b>x</b></p><span></span></div>")
	var got []string
	Walk(root, func(n *html.Node, next func()) {
		if n.Type == html.ElementNode {
			got = append(got, n.Data)
		}
		next()
	})
	if diff := cmp.Diff([]string{"div", "p", "b", "span"}, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SkipSubtree(t *testing.T) {
	root := mustParse(t, "<div><p><b>x</b></p><span></span></div>")
	var got []string
	Walk(root, func(n *html.Node, next func()) {
		if n.Type != html.ElementNode {
			return
		}
		got = append(got, n.Data)
		if n.Data != "p" {
			next()
		}
	})
	if diff := cmp.Diff([]string{"div", "p", "span"}, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_ReplaceDuringVisit(t *testing.T) {
	root := mustParse(t, "<div><old-tag></old-tag><span></span></div>")
	var got []string
	Walk(root, func(n *html.Node, next func()) {
		if n.Type != html.ElementNode {
			return
		}
		got = append(got, n.Data)
		if n.Data == "old-tag" {
			Replace(n, &html.Node{Type: html.ElementNode, Data: "em"})
			return
		}
		next()
	})
	if diff := cmp.Diff([]string{"div", "old-tag", "span"}, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
	if got, want := Render(root), "<div><em></em><span></span></div>"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestMutations(t *testing.T) {
	root := mustParse(t, "<div><b></b></div>")
	b := root.FirstChild
	i := &html.Node{Type: html.ElementNode, Data: "i"}

	if err := InsertBefore(b, i); err != nil {
		t.Fatal(err)
	}
	if got, want := Render(root), "<div><i></i><b></b></div>"; got != want {
		t.Fatalf("after InsertBefore = %q, want %q", got, want)
	}
	if err := InsertAfter(b, i); err != nil {
		t.Fatal(err)
	}
	if got, want := Render(root), "<div><b></b><i></i></div>"; got != want {
		t.Fatalf("after InsertAfter = %q, want %q", got, want)
	}
	Remove(b)
	Append(root, Text("t"))
	if got, want := Render(root), "<div><i></i>t</div>"; got != want {
		t.Fatalf("after Remove/Append = %q, want %q", got, want)
	}
	if err := InsertBefore(b, i); err == nil {
		t.Error("inserting before a detached node should fail")
	}
	RemoveChildren(root)
	if root.FirstChild != nil {
		t.Error("RemoveChildren left children")
	}
}

func TestCloneIsDeep(t *testing.T) {
	root := mustParse(t, `<p class="x">a<b>b</b></p>`)
	c := Clone(root)
	SetAttr(c, "class", "y")
	c.FirstChild.Data = "changed"

	if got, want := Render(root), `<p class="x">a<b>b</b></p>`; got != want {
		t.Errorf("original changed: %q", got)
	}
	if got, want := Render(c), `<p class="y">changed<b>b</b></p>`; got != want {
		t.Errorf("Render(clone) = %q, want %q", got, want)
	}
}

func TestInnerHTMLAndTextContent(t *testing.T) {
	root := mustParse(t, "<x-card><h1>Title</h1> body</x-card>")
	if got, want := InnerHTML(root), "<h1>Title</h1> body"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
	if got, want := TextContent(root), "Title body"; got != want {
		t.Errorf("TextContent = %q, want %q", got, want)
	}
}

func TestAttrs(t *testing.T) {
	n := mustParse(t, `<input type="checkbox" class="a b">`)
	if v, ok := Attr(n, "type"); !ok || v != "checkbox" {
		t.Errorf("Attr(type) = %q, %v", v, ok)
	}
	SetAttr(n, "checked", "")
	RemoveAttr(n, "type")
	if _, ok := Attr(n, "type"); ok {
		t.Error("type should be removed")
	}
	ToggleClass(n, "b", false)
	ToggleClass(n, "c", true)
	ToggleClass(n, "c", true)
	if !HasClass(n, "c") || HasClass(n, "b") {
		t.Errorf("class = %v", n.Attr)
	}
	if got, want := Render(n), `<input class="a c" checked=""/>`; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	ToggleClass(n, "a", false)
	ToggleClass(n, "c", false)
	if _, ok := Attr(n, "class"); ok {
		t.Error("empty class attribute should be removed")
	}
}

func TestIsBooleanAttr(t *testing.T) {
	for name, want := range map[string]bool{"checked": true, "Disabled": true, "href": false, "value": false} {
		if got := IsBooleanAttr(name); got != want {
			t.Errorf("IsBooleanAttr(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestEvents_Bubble(t *testing.T) {
	root := mustParse(t, "<ul><li><a>x</a></li></ul>")
	li := root.FirstChild
	a := li.FirstChild
	ev := NewEvents()

	var got []string
	ev.Listen(root, "click", func(e *Event) { got = append(got, "ul") })
	ev.Listen(li, "click", func(e *Event) {
		got = append(got, "li")
		if e.Target != a || e.CurrentTarget != li {
			t.Error("unexpected target/currentTarget")
		}
	})

	if n := ev.Dispatch(a, &Event{Type: "click"}); n != 2 {
		t.Errorf("Dispatch called %d listeners, want 2", n)
	}
	if diff := cmp.Diff([]string{"li", "ul"}, got); diff != "" {
		t.Errorf("bubble order mismatch (-want +got):\n%s", diff)
	}
}

func TestEvents_StopAndRemove(t *testing.T) {
	root := mustParse(t, "<div><button></button></div>")
	btn := root.FirstChild
	ev := NewEvents()

	outer := 0
	ev.Listen(root, "click", func(*Event) { outer++ })
	remove := ev.Listen(btn, "click", func(e *Event) { e.StopPropagation() })

	ev.Dispatch(btn, &Event{Type: "click"})
	if outer != 0 {
		t.Error("propagation should have stopped")
	}

	remove()
	remove()
	if ev.Listeners(btn, "click") != 0 {
		t.Error("listener not removed")
	}
	ev.Dispatch(btn, &Event{Type: "click"})
	if outer != 1 {
		t.Errorf("outer = %d, want 1", outer)
	}

	ev.Clear(root)
	if ev.Listeners(root, "click") != 0 {
		t.Error("Clear left listeners")
	}
}
