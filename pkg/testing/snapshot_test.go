package testing

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/ripple/pkg/dom"
	"github.com/go-drift/ripple/pkg/testing/internal/testbed"
)

// fakeT records failures so MatchesFile can be tested without failing.
type fakeT struct {
	errors []string
	fatal  []string
}

func (f *fakeT) Helper() {}
func (f *fakeT) Name() string {
	return "TestFake"
}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatal = append(f.fatal, fmt.Sprintf(format, args...))
}

func TestSnapshot_MatchesGoldenFile(t *testing.T) {
	tester := NewViewTesterWithT(t)
	if _, err := tester.Mount(testbed.Counter(nil), nil); err != nil {
		t.Fatal(err)
	}
	tester.CaptureSnapshot().MatchesFile(t, filepath.Join("testdata", "counter.snapshot.html"))
}

func TestSnapshot_ReportsMismatch(t *testing.T) {
	tester := NewViewTesterWithT(t)
	inst, err := tester.Mount(testbed.Counter(nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	inst.Set("clicks", 3)
	tester.Pump()

	ft := &fakeT{}
	tester.CaptureSnapshot().MatchesFile(ft, filepath.Join("testdata", "counter.snapshot.html"))
	if len(ft.errors) != 1 {
		t.Fatalf("expected one mismatch, got %v", ft.errors)
	}
	if !strings.Contains(ft.errors[0], `"    0"`) || !strings.Contains(ft.errors[0], `"    3"`) {
		t.Errorf("diff should show the changed count:\n%s", ft.errors[0])
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	ft := &fakeT{}
	(&Snapshot{}).MatchesFile(ft, filepath.Join(t.TempDir(), "none.html"))
	if len(ft.fatal) != 1 || !strings.Contains(ft.fatal[0], UpdateEnv) {
		t.Errorf("fatal = %v, want missing-file message", ft.fatal)
	}
}

func TestSnapshot_UpdateFile(t *testing.T) {
	root, err := dom.Parse(`<ul><li>a &amp; b</li><li><br></li></ul>`)
	if err != nil {
		t.Fatal(err)
	}
	holder, _ := dom.Parse(`<div></div>`)
	dom.Append(holder, root)

	snap := CaptureNode(holder)
	want := "<ul>\n  <li>\n    a &amp; b\n  </li>\n  <li>\n    <br>\n  </li>\n</ul>\n"
	if got := snap.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	path := filepath.Join(t.TempDir(), "nested", "list.html")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := snap.Diff(loaded); diff != "" {
		t.Errorf("round trip differs:\n%s", diff)
	}
	t.Setenv(UpdateEnv, "1")
	(&Snapshot{Lines: []string{"<p>"}}).MatchesFile(t, path)
	loaded, _ = LoadSnapshot(path)
	if len(loaded.Lines) != 1 {
		t.Errorf("update mode should rewrite the file, got %v", loaded.Lines)
	}
}
