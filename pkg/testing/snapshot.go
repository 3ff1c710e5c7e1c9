package testing

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	xhtml "golang.org/x/net/html"

	"github.com/go-drift/ripple/pkg/dom"
)

// UpdateEnv is the environment variable that makes MatchesFile rewrite
// golden files instead of comparing.
const UpdateEnv = "RIPPLE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is the rendered tree in an indented, one-node-per-line form that
// diffs well.
type Snapshot struct {
	Lines []string
}

// CaptureSnapshot captures the tree under Body.
func (t *ViewTester) CaptureSnapshot() *Snapshot {
	return CaptureNode(t.body)
}

// CaptureNode captures the children of n.
func CaptureNode(n *xhtml.Node) *Snapshot {
	s := &Snapshot{}
	if n == nil {
		return s
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.capture(c, 0)
	}
	return s
}

func (s *Snapshot) capture(n *xhtml.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case xhtml.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			s.Lines = append(s.Lines, indent+html.EscapeString(text))
		}
	case xhtml.CommentNode:
		s.Lines = append(s.Lines, indent+"<!--"+n.Data+"-->")
	case xhtml.ElementNode:
		var sb strings.Builder
		sb.WriteString(indent + "<" + n.Data)
		for _, a := range n.Attr {
			fmt.Fprintf(&sb, " %s=%q", a.Key, a.Val)
		}
		sb.WriteString(">")
		s.Lines = append(s.Lines, sb.String())
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			s.capture(c, depth+1)
		}
		if n.FirstChild != nil || !dom.IsVoidElement(n.Data) {
			s.Lines = append(s.Lines, indent+"</"+n.Data+">")
		}
	}
}

// String joins the snapshot lines.
func (s *Snapshot) String() string {
	if len(s.Lines) == 0 {
		return ""
	}
	return strings.Join(s.Lines, "\n") + "\n"
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When RIPPLE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s.String()), 0o644)
}

// LoadSnapshot reads a golden file written by UpdateFile.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == "" {
		return &Snapshot{}, nil
	}
	return &Snapshot{Lines: strings.Split(text, "\n")}, nil
}

// Diff returns a diff from other (expected) to this snapshot (actual).
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	if diff := cmp.Diff(other.Lines, s.Lines); diff != "" {
		return "(-expected +actual):\n" + diff
	}
	return ""
}
