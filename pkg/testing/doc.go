// Package testing provides a component testing harness for ripple.
//
// # Quick Start
//
// Create a tester, mount a component, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := rippletest.NewViewTesterWithT(t)
//	    if _, err := tester.Mount(counter, map[string]any{"clicks": 0}); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    tester.Click(rippletest.ByTag("button"))
//	    tester.Pump()
//
//	    if !tester.Find(rippletest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// Frames never run on their own: Pump runs exactly one, PumpAndSettle runs
// them until nothing is scheduled.
//
// # Snapshot Testing
//
// Capture and compare the rendered HTML:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/counter.snapshot.html")
//
// Update snapshots with:
//
//	RIPPLE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import rippletest "github.com/go-drift/ripple/pkg/testing"
package testing
