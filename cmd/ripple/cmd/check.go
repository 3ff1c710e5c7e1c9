package cmd

import (
	"fmt"

	"github.com/go-drift/ripple/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate component templates",
		Long: `Check every component of a YAML bundle without rendering it.

Templates must have a single root element, every placeholder must compile,
every filter must be registered, and every declared directive must resolve.`,
		Usage: "ripple check <bundle.yaml>",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("bundle is required\n\nUsage: ripple check <bundle.yaml>")
	}
	bundle, err := config.LoadBundle(args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	errs := bundle.Check(rt)
	for _, err := range errs {
		fmt.Fprintf(stdout, "  %v\n", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %d problem(s) found", args[0], len(errs))
	}
	fmt.Fprintf(stdout, "%s: %d component(s) OK\n", args[0], len(bundle.Components))
	return nil
}
