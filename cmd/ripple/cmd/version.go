package cmd

import (
	"fmt"

	"github.com/go-drift/ripple/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Show the CLI version and the runtime engine version.",
		Usage: "ripple version",
		Run:   runVersion,
	})
}

func runVersion(args []string) error {
	fmt.Fprintf(stdout, "Ripple CLI version %s (built %s, engine %s)\n", Version, BuildTime, config.EngineVersion)
	return nil
}
