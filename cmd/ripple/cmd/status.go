package cmd

import (
	"fmt"

	"github.com/go-drift/ripple/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show project status",
		Long: `Show the current ripple project configuration.

Displays the module path from go.mod and the resolved ripple.yaml settings.`,
		Usage: "ripple status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Project: %s (%s)\n", cfg.ProjectName, cfg.ModulePath)
	fmt.Fprintf(stdout, "Root:    %s\n", cfg.Root)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Runtime:")
	fmt.Fprintf(stdout, "  %-15s %s\n", "frameInterval:", cfg.FrameInterval)
	fmt.Fprintf(stdout, "  %-15s %s %s\n", "delims:", cfg.Open, cfg.Close)
	fmt.Fprintf(stdout, "  %-15s %t\n", "verboseErrors:", cfg.VerboseErrors)
	fmt.Fprintf(stdout, "  %-15s %s (running %s)\n", "engine:", cfg.EngineVersion, config.EngineVersion)
	return nil
}
