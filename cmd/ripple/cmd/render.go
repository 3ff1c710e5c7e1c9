package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/ripple/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a component to HTML",
		Long: `Render a component from a YAML bundle and print its HTML.

The component is created with the data file given by --data, or with the
sample data declared in the bundle.

Usage:
  ripple render bills.yaml bill-list
  ripple render bills.yaml bill-card --data rent.yaml`,
		Usage: "ripple render <bundle.yaml> <component> [--data file.yaml]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	dataPath, args, err := flagValue(args, "--data")
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("bundle and component are required\n\nUsage: ripple render <bundle.yaml> <component> [--data file.yaml]")
	}

	bundle, err := config.LoadBundle(args[0])
	if err != nil {
		return err
	}
	spec, ok := bundle.Component(args[1])
	if !ok {
		return fmt.Errorf("component %q not found in %s", args[1], args[0])
	}
	defs, err := bundle.Definitions()
	if err != nil {
		return err
	}

	data := spec.Data
	if dataPath != "" {
		if data, err = loadData(dataPath); err != nil {
			return err
		}
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	inst, err := defs[spec.Name].New(rt, data)
	if err != nil {
		return err
	}
	defer inst.Destroy()

	fmt.Fprintln(stdout, inst.HTML())
	return nil
}

func loadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	return data, nil
}
