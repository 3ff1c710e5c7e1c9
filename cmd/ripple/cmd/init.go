package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/go-drift/ripple/cmd/ripple/internal/templates"
	"github.com/go-drift/ripple/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a new ripple project",
		Long: `Create a new ripple project in a new directory.

This command creates:
  - ripple.yaml with the default runtime settings
  - components.yaml with a starter component bundle

The project name is derived from the directory basename and becomes the
name of the root component.

Examples:
  ripple init bills
  ripple init ./projects/bills`,
		Usage: "ripple init <directory>",
		Run:   runInit,
	})
}

// runInit creates a new project directory from the embedded templates and
// checks the generated bundle.
func runInit(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("directory is required\n\nUsage: ripple init <directory>")
	}

	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by ripple; use an absolute path or $HOME instead")
	}
	dir := filepath.Clean(raw)
	if err := validateDirectory(dir); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	if err := validateProjectName(projectName); err != nil {
		return fmt.Errorf("invalid project name %q (derived from directory basename): %w", projectName, err)
	}

	if err := scaffoldProject(dir, projectName); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Project created successfully!\n\n")
	fmt.Fprintf(stdout, "Next steps:\n")
	fmt.Fprintf(stdout, "  cd %s\n", dir)
	fmt.Fprintf(stdout, "  ripple render components.yaml %s\n", projectName)
	return nil
}

// scaffoldProject creates dir and writes the init templates into it. On any
// failure the directory is removed again.
func scaffoldProject(dir, projectName string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	fmt.Fprintf(stdout, "Creating new ripple project: %s\n", projectName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	defaults, err := (&config.Config{}).Resolve()
	if err != nil {
		safeRemoveAll(dir)
		return err
	}
	data := templates.Data{
		ProjectName:   projectName,
		EngineVersion: strings.TrimPrefix(config.EngineVersion, "v"),
		Open:          defaults.Open,
		Close:         defaults.Close,
	}

	names, err := templates.Init()
	if err != nil {
		safeRemoveAll(dir)
		return err
	}
	for _, name := range names {
		destName := strings.TrimSuffix(filepath.Base(name), ".tmpl")
		if err := writeInitTemplate(dir, name, destName, data); err != nil {
			safeRemoveAll(dir)
			return err
		}
		fmt.Fprintf(stdout, "  Created %s\n", destName)
	}

	bundle, err := config.LoadBundle(filepath.Join(dir, "components.yaml"))
	if err != nil {
		safeRemoveAll(dir)
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		safeRemoveAll(dir)
		return err
	}
	if errs := bundle.Check(rt); len(errs) > 0 {
		safeRemoveAll(dir)
		return fmt.Errorf("generated bundle is invalid: %w", errs[0])
	}
	return nil
}

// writeInitTemplate renders one template. Templates use [[ ]] so that the
// generated files can carry ripple placeholders.
func writeInitTemplate(projectDir, templatePath, destName string, data templates.Data) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	tmpl, err := template.New(destName).Delims("[[", "]]").Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	destPath := filepath.Join(projectDir, destName)
	if err := os.WriteFile(destPath, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destName, err)
	}
	return nil
}

// validateDirectory rejects directory paths that would be dangerous to create
// or clean up: filesystem roots, the current or parent directory and
// root-level absolute paths.
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes dir only if it passes validateDirectory.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}
