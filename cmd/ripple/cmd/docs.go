package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/ripple/pkg/config"
	"github.com/go-drift/ripple/pkg/core"
)

func init() {
	RegisterCommand(&Command{
		Name:  "docs",
		Short: "Generate component reference pages",
		Long: `Generate a Markdown reference page for every component in a bundle.

Each page lists the component's template, attributes, child components and
directives, followed by the HTML rendered from the bundle's sample data.
With --out the pages are written as <component>.md into that directory,
together with a _category_.json for documentation sites; otherwise they are
printed.

Usage:
  ripple docs bills.yaml
  ripple docs bills.yaml --out website/docs/components`,
		Usage: "ripple docs <bundle.yaml> [--out dir]",
		Run:   runDocs,
	})
}

func runDocs(args []string) error {
	outDir, args, err := flagValue(args, "--out")
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("bundle is required\n\nUsage: ripple docs <bundle.yaml> [--out dir]")
	}

	bundle, err := config.LoadBundle(args[0])
	if err != nil {
		return err
	}
	defs, err := bundle.Definitions()
	if err != nil {
		return err
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := writeCategoryFile(outDir); err != nil {
			return err
		}
	}

	for i := range bundle.Components {
		spec := &bundle.Components[i]
		page := componentPage(spec, i+1, sampleHTML(rt, defs[spec.Name], spec.Data))
		if outDir == "" {
			fmt.Fprintln(stdout, page)
			continue
		}
		path := filepath.Join(outDir, spec.Name+".md")
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "Generated %s\n", path)
	}
	return nil
}

// componentPage renders the Markdown page of one component.
func componentPage(spec *config.ComponentSpec, position int, sample string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\nid: %s\ntitle: %s\nsidebar_position: %d\n---\n\n", spec.Name, formatTitle(spec.Name), position)

	b.WriteString("## Template\n\n```html\n")
	b.WriteString(strings.TrimSpace(spec.Template))
	b.WriteString("\n```\n")

	if len(spec.Attrs) > 0 {
		b.WriteString("\n## Attributes\n\n| Name | Type | Required | Default |\n|---|---|---|---|\n")
		for _, a := range spec.Attrs {
			typ := a.Type
			if typ == "" {
				typ = core.Any.String()
			}
			def := ""
			if a.Default != nil {
				def = fmt.Sprintf("`%v`", a.Default)
			}
			fmt.Fprintf(&b, "| `%s` | %s | %t | %s |\n", a.Name, typ, a.Required, def)
		}
	}

	if len(spec.Children) > 0 {
		b.WriteString("\n## Children\n\n")
		for _, c := range spec.Children {
			fmt.Fprintf(&b, "- [%s](%s.md)\n", c, c)
		}
	}

	if len(spec.Directives) > 0 {
		b.WriteString("\n## Directives\n\n")
		for _, d := range spec.Directives {
			fmt.Fprintf(&b, "- `%s`\n", d)
		}
	}

	if sample != "" {
		b.WriteString("\n## Example\n\n```html\n")
		b.WriteString(sample)
		b.WriteString("\n```\n")
	}
	return b.String()
}

// sampleHTML renders def with data. Components whose sample data does not
// satisfy their attributes get no example.
func sampleHTML(rt *core.Runtime, def *core.Definition, data map[string]any) string {
	inst, err := def.New(rt, data)
	if err != nil {
		return ""
	}
	defer inst.Destroy()
	return inst.HTML()
}

func writeCategoryFile(dir string) error {
	content := `{
  "label": "Components",
  "link": {
    "type": "generated-index",
    "description": "Reference pages generated from the component bundle."
  }
}
`
	return os.WriteFile(filepath.Join(dir, "_category_.json"), []byte(content), 0o644)
}

// formatTitle turns a component tag into a page title: "bill-card" becomes
// "Bill Card".
func formatTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
