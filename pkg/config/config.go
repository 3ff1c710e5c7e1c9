// Package config loads ripple.yaml project configuration and YAML component
// bundles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/ripple/pkg/core"
	"github.com/go-drift/ripple/pkg/scheduler"
)

// FileName is the project configuration file looked up in the project root.
const FileName = "ripple.yaml"

// EngineVersion is the version of this runtime checked against
// engine.version constraints.
const EngineVersion = "v0.3.0"

// Config represents the optional ripple.yaml configuration.
type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Engine  EngineConfig  `yaml:"engine"`
}

// RuntimeConfig contains runtime settings.
type RuntimeConfig struct {
	// FrameInterval is a time.ParseDuration string, e.g. "16ms".
	FrameInterval string `yaml:"frameInterval,omitempty"`
	// Delims are the opening and closing placeholder delimiters.
	Delims []string `yaml:"delims,omitempty"`
	// VerboseErrors includes stack traces in logged errors.
	VerboseErrors bool `yaml:"verboseErrors,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	// Version is a constraint such as ">=v0.2.0" or "v0.3".
	Version string `yaml:"version,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	ProjectName   string
	FrameInterval time.Duration
	Open, Close   string
	VerboseErrors bool
	EngineVersion string
}

// Parse decodes ripple.yaml contents.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// LoadOptional reads ripple.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Resolve loads ripple.yaml (if present) for the module rooted at dir and
// applies defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Root = dir
	r.ModulePath = modulePath
	r.ProjectName = defaultProjectName(modulePath, dir)
	return r, nil
}

// Resolve validates the configuration and applies defaults.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		FrameInterval: scheduler.DefaultFrameInterval,
		Open:          "{{",
		Close:         "}}",
		VerboseErrors: c.Runtime.VerboseErrors,
		EngineVersion: strings.TrimSpace(c.Engine.Version),
	}

	if s := strings.TrimSpace(c.Runtime.FrameInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("runtime.frameInterval: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("runtime.frameInterval must be positive (got %s)", s)
		}
		r.FrameInterval = d
	}

	switch len(c.Runtime.Delims) {
	case 0:
	case 2:
		if c.Runtime.Delims[0] == "" || c.Runtime.Delims[1] == "" {
			return nil, fmt.Errorf("runtime.delims cannot be empty")
		}
		r.Open, r.Close = c.Runtime.Delims[0], c.Runtime.Delims[1]
	default:
		return nil, fmt.Errorf("runtime.delims must have exactly two entries (got %d)", len(c.Runtime.Delims))
	}

	if r.EngineVersion == "" {
		r.EngineVersion = "latest"
	} else if err := CheckEngine(r.EngineVersion, EngineVersion); err != nil {
		return nil, err
	}
	return r, nil
}

// RuntimeOptions converts the resolved settings into runtime options. The
// frame host is a FrameLoop at the configured interval.
func (r *Resolved) RuntimeOptions() []core.RuntimeOption {
	return []core.RuntimeOption{
		core.WithFrames(scheduler.NewFrameLoop(r.FrameInterval)),
		core.WithDelims(r.Open, r.Close),
	}
}

// CheckEngine reports whether version satisfies constraint. A constraint is
// an optional operator (>=, >, <=, <, =, ^) followed by a semantic version,
// which may be abbreviated to vMAJOR or vMAJOR.MINOR. A bare version or "^"
// matches the same major version at or above it; "latest" matches anything.
func CheckEngine(constraint, version string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || constraint == "latest" {
		return nil
	}
	if !semver.IsValid(version) {
		return fmt.Errorf("invalid engine version %q", version)
	}

	op := "^"
	for _, candidate := range []string{">=", "<=", ">", "<", "=", "^"} {
		if rest, ok := strings.CutPrefix(constraint, candidate); ok {
			op, constraint = candidate, strings.TrimSpace(rest)
			break
		}
	}
	want := constraint
	if !strings.HasPrefix(want, "v") {
		want = "v" + want
	}
	if !semver.IsValid(want) {
		return fmt.Errorf("engine.version: invalid constraint %q", constraint)
	}

	cmp := semver.Compare(version, want)
	ok := false
	switch op {
	case ">=":
		ok = cmp >= 0
	case ">":
		ok = cmp > 0
	case "<=":
		ok = cmp <= 0
	case "<":
		ok = cmp < 0
	case "=":
		ok = cmp == 0
	case "^":
		ok = cmp >= 0 && semver.Major(version) == semver.Major(want)
	}
	if !ok {
		return fmt.Errorf("engine %s does not satisfy engine.version %s%s", version, op, want)
	}
	return nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultProjectName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok {
		parts := strings.Split(modName, "/")
		if len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "ripple_app"
	}
	return base
}
