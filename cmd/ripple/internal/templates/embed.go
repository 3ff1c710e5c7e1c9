// Package templates provides embedded template files for project creation.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed init/*
var FS embed.FS

// Data contains the values substituted into init templates.
type Data struct {
	ProjectName   string
	EngineVersion string
	Open          string
	Close         string
}

// ReadFile reads a template file from the embedded filesystem.
func ReadFile(name string) ([]byte, error) {
	return FS.ReadFile(name)
}

// Init lists the init templates in the order they are written.
func Init() ([]string, error) {
	return fs.Glob(FS, "init/*.tmpl")
}
