// Package render writes engine results as JSON, YAML or human-readable trees.
package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"
)

// Renderer encodes results for files and terminals
type Renderer struct {
	fs billy.Filesystem
}

// NewRenderer creates a renderer writing to fs
func NewRenderer(fs billy.Filesystem) *Renderer {
	return &Renderer{fs: fs}
}

// RenderJSON renders v as indented JSON
func (r *Renderer) RenderJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// RenderYAML renders v as YAML
func (r *Renderer) RenderYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// Render encodes v in the named format ("json" or "yaml")
func (r *Renderer) Render(v interface{}, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return r.RenderYAML(v)
	case "json", "":
		return r.RenderJSON(v)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// Write writes v to path (JSON or YAML based on extension)
func (r *Renderer) Write(v interface{}, path string) error {
	var data []byte
	var err error

	// Determine format from extension
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(v)
	default:
		// Default to JSON if no extension
		data, err = r.RenderJSON(v)
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := util.WriteFile(r.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output to %s: %w", path, err)
	}
	return nil
}

// DebugDump returns a detailed structural dump of every value
func (r *Renderer) DebugDump(values ...interface{}) string {
	cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
	return cfg.Sdump(values...)
}
