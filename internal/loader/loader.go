// Package loader reads the documents and scripts the engine works on.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// ReadFile returns the contents of path on fs
func ReadFile(fs billy.Filesystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// LoadDocument reads a JSON or YAML document into a generic tree. The
// extension picks the decoder; anything else is tried as JSON, then YAML.
func LoadDocument(fs billy.Filesystem, path string) (interface{}, error) {
	data, err := ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return doc, nil
}

// LoadTrigger reads a trigger definition. It must decode to a mapping.
func LoadTrigger(fs billy.Filesystem, path string) (map[string]interface{}, error) {
	doc, err := LoadDocument(fs, path)
	if err != nil {
		return nil, err
	}
	trigger, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("trigger %s is not a mapping", path)
	}
	return trigger, nil
}

// LoadOptionalText returns the raw text of an auxiliary document. An empty
// path or a missing file yields "".
func LoadOptionalText(fs billy.Filesystem, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func decode(name string, data []byte) (interface{}, error) {
	var doc interface{}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		err := json.Unmarshal(data, &doc)
		return doc, err
	case ".yaml", ".yml":
		err := yaml.Unmarshal(data, &doc)
		return doc, err
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	err := yaml.Unmarshal(data, &doc)
	return doc, err
}
