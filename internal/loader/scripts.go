package loader

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/trigger"
)

// ScriptSource reads repository files by their normalized path
type ScriptSource interface {
	ReadFile(path string) (string, error)
}

// FSSource reads files below Root on a billy filesystem
type FSSource struct {
	FS   billy.Filesystem
	Root string
}

// NewFSSource creates a source rooted at root
func NewFSSource(fs billy.Filesystem, root string) *FSSource {
	return &FSSource{FS: fs, Root: root}
}

// ReadFile implements ScriptSource
func (s *FSSource) ReadFile(name string) (string, error) {
	data, err := ReadFile(s.FS, path.Join(s.Root, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchScripts reads every distinct script referenced by items once. A
// failed read is stored as an error placeholder so later stages can tell
// it apart from a script that was never requested.
func FetchScripts(src ScriptSource, items []model.MigrationItem, logger *slog.Logger) model.NotebookSourceMap {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sources := make(model.NotebookSourceMap)
	for _, p := range trigger.UniqueScriptPaths(items) {
		text, err := src.ReadFile(p)
		if err != nil {
			logger.Warn("failed to fetch script", "path", p, "error", err)
			sources[p] = fmt.Sprintf("%s%v", model.ScriptErrorPrefix, err)
			continue
		}
		sources[p] = text
	}
	return sources
}

// FetchGovernance reads the quality rule document of every silver item.
// Items whose document was found come back with GovernancePath set; the
// documents are keyed by table name. Missing documents are logged and skipped.
func FetchGovernance(src ScriptSource, items []model.MigrationItem, globals map[string]string, defaults trigger.GovernanceDefaults, logger *slog.Logger) ([]model.MigrationItem, map[string]string) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	out := make([]model.MigrationItem, len(items))
	docs := make(map[string]string)
	for i, item := range items {
		out[i] = item

		p := trigger.GovernancePath(item, globals, defaults)
		if p == "" {
			continue
		}
		text, err := src.ReadFile(p)
		if err != nil {
			logger.Warn("governance document not found", "table", item.TableName, "path", p, "error", err)
			continue
		}
		out[i] = item.WithGovernancePath(p)
		docs[item.TableName] = text
	}
	return out, docs
}
