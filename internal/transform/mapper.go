// Package transform infers template updates from migrated scripts.
package transform

import (
	"log/slog"
	"strings"

	"github.com/sourceplane/pipeshift/internal/doc"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/widget"
)

// Template keys written by the mapper
const (
	KeyCheckpoint             = "checkpoint"
	KeySourceFileNameColumns  = "source_file_name_columns"
	KeySortByColumns          = "sort_by_columns"
	KeyDropDuplicateColumns   = "drop_duplicate.based_on_columns"
	KeyDerivedColumnPartition = "derived_column_partition"

	partitionColumnParam = "partition_column"
	partitionFormatParam = "partition_date_format"
	partitionSuffix      = "_partition"
	sortDescending       = "desc"
)

// Option configures a Mapper
type Option func(*Mapper)

// WithLogger sets the logger used for soft warnings
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Mapper derives transformation template updates from one item's script
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a new mapper
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Updates implements Translator
func (m *Mapper) Updates(item model.MigrationItem, sources model.NotebookSourceMap) []model.UpdateOperation {
	return m.Map(item, sources)
}

// Map returns the ordered updates detected in the item's script. An item
// without a usable script yields no updates.
func (m *Mapper) Map(item model.MigrationItem, sources model.NotebookSourceMap) []model.UpdateOperation {
	path := item.ScriptPath()
	if path == "" {
		m.logger.Warn("no script path for table", "table", item.TableName)
		return nil
	}
	source, ok := sources[path]
	if !ok || strings.TrimSpace(source) == "" {
		m.logger.Warn("no script source for table", "table", item.TableName, "path", path)
		return nil
	}
	if strings.HasPrefix(source, model.ScriptErrorPrefix) {
		m.logger.Warn("script fetch failed earlier", "table", item.TableName, "path", path,
			"cause", strings.TrimPrefix(source, model.ScriptErrorPrefix))
		return nil
	}

	ex := widget.New(source)
	var ops []model.UpdateOperation

	if ex.ResetsCheckpoint() {
		ops = append(ops, model.UpdateOperation{Path: KeyCheckpoint, Value: true})
	}
	if ex.UsesInputFileName() {
		ops = append(ops, model.UpdateOperation{Path: KeySourceFileNameColumns, Value: true})
	}

	keys := ex.DedupKeys()
	if ex.IsUpsert() || len(keys) > 0 {
		if watermarks := ex.WatermarkColumns(); len(watermarks) > 0 {
			sortBy := make([]interface{}, 0, len(watermarks))
			for _, col := range watermarks {
				sortBy = append(sortBy, map[string]interface{}{"column": col, "order": sortDescending})
			}
			ops = append(ops, model.UpdateOperation{Path: KeySortByColumns, Value: sortBy})
		}
		if len(keys) > 0 {
			ops = append(ops, model.UpdateOperation{Path: KeyDropDuplicateColumns, Value: toInterfaces(keys)})
		}
	}

	if params, ok := ex.AdditionalParameters(); ok {
		column := doc.NonEmptyString(params[partitionColumnParam])
		format := doc.NonEmptyString(params[partitionFormatParam])
		if column != "" && format != "" {
			ops = append(ops, model.UpdateOperation{Path: KeyDerivedColumnPartition, Value: map[string]interface{}{
				"source_column": column,
				"target_column": column + partitionSuffix,
				"format":        format,
			}})
		}
	}

	m.logger.Debug("mapped transformations", "table", item.TableName, "updates", len(ops))
	return ops
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
