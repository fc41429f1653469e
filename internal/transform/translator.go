package transform

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/template"
)

// Frameworks a layer translates into
const (
	FrameworkHopsflow  = "hopsflow"
	FrameworkBrewtiful = "brewtiful"
)

// ArtifactTransformations is the artifact type produced by Mapper
const ArtifactTransformations = "transformations"

// Translator produces template updates for one migrated table
type Translator interface {
	Updates(item model.MigrationItem, sources model.NotebookSourceMap) []model.UpdateOperation
}

// Key identifies a translator by target framework and artifact type
type Key struct {
	Framework string
	Artifact  string
}

func (k Key) String() string {
	return k.Framework + "/" + k.Artifact
}

// Registry resolves translators by Key
type Registry struct {
	translators map[Key]Translator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{translators: make(map[Key]Translator)}
}

// DefaultRegistry registers the transformations mapper for hopsflow
func DefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry()
	r.Register(FrameworkHopsflow, ArtifactTransformations, NewMapper(opts...))
	return r
}

// Register binds a translator, replacing any earlier one for the same key
func (r *Registry) Register(framework, artifact string, t Translator) {
	r.translators[Key{Framework: framework, Artifact: artifact}] = t
}

// Lookup returns the translator for framework and artifact
func (r *Registry) Lookup(framework, artifact string) (Translator, error) {
	if t, ok := r.translators[Key{Framework: framework, Artifact: artifact}]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("no translator for framework %q and artifact %q (registered: %s)",
		framework, artifact, strings.Join(r.Keys(), ", "))
}

// Keys lists registered keys in sorted order
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.translators))
	for k := range r.translators {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// FrameworkFor maps a layer to the framework its artifacts target
func FrameworkFor(layer model.Layer) string {
	switch layer {
	case model.LayerBronze, model.LayerSilver:
		return FrameworkHopsflow
	}
	return FrameworkBrewtiful
}

// FindItem looks up an item by table name, ignoring case
func FindItem(items []model.MigrationItem, table string) (model.MigrationItem, bool) {
	for _, item := range items {
		if strings.EqualFold(item.TableName, table) {
			return item, true
		}
	}
	return model.MigrationItem{}, false
}

// NeedsTransformations reports whether the item has silver work to translate
func NeedsTransformations(item model.MigrationItem) bool {
	return item.HasSilver() || item.NotebookPathSlv != ""
}

// Translate applies the translator's updates for item to tree
func Translate(engine *template.Engine, t Translator, item model.MigrationItem, sources model.NotebookSourceMap, tree map[string]interface{}) (map[string]interface{}, error) {
	ops := t.Updates(item, sources)
	updated, err := engine.Apply(tree, ops)
	if err != nil {
		return nil, fmt.Errorf("failed to update template for %s: %w", item.TableName, err)
	}
	return updated, nil
}

// TemplatePath is the transformations template location for a table under root
func TemplatePath(root, table string) string {
	return path.Join(root, table, table+"_"+ArtifactTransformations+".yaml")
}
