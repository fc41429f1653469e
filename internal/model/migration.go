package model

// Layer names a processing layer of the source platform
type Layer string

const (
	LayerBronze Layer = "brz"
	LayerSilver Layer = "slv"
	LayerGold   Layer = "gld"
)

// ScriptExtension is the suffix every normalized script path carries
const ScriptExtension = ".py"

// ScriptErrorPrefix marks a NotebookSourceMap entry whose fetch failed
const ScriptErrorPrefix = "# ERROR: "

// MigrationItem is a single table entry found in a trigger's items list.
// Absent configs are nil; absent script paths are empty strings.
type MigrationItem struct {
	TableName       string                 `yaml:"table_name" json:"table_name"`
	BronzeConfig    map[string]interface{} `yaml:"bronze_config" json:"bronze_config"`
	SilverConfig    map[string]interface{} `yaml:"silver_config" json:"silver_config"`
	NotebookPathBrz string                 `yaml:"notebook_path_brz,omitempty" json:"notebook_path_brz,omitempty"`
	NotebookPathSlv string                 `yaml:"notebook_path_slv,omitempty" json:"notebook_path_slv,omitempty"`
	GovernancePath  string                 `yaml:"governance_path,omitempty" json:"governance_path,omitempty"`
}

// HasBronze reports whether the item declares a bronze load
func (m MigrationItem) HasBronze() bool {
	return m.BronzeConfig != nil
}

// HasSilver reports whether the item declares a silver load
func (m MigrationItem) HasSilver() bool {
	return m.SilverConfig != nil
}

// TableConfig picks bronze first, then silver
func (m MigrationItem) TableConfig() PrimaryConfig {
	switch {
	case m.HasBronze():
		return PrimaryConfig{Layer: LayerBronze, Config: m.BronzeConfig}
	case m.HasSilver():
		return PrimaryConfig{Layer: LayerSilver, Config: m.SilverConfig}
	}
	return PrimaryConfig{}
}

// PipelineConfig picks silver first, then bronze
func (m MigrationItem) PipelineConfig() PrimaryConfig {
	switch {
	case m.HasSilver():
		return PrimaryConfig{Layer: LayerSilver, Config: m.SilverConfig}
	case m.HasBronze():
		return PrimaryConfig{Layer: LayerBronze, Config: m.BronzeConfig}
	}
	return PrimaryConfig{}
}

// ScriptPath returns the silver script path, falling back to bronze
func (m MigrationItem) ScriptPath() string {
	if m.NotebookPathSlv != "" {
		return m.NotebookPathSlv
	}
	return m.NotebookPathBrz
}

// WithGovernancePath returns a copy of the item pointing at its governance document
func (m MigrationItem) WithGovernancePath(path string) MigrationItem {
	m.GovernancePath = path
	return m
}

// PrimaryConfig is the tagged choice Bronze | Silver | None made once per item
type PrimaryConfig struct {
	Layer  Layer
	Config map[string]interface{}
}

// IsNone reports whether the item carried neither config
func (p PrimaryConfig) IsNone() bool {
	return p.Layer == ""
}

// Get returns the raw value stored under key, or nil
func (p PrimaryConfig) Get(key string) interface{} {
	if p.Config == nil {
		return nil
	}
	return p.Config[key]
}

// NotebookSourceMap maps a normalized script path to its source text
type NotebookSourceMap map[string]string
