package model

// UpdateOperation sets Value at a dot-separated Path inside a template tree.
// All-digit segments address sequence indexes, every other segment a mapping key.
type UpdateOperation struct {
	Path  string      `yaml:"path" json:"path"`
	Value interface{} `yaml:"value" json:"value"`
}
