// Package schema validates engine documents against embedded JSON schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// Validator handles JSON schema validation
type Validator struct {
	configSchema  *jsonschema.Schema
	signalsSchema *jsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	configSchema, err := loadSchema("config.schema.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	v.configSchema = configSchema

	signalsSchema, err := loadSchema("signals.schema.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load signals schema: %w", err)
	}
	v.signalsSchema = signalsSchema

	return v, nil
}

// ValidateConfig validates a decoded engine configuration document
func (v *Validator) ValidateConfig(data interface{}) error {
	if v.configSchema == nil {
		return fmt.Errorf("config schema not loaded")
	}
	return validate(v.configSchema, data)
}

// ValidateSignals validates a signal set, or any value that encodes to
// the same JSON shape
func (v *Validator) ValidateSignals(data interface{}) error {
	if v.signalsSchema == nil {
		return fmt.Errorf("signals schema not loaded")
	}
	return validate(v.signalsSchema, data)
}

// validate normalizes data through JSON so typed structs and YAML trees
// are checked the same way
func validate(schema *jsonschema.Schema, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return schema.Validate(doc)
}

// loadSchema loads and compiles an embedded schema file (JSON or YAML)
func loadSchema(path string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	// Parse YAML to interface{} (supports both YAML and JSON)
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	// Convert to JSON for schema compiler
	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schema, err := jsonschema.CompileString(strings.TrimSuffix(path, ".yaml")+".json", string(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
