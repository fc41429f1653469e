// Package config loads the engine configuration file.
package config

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/schema"
	"github.com/sourceplane/pipeshift/internal/signal"
	"github.com/sourceplane/pipeshift/internal/trigger"
	"gopkg.in/yaml.v3"
)

// Config is the engine configuration
type Config struct {
	Signals    signal.Config              `yaml:"signals" json:"signals"`
	Governance trigger.GovernanceDefaults `yaml:"governance" json:"governance"`
	Validation Validation                 `yaml:"validation" json:"validation"`
}

// Validation configures the external validation run
type Validation struct {
	Command  map[model.Layer][]string `yaml:"command" json:"command"`
	WorkDirs map[model.Layer]string   `yaml:"workdirs" json:"workdirs"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Signals: signal.DefaultConfig(),
		Governance: trigger.GovernanceDefaults{
			Zone:   "maz",
			Domain: "tech",
		},
		Validation: Validation{
			Command: map[model.Layer][]string{
				model.LayerBronze: {"engineeringstore", "ingestion", "--validate-dags"},
				model.LayerSilver: {"engineeringstore", "ingestion", "--validate-dags"},
				model.LayerGold:   {"engineeringstore", "transformation", "--validate-dags"},
			},
			WorkDirs: map[model.Layer]string{},
		},
	}
}

// Load reads path from fs, validates it and lays it over Default. An empty
// path returns the defaults.
func Load(fs billy.Filesystem, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(raw); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.merge(loaded)
	return cfg, nil
}

// merge overlays every non-empty field of other
func (c *Config) merge(other Config) {
	s := other.Signals
	if s.DefaultZone != "" {
		c.Signals.DefaultZone = s.DefaultZone
	}
	if s.DefaultLandingZone != "" {
		c.Signals.DefaultLandingZone = s.DefaultLandingZone
	}
	if s.DefaultOwner != "" {
		c.Signals.DefaultOwner = s.DefaultOwner
	}
	if s.DefaultConnector != "" {
		c.Signals.DefaultConnector = s.DefaultConnector
	}
	if s.PlaceholderConnectionID != "" {
		c.Signals.PlaceholderConnectionID = s.PlaceholderConnectionID
	}
	if s.DomainAliases != nil {
		c.Signals.DomainAliases = s.DomainAliases
	}

	if other.Governance.Zone != "" {
		c.Governance.Zone = other.Governance.Zone
	}
	if other.Governance.Domain != "" {
		c.Governance.Domain = other.Governance.Domain
	}

	for layer, args := range other.Validation.Command {
		c.Validation.Command[layer] = args
	}
	for layer, dir := range other.Validation.WorkDirs {
		c.Validation.WorkDirs[layer] = dir
	}
}
