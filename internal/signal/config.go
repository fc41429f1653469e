// Package signal derives deterministic pipeline and table signals from
// parsed migration items.
package signal

import "strings"

// Fallback values used when neither the item configs nor the trigger supply one
const (
	UnknownDomain       = "unknown_domain"
	UnknownSourceSystem = "unknown_source_system"
	UnknownPipeline     = "unknown_pipeline"
	UnknownCountry      = "unknown_country"
	UnknownTargetTable  = "unknown_target_table"
)

// Config holds the defaults and alias table a Deriver works with
type Config struct {
	DefaultZone             string            `yaml:"default_zone" json:"default_zone"`
	DefaultLandingZone      string            `yaml:"default_landing_zone" json:"default_landing_zone"`
	DefaultOwner            string            `yaml:"default_owner" json:"default_owner"`
	DefaultConnector        string            `yaml:"default_connector" json:"default_connector"`
	PlaceholderConnectionID string            `yaml:"placeholder_connection_id" json:"placeholder_connection_id"`
	DomainAliases           map[string]string `yaml:"domain_aliases" json:"domain_aliases"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		DefaultZone:             "maz",
		DefaultLandingZone:      "maz",
		DefaultOwner:            "platform",
		DefaultConnector:        "blob",
		PlaceholderConnectionID: "sap-test-secret",
		DomainAliases: map[string]string{
			"tech":  "technology",
			"sale":  "sales",
			"sales": "sales",
		},
	}
}

// withDefaults fills every empty field from DefaultConfig and lowercases alias keys
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultZone == "" {
		c.DefaultZone = d.DefaultZone
	}
	if c.DefaultLandingZone == "" {
		c.DefaultLandingZone = d.DefaultLandingZone
	}
	if c.DefaultOwner == "" {
		c.DefaultOwner = d.DefaultOwner
	}
	if c.DefaultConnector == "" {
		c.DefaultConnector = d.DefaultConnector
	}
	if c.PlaceholderConnectionID == "" {
		c.PlaceholderConnectionID = d.PlaceholderConnectionID
	}
	if c.DomainAliases == nil {
		c.DomainAliases = d.DomainAliases
	}

	aliases := make(map[string]string, len(c.DomainAliases))
	for k, v := range c.DomainAliases {
		aliases[strings.ToLower(strings.TrimSpace(k))] = v
	}
	c.DomainAliases = aliases
	return c
}
