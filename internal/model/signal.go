package model

import "encoding/json"

// Flag is the "y"/"n" marker used by the target template generator
type Flag string

const (
	FlagYes Flag = "y"
	FlagNo  Flag = "n"
)

// FlagOf converts a boolean into a Flag
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// Counts tallies bronze and silver loads across a pipeline
type Counts struct {
	Bronze int `yaml:"bronze" json:"bronze"`
	Silver int `yaml:"silver" json:"silver"`
}

// Schedule is either a derived cron string or the raw recurrence block
// that could not be turned into one.
type Schedule struct {
	Cron string
	Raw  interface{}
}

// IsZero reports whether no schedule signal exists
func (s Schedule) IsZero() bool {
	return s.Cron == "" && s.Raw == nil
}

// Value returns the cron string when derived, otherwise the raw block
func (s Schedule) Value() interface{} {
	if s.Cron != "" {
		return s.Cron
	}
	return s.Raw
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value())
}

func (s Schedule) MarshalYAML() (interface{}, error) {
	return s.Value(), nil
}

// PipelineSignal holds pipeline-level deterministic signals
type PipelineSignal struct {
	Zone         string   `yaml:"zone" json:"zone"`
	LandingZone  string   `yaml:"landing_zone" json:"landing_zone"`
	Domain       string   `yaml:"domain" json:"domain"`
	Pipeline     string   `yaml:"pipeline" json:"pipeline"`
	Schedule     Schedule `yaml:"schedule" json:"schedule"`
	Owner        string   `yaml:"owner" json:"owner"`
	Connector    string   `yaml:"connector" json:"connector"`
	SourceSystem string   `yaml:"source_system" json:"source_system"`
	Counts       Counts   `yaml:"counts" json:"counts"`
}

// TableSignal holds table-level deterministic signals
type TableSignal struct {
	TargetLayer     Layer  `yaml:"target_layer" json:"target_layer"`
	Domain          string `yaml:"domain" json:"domain"`
	TableName       string `yaml:"table_name" json:"table_name"`
	Owner           string `yaml:"owner" json:"owner"`
	Connector       string `yaml:"connector" json:"connector"`
	TargetEntity    string `yaml:"target_entity" json:"target_entity"`
	ConnectionID    string `yaml:"connection_id" json:"connection_id"`
	Transformations Flag   `yaml:"transformations" json:"transformations"`
	ACL             Flag   `yaml:"acl" json:"acl"`
}

// SignalSet is the full output of signal derivation. Tables are keyed by
// target entity.
type SignalSet struct {
	Pipeline PipelineSignal         `yaml:"pipeline" json:"pipeline"`
	Tables   map[string]TableSignal `yaml:"tables" json:"tables"`
}
