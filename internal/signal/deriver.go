package signal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourceplane/pipeshift/internal/doc"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/trigger"
	"gopkg.in/yaml.v3"
)

// Auxiliary carries optional documents that refine table signals. Each may
// be a decoded tree or the raw YAML text of the document.
type Auxiliary struct {
	Manifest interface{}
	Metadata interface{}
}

// Option configures a Deriver
type Option func(*Deriver)

// WithLogger sets the logger used for debug output on unreadable documents
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Deriver computes the signal set of a pipeline
type Deriver struct {
	config Config
	logger *slog.Logger
}

// NewDeriver creates a deriver; empty config fields take their defaults
func NewDeriver(cfg Config, opts ...Option) *Deriver {
	d := &Deriver{
		config: cfg.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive builds the pipeline signal and one table signal per item carrying
// a config. It never fails: fields that cannot be read fall back to defaults.
func (d *Deriver) Derive(items []model.MigrationItem, def interface{}, aux Auxiliary) *model.SignalSet {
	params, _ := trigger.Parameters(def)

	var first model.PrimaryConfig
	if len(items) > 0 {
		first = items[0].PipelineConfig()
	}

	zone := text(firstTruthy(first.Get("target_zone"), params["source_system_zone"], d.config.DefaultZone))
	landingZone := text(firstTruthy(first.Get("target_zone"), params["target_zone"], d.config.DefaultLandingZone))
	domain := d.MapDomain(firstTruthy(first.Get("target_business_domain"), params["target_business_domain"], UnknownDomain))
	sourceSystem := text(firstTruthy(
		first.Get("source_system"),
		first.Get("source_system_raw"),
		params["source_system"],
		params["source_system_raw"],
		UnknownSourceSystem,
	))
	name, _ := doc.Get(def, "name")

	pipeline := model.PipelineSignal{
		Zone:         zone,
		LandingZone:  landingZone,
		Domain:       domain,
		Pipeline:     text(firstTruthy(name, UnknownPipeline)),
		Schedule:     DeriveSchedule(def),
		Owner:        d.config.DefaultOwner,
		Connector:    d.config.DefaultConnector,
		SourceSystem: sourceSystem,
	}

	acl := model.FlagOf(d.hasAccessGroups(aux.Metadata))
	connectionID := d.connectionID(aux.Manifest)

	tables := make(map[string]model.TableSignal)
	for _, item := range items {
		primary := item.TableConfig()
		if primary.IsNone() {
			continue
		}

		table := d.tableSignal(primary, zone, domain)
		table.ACL = acl
		table.ConnectionID = connectionID
		if item.HasSilver() {
			table.Transformations = model.FlagYes
			pipeline.Counts.Silver++
		}
		if item.HasBronze() {
			pipeline.Counts.Bronze++
		}

		if _, exists := tables[table.TargetEntity]; exists {
			d.logger.Warn("table signal overwritten by a later item", "target_entity", table.TargetEntity, "table", item.TableName)
		}
		tables[table.TargetEntity] = table
	}

	return &model.SignalSet{Pipeline: pipeline, Tables: tables}
}

func (d *Deriver) tableSignal(primary model.PrimaryConfig, zone, domain string) model.TableSignal {
	zoneLocal := text(firstTruthy(primary.Get("target_zone"), zone))
	domainLocal := d.MapDomain(firstTruthy(primary.Get("target_business_domain"), domain))
	sourceSystem := text(firstTruthy(primary.Get("source_system"), primary.Get("source_system_raw"), UnknownSourceSystem))
	country := text(firstTruthy(primary.Get("source_system_country"), primary.Get("source_raw_zone"), UnknownCountry))
	targetEntity := text(firstTruthy(primary.Get("target_table"), UnknownTargetTable))

	var tableName string
	if primary.Layer == model.LayerBronze {
		tableName = strings.Join([]string{string(model.LayerBronze), zoneLocal, domainLocal, sourceSystem, country}, "_")
	} else {
		tableName = text(firstTruthy(primary.Get("target_table"), primary.Get("source_table"), targetEntity))
	}

	return model.TableSignal{
		TargetLayer:     primary.Layer,
		Domain:          domainLocal,
		TableName:       tableName,
		Owner:           d.config.DefaultOwner,
		Connector:       d.config.DefaultConnector,
		TargetEntity:    targetEntity,
		Transformations: model.FlagOf(primary.Layer == model.LayerSilver),
	}
}

// hasAccessGroups reports whether state.metadata.access_groups is set
func (d *Deriver) hasAccessGroups(metadata interface{}) bool {
	tree, ok := d.document(metadata, "metadata")
	if !ok {
		return false
	}
	groups, found := doc.Get(tree, "state", "metadata", "access_groups")
	return found && groups != nil
}

// connectionID reads connection_id from the manifest, or the placeholder
func (d *Deriver) connectionID(manifest interface{}) string {
	tree, ok := d.document(manifest, "manifest")
	if !ok {
		return d.config.PlaceholderConnectionID
	}
	m, ok := doc.Map(tree)
	if !ok {
		return d.config.PlaceholderConnectionID
	}
	if conn := m["connection_id"]; doc.Truthy(conn) {
		return strings.TrimSpace(text(conn))
	}
	return d.config.PlaceholderConnectionID
}

// document decodes raw YAML text, or passes a decoded tree through. Parse
// failures are logged and treated as an absent document.
func (d *Deriver) document(v interface{}, kind string) (interface{}, bool) {
	if !doc.Truthy(v) {
		return nil, false
	}
	s, ok := v.(string)
	if !ok {
		return v, true
	}
	var tree interface{}
	if err := yaml.Unmarshal([]byte(s), &tree); err != nil {
		d.logger.Debug("could not parse auxiliary document", "kind", kind, "error", err)
		return nil, false
	}
	return tree, true
}

func firstTruthy(candidates ...interface{}) interface{} {
	for _, c := range candidates {
		if doc.Truthy(c) {
			return c
		}
	}
	return nil
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}
