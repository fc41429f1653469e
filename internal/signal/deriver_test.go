package signal

import (
	"testing"

	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triggerDef(params map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name": "trg_sap_daily",
		"properties": map[string]interface{}{
			"pipelines": []interface{}{
				map[string]interface{}{"parameters": params},
			},
		},
	}
}

func TestDerivePipelinePrefersFirstItemConfig(t *testing.T) {
	items := []model.MigrationItem{
		{
			TableName: "orders",
			BronzeConfig: map[string]interface{}{
				"target_zone":            "eur",
				"target_business_domain": "sale",
				"source_system":          "sap_ecc",
			},
			SilverConfig: map[string]interface{}{
				"target_zone":            "apac",
				"target_business_domain": "Tech",
				"source_system":          "sap_s4",
				"target_table":           "orders",
			},
		},
	}
	def := triggerDef(map[string]interface{}{
		"source_system_zone": "afr",
		"target_zone":        "afr",
		"source_system":      "from_params",
	})

	set := NewDeriver(DefaultConfig()).Derive(items, def, Auxiliary{})

	p := set.Pipeline
	assert.Equal(t, "apac", p.Zone)
	assert.Equal(t, "apac", p.LandingZone)
	assert.Equal(t, "technology", p.Domain)
	assert.Equal(t, "sap_s4", p.SourceSystem)
	assert.Equal(t, "trg_sap_daily", p.Pipeline)
	assert.Equal(t, "platform", p.Owner)
	assert.Equal(t, "blob", p.Connector)
	assert.True(t, p.Schedule.IsZero())
	assert.Equal(t, model.Counts{Bronze: 1, Silver: 1}, p.Counts)
}

func TestDerivePipelineFallsBackToParamsAndDefaults(t *testing.T) {
	def := triggerDef(map[string]interface{}{
		"source_system_zone":     "afr",
		"target_business_domain": "  Finance ",
		"source_system_raw":      "raw_sys",
	})
	set := NewDeriver(Config{}).Derive(nil, def, Auxiliary{})

	p := set.Pipeline
	assert.Equal(t, "afr", p.Zone)
	assert.Equal(t, "maz", p.LandingZone)
	assert.Equal(t, "Finance", p.Domain)
	assert.Equal(t, "raw_sys", p.SourceSystem)
	assert.Empty(t, set.Tables)

	set = NewDeriver(Config{}).Derive(nil, map[string]interface{}{}, Auxiliary{})
	assert.Equal(t, UnknownPipeline, set.Pipeline.Pipeline)
	assert.Equal(t, UnknownDomain, set.Pipeline.Domain)
	assert.Equal(t, UnknownSourceSystem, set.Pipeline.SourceSystem)
}

func TestDeriveTables(t *testing.T) {
	items := []model.MigrationItem{
		{
			TableName: "kna1",
			BronzeConfig: map[string]interface{}{
				"target_table":          "kna1",
				"source_system":         "sap",
				"source_system_country": "br",
			},
			SilverConfig: map[string]interface{}{"target_table": "customers"},
		},
		{
			TableName: "vbak",
			SilverConfig: map[string]interface{}{
				"target_table":           "sales_orders",
				"target_business_domain": "sales",
			},
		},
		{TableName: "nothing"},
	}
	def := triggerDef(map[string]interface{}{"target_business_domain": "tech"})

	set := NewDeriver(DefaultConfig()).Derive(items, def, Auxiliary{})
	require.Len(t, set.Tables, 2)

	brz := set.Tables["kna1"]
	assert.Equal(t, model.LayerBronze, brz.TargetLayer)
	assert.Equal(t, "brz_maz_technology_sap_br", brz.TableName)
	assert.Equal(t, model.FlagYes, brz.Transformations)
	assert.Equal(t, model.FlagNo, brz.ACL)
	assert.Equal(t, "sap-test-secret", brz.ConnectionID)

	slv := set.Tables["sales_orders"]
	assert.Equal(t, model.LayerSilver, slv.TargetLayer)
	assert.Equal(t, "sales_orders", slv.TableName)
	assert.Equal(t, "sales", slv.Domain)
	assert.Equal(t, model.FlagYes, slv.Transformations)

	assert.Equal(t, model.Counts{Bronze: 1, Silver: 2}, set.Pipeline.Counts)
}

func TestDeriveBronzeOnlyTable(t *testing.T) {
	items := []model.MigrationItem{{
		TableName:    "raw",
		BronzeConfig: map[string]interface{}{"source_raw_zone": "mx"},
	}}
	set := NewDeriver(DefaultConfig()).Derive(items, nil, Auxiliary{})

	table := set.Tables[UnknownTargetTable]
	assert.Equal(t, "brz_maz_unknown_domain_unknown_source_system_mx", table.TableName)
	assert.Equal(t, model.FlagNo, table.Transformations)
	assert.Equal(t, model.Counts{Bronze: 1}, set.Pipeline.Counts)
}

func TestDeriveLastWriteWins(t *testing.T) {
	items := []model.MigrationItem{
		{TableName: "a", SilverConfig: map[string]interface{}{"target_table": "dup", "source_system": "first"}},
		{TableName: "b", SilverConfig: map[string]interface{}{"target_table": "dup", "target_zone": "eur"}},
	}
	set := NewDeriver(DefaultConfig()).Derive(items, nil, Auxiliary{})

	require.Len(t, set.Tables, 1)
	assert.Equal(t, "dup", set.Tables["dup"].TableName)
	assert.Equal(t, 2, set.Pipeline.Counts.Silver)
}

func TestDeriveAuxiliaryDocuments(t *testing.T) {
	items := []model.MigrationItem{{TableName: "t", SilverConfig: map[string]interface{}{"target_table": "t"}}}

	tests := []struct {
		name       string
		aux        Auxiliary
		wantACL    model.Flag
		wantConnID string
	}{
		{
			name: "yaml text",
			aux: Auxiliary{
				Manifest: "connection_id: '  kv-sap-prod  '\n",
				Metadata: "state:\n  metadata:\n    access_groups: [readers]\n",
			},
			wantACL:    model.FlagYes,
			wantConnID: "kv-sap-prod",
		},
		{
			name: "decoded trees",
			aux: Auxiliary{
				Manifest: map[string]interface{}{"connection_id": "conn-1"},
				Metadata: map[string]interface{}{"state": map[string]interface{}{"metadata": map[string]interface{}{"access_groups": []interface{}{}}}},
			},
			wantACL:    model.FlagYes,
			wantConnID: "conn-1",
		},
		{
			name: "null access groups and empty connection",
			aux: Auxiliary{
				Manifest: map[string]interface{}{"connection_id": ""},
				Metadata: "state:\n  metadata:\n    access_groups: null\n",
			},
			wantACL:    model.FlagNo,
			wantConnID: "sap-test-secret",
		},
		{
			name: "unparseable documents",
			aux: Auxiliary{
				Manifest: "connection_id: [unclosed",
				Metadata: "state: {bad",
			},
			wantACL:    model.FlagNo,
			wantConnID: "sap-test-secret",
		},
		{
			name:       "scalar metadata",
			aux:        Auxiliary{Metadata: "just text", Manifest: "- a\n- b\n"},
			wantACL:    model.FlagNo,
			wantConnID: "sap-test-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewDeriver(DefaultConfig()).Derive(items, nil, tt.aux)
			table := set.Tables["t"]
			assert.Equal(t, tt.wantACL, table.ACL)
			assert.Equal(t, tt.wantConnID, table.ConnectionID)
		})
	}
}

func TestMapDomain(t *testing.T) {
	d := NewDeriver(Config{DomainAliases: map[string]string{"FIN": "finance"}})

	assert.Equal(t, "finance", d.MapDomain(" fin "))
	assert.Equal(t, "Supply", d.MapDomain("Supply"))
	assert.Equal(t, UnknownDomain, d.MapDomain(""))
	assert.Equal(t, UnknownDomain, d.MapDomain(42))
	assert.Equal(t, UnknownDomain, d.MapDomain(nil))
	// a custom table replaces the built-in aliases
	assert.Equal(t, "tech", d.MapDomain("tech"))
}

func TestConfigOverrides(t *testing.T) {
	d := NewDeriver(Config{DefaultOwner: "data-team", PlaceholderConnectionID: "none"})
	items := []model.MigrationItem{{TableName: "t", SilverConfig: map[string]interface{}{"target_table": "t"}}}

	set := d.Derive(items, nil, Auxiliary{})
	assert.Equal(t, "data-team", set.Pipeline.Owner)
	assert.Equal(t, "blob", set.Pipeline.Connector)
	assert.Equal(t, "none", set.Tables["t"].ConnectionID)
}
