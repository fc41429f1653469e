package schema

import (
	"testing"

	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidateConfig(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "full",
			doc: `
signals:
  default_zone: maz
  domain_aliases: {tech: technology}
governance:
  default_domain: tech
validation:
  command:
    brz: [engineeringstore, ingestion, --validate-dags]
    gld: [engineeringstore, transformation, --validate-dags]
`,
		},
		{name: "empty", doc: `{}`},
		{name: "unknown section", doc: `storage: {}`, wantErr: true},
		{name: "empty zone", doc: `signals: {default_zone: ""}`, wantErr: true},
		{name: "unknown layer", doc: `validation: {command: {xyz: [a]}}`, wantErr: true},
		{name: "empty command", doc: `validation: {command: {brz: []}}`, wantErr: true},
		{name: "alias not a string", doc: `signals: {domain_aliases: {tech: [a]}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc interface{}
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &doc))

			err := v.ValidateConfig(doc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func validSignals() *model.SignalSet {
	return &model.SignalSet{
		Pipeline: model.PipelineSignal{
			Zone:         "maz",
			LandingZone:  "maz",
			Domain:       "technology",
			Pipeline:     "trg_daily",
			Schedule:     model.Schedule{Cron: "* 3 * * *"},
			Owner:        "platform",
			Connector:    "blob",
			SourceSystem: "sap",
			Counts:       model.Counts{Bronze: 1, Silver: 1},
		},
		Tables: map[string]model.TableSignal{
			"orders": {
				TargetLayer:     model.LayerBronze,
				Domain:          "technology",
				TableName:       "brz_maz_technology_sap_br",
				Owner:           "platform",
				Connector:       "blob",
				TargetEntity:    "orders",
				ConnectionID:    "sap-test-secret",
				Transformations: model.FlagYes,
				ACL:             model.FlagNo,
			},
		},
	}
}

func TestValidateSignals(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.ValidateSignals(validSignals()))

	raw := validSignals()
	raw.Pipeline.Schedule = model.Schedule{Raw: map[string]interface{}{"frequency": "Week"}}
	assert.NoError(t, v.ValidateSignals(raw))

	none := validSignals()
	none.Pipeline.Schedule = model.Schedule{}
	assert.NoError(t, v.ValidateSignals(none))

	badCron := validSignals()
	badCron.Pipeline.Schedule = model.Schedule{Cron: "every day"}
	assert.Error(t, v.ValidateSignals(badCron))

	badFlag := validSignals()
	table := badFlag.Tables["orders"]
	table.ACL = "maybe"
	badFlag.Tables["orders"] = table
	assert.Error(t, v.ValidateSignals(badFlag))

	badLayer := validSignals()
	table = badLayer.Tables["orders"]
	table.TargetLayer = model.LayerGold
	badLayer.Tables["orders"] = table
	assert.Error(t, v.ValidateSignals(badLayer))
}
