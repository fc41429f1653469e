package trigger

import (
	"fmt"
	"sort"

	"github.com/sourceplane/pipeshift/internal/doc"
	"github.com/sourceplane/pipeshift/internal/model"
)

// GovernanceDefaults fills the zone and domain when global parameters omit them
type GovernanceDefaults struct {
	Zone   string `yaml:"default_zone" json:"default_zone"`
	Domain string `yaml:"default_domain" json:"default_domain"`
}

const unknownSegment = "unknown"

// GovernancePath builds the location of the quality rule file for a silver
// table. Items without a silver config have no governance document.
func GovernancePath(item model.MigrationItem, globals map[string]string, defaults GovernanceDefaults) string {
	if !item.HasSilver() {
		return ""
	}

	slv := item.SilverConfig
	system := orUnknown(slv["source_system"])
	country := orUnknown(slv["source_system_country"])
	database := orUnknown(slv["target_database"])

	zone := defaults.Zone
	if v, ok := globals["project_zone"]; ok {
		zone = v
	}
	domain := defaults.Domain
	if v, ok := globals["project_business_domain"]; ok {
		domain = v
	}

	return fmt.Sprintf("src/%s/%s/%s/%s/dq_definitions/%s/%s/%s.yaml",
		zone, zone, domain, system, country, database, item.TableName)
}

func orUnknown(v interface{}) string {
	if s := doc.NonEmptyString(v); s != "" {
		return s
	}
	return unknownSegment
}

// FlattenGlobalParameters reads a factory document's global parameters into
// a flat map. String-valued parameters are taken from the root, then the
// per-environment defaults (prod, else dev) are laid over them. Whatever
// could be read is returned; malformed sections are skipped.
func FlattenGlobalParameters(factory interface{}) map[string]string {
	values := make(map[string]string)

	params, ok := doc.GetMap(factory, "properties", "globalParameters")
	if !ok {
		return values
	}

	for name, param := range params {
		v, _ := doc.Get(param, "value")
		if s, ok := v.(string); ok {
			values[name] = s
		}
	}

	perEnv, _ := doc.GetMap(params, "default_parameters_per_environment", "value")
	target, _ := doc.Map(perEnv["prod"])
	if len(target) == 0 {
		target, _ = doc.Map(perEnv["dev"])
	}
	for k, v := range target {
		if v == nil {
			continue
		}
		values[k] = fmt.Sprint(v)
	}

	return values
}

// UniqueScriptPaths lists every script path referenced by items once, sorted
func UniqueScriptPaths(items []model.MigrationItem) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		for _, p := range []string{item.NotebookPathBrz, item.NotebookPathSlv} {
			if p != "" {
				seen[p] = true
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
