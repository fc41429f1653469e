// Package trigger turns a scheduler trigger definition into per-table
// migration items.
package trigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sourceplane/pipeshift/internal/doc"
	"github.com/sourceplane/pipeshift/internal/model"
)

const (
	keyItemsToProcess = "items_to_process"
	keyLoadToBronze   = "load_to_bronze"
	keyLoadToSilver   = "load_to_silver"
	keyTargetTable    = "target_table"
	keyScriptPath     = "adb_notebook_path"

	// UnknownTable is used when neither layer names a target table
	UnknownTable = "unknown"

	repositoryMarker = "//"
)

// MalformedTriggerError reports a trigger whose structure does not carry the
// expected parameter bag or items list. No partial result accompanies it.
type MalformedTriggerError struct {
	Cause string
	Err   error
}

func (e *MalformedTriggerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed trigger: %s: %v", e.Cause, e.Err)
	}
	return "malformed trigger: " + e.Cause
}

func (e *MalformedTriggerError) Unwrap() error {
	return e.Err
}

// Parameters locates the parameter bag of the first declared pipeline reference
func Parameters(def interface{}) (map[string]interface{}, error) {
	pipelines, ok := doc.Get(def, "properties", "pipelines")
	if !ok {
		return nil, &MalformedTriggerError{Cause: "properties.pipelines is missing"}
	}
	first, ok := doc.First(pipelines)
	if !ok {
		return nil, &MalformedTriggerError{Cause: "properties.pipelines is not a non-empty list"}
	}
	params, ok := doc.GetMap(first, "parameters")
	if !ok {
		return nil, &MalformedTriggerError{Cause: "first pipeline reference has no parameters mapping"}
	}
	return params, nil
}

// PipelineReference returns the name of the first pipeline the trigger starts
func PipelineReference(def interface{}) (string, bool) {
	pipelines, _ := doc.Get(def, "properties", "pipelines")
	first, ok := doc.First(pipelines)
	if !ok {
		return "", false
	}
	name, _ := doc.Get(first, "pipelineReference", "referenceName")
	s := doc.NonEmptyString(name)
	return s, s != ""
}

// ParseItems builds one MigrationItem per entry of the trigger's items list,
// in declaration order.
func ParseItems(def interface{}) ([]model.MigrationItem, error) {
	params, err := Parameters(def)
	if err != nil {
		return nil, err
	}

	raw, ok := doc.Get(params, keyItemsToProcess, "pipelines")
	if !ok {
		return nil, &MalformedTriggerError{Cause: "parameters have no items_to_process.pipelines list"}
	}
	entries, ok := doc.Slice(raw)
	if !ok {
		return nil, &MalformedTriggerError{Cause: fmt.Sprintf("items_to_process.pipelines is %T, not a list", raw)}
	}

	items := make([]model.MigrationItem, 0, len(entries))
	for i, entry := range entries {
		item, err := parseEntry(entry)
		if err != nil {
			return nil, &MalformedTriggerError{Cause: fmt.Sprintf("item %d", i), Err: err}
		}
		items = append(items, item)
	}

	return items, nil
}

func parseEntry(entry interface{}) (model.MigrationItem, error) {
	m, ok := doc.Map(entry)
	if !ok {
		return model.MigrationItem{}, fmt.Errorf("entry is %T, not a mapping", entry)
	}

	bronze, err := subRecord(m, keyLoadToBronze)
	if err != nil {
		return model.MigrationItem{}, err
	}
	silver, err := subRecord(m, keyLoadToSilver)
	if err != nil {
		return model.MigrationItem{}, err
	}

	item := model.MigrationItem{
		TableName:    resolveTableName(bronze, silver),
		BronzeConfig: bronze,
		SilverConfig: silver,
	}
	if bronze != nil {
		item.NotebookPathBrz = NormalizeScriptPath(doc.NonEmptyString(bronze[keyScriptPath]))
	}
	if silver != nil {
		item.NotebookPathSlv = NormalizeScriptPath(doc.NonEmptyString(silver[keyScriptPath]))
	}
	return item, nil
}

func subRecord(m map[string]interface{}, key string) (map[string]interface{}, error) {
	v, present := m[key]
	if !present || v == nil {
		return nil, nil
	}
	record, ok := doc.Map(v)
	if !ok {
		return nil, errors.New(key + " is not a mapping")
	}
	return record, nil
}

// resolveTableName applies silver target, then bronze target, then UnknownTable
func resolveTableName(bronze, silver map[string]interface{}) string {
	var candidates []interface{}
	if silver != nil {
		candidates = append(candidates, silver[keyTargetTable])
	}
	if bronze != nil {
		candidates = append(candidates, bronze[keyTargetTable])
	}
	if name := doc.FirstString(candidates...); name != "" {
		return name
	}
	return UnknownTable
}

// NormalizeScriptPath strips the repository segment from "//repo/path"
// references and ensures the script extension. An empty reference stays empty.
func NormalizeScriptPath(raw string) string {
	if raw == "" {
		return ""
	}

	path := raw
	if strings.HasPrefix(raw, repositoryMarker) {
		// "", "", repo, remainder
		parts := strings.SplitN(raw, "/", 4)
		if len(parts) > 3 {
			path = parts[3]
		}
	}

	if !strings.HasSuffix(path, model.ScriptExtension) {
		path += model.ScriptExtension
	}
	return path
}
