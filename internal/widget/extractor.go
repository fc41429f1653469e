// Package widget recovers widget default values from script source text by
// static inspection.
package widget

import (
	"regexp"
	"strings"

	"github.com/sourceplane/pipeshift/internal/doc"
)

// Widget names read by the derived extractors
const (
	WidgetKeyColumns           = "key_columns"
	WidgetWatermarkColumn      = "watermark_column"
	WidgetLoadType             = "load_type"
	WidgetResetCheckpoint      = "reset_stream_checkpoint"
	WidgetAdditionalParameters = "additional_parameters"

	inputFileNameCall = "input_file_name"
	upsertMarker      = "UPSERT"
)

// matcher captures the raw default value of a widget declaration. The
// capture group holds the literal text between the quotes.
type matcher struct {
	name    string
	pattern func(quotedName string) string
	decode  func(raw string) (interface{}, bool)
}

const declarePrefix = `(?s)dbutils\.widgets\.(?:text|dropdown)\(\s*["']`

// matchers are tried in order; the first match wins.
var matchers = []matcher{
	{
		name:    "triple-double",
		pattern: func(n string) string { return declarePrefix + n + `["']\s*,\s*"""(.*?)"""` },
		decode:  coerce,
	},
	{
		name:    "triple-single",
		pattern: func(n string) string { return declarePrefix + n + `["']\s*,\s*'''(.*?)'''` },
		decode:  coerce,
	},
	{
		// single quotes allow list literals with inner double quotes: '["a", "b"]'
		name:    "single",
		pattern: func(n string) string { return declarePrefix + n + `["']\s*,\s*'(.*?)'\s*,` },
		decode:  coerce,
	},
	{
		name:    "double",
		pattern: func(n string) string { return declarePrefix + n + `["']\s*,\s*"(.*?)"\s*,` },
		decode:  coerce,
	},
}

// Extractor reads widget values out of one script's source text
type Extractor struct {
	source string
}

// New creates an extractor over source
func New(source string) *Extractor {
	return &Extractor{source: source}
}

// Value returns the typed default bound to the named widget. The second
// result is false when no declaration for name exists.
func (e *Extractor) Value(name string) (interface{}, bool) {
	quoted := regexp.QuoteMeta(name)
	for _, m := range matchers {
		re := regexp.MustCompile(m.pattern(quoted))
		match := re.FindStringSubmatch(e.source)
		if match == nil {
			continue
		}
		return m.decode(match[1])
	}
	return nil, false
}

// DedupKeys returns the key columns used for deduplication
func (e *Extractor) DedupKeys() []string {
	v, _ := e.Value(WidgetKeyColumns)
	switch t := v.(type) {
	case []interface{}:
		return stringList(t)
	case string:
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			if parsed, ok := decodeJSON(strings.ReplaceAll(t, "'", `"`)); ok {
				if list, ok := parsed.([]interface{}); ok {
					return stringList(list)
				}
			}
		}
	}
	return nil
}

// WatermarkColumns returns the ordering columns. A bracketed string that
// could not be parsed as a list yields an empty list rather than a guess.
func (e *Extractor) WatermarkColumns() []string {
	v, _ := e.Value(WidgetWatermarkColumn)
	switch t := v.(type) {
	case []interface{}:
		return stringList(t)
	case string:
		if t == "" {
			return nil
		}
		if strings.HasPrefix(t, "[") {
			return []string{}
		}
		return []string{t}
	}
	return nil
}

// IsUpsert reports whether the load type names an upsert strategy
func (e *Extractor) IsUpsert() bool {
	v, ok := e.Value(WidgetLoadType)
	if !ok || !doc.Truthy(v) {
		return false
	}
	return strings.Contains(strings.ToUpper(format(v)), upsertMarker)
}

// UsesInputFileName reports whether the script calls input_file_name anywhere
func (e *Extractor) UsesInputFileName() bool {
	return strings.Contains(e.source, inputFileNameCall)
}

// ResetsCheckpoint reports whether the checkpoint reset widget defaults to true
func (e *Extractor) ResetsCheckpoint() bool {
	v, _ := e.Value(WidgetResetCheckpoint)
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}

// AdditionalParameters returns the additional parameters widget when it holds a mapping
func (e *Extractor) AdditionalParameters() (map[string]interface{}, bool) {
	v, _ := e.Value(WidgetAdditionalParameters)
	m, ok := v.(map[string]interface{})
	return m, ok
}
