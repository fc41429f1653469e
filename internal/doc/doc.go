// Package doc reads values out of generic document trees as produced by
// encoding/json and yaml.v3. Every accessor is "get if present": a missing
// key or an unexpected type yields the zero value and false, never a panic.
package doc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Map returns v as a string-keyed map. yaml.v3 decodes mappings with
// non-string keys as map[interface{}]interface{}; those are copied with
// their keys formatted.
func Map(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// Slice returns v as a sequence
func Slice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// Get walks nested mappings along keys
func Get(v interface{}, keys ...string) (interface{}, bool) {
	current := v
	for _, key := range keys {
		m, ok := Map(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetMap is Get followed by Map
func GetMap(v interface{}, keys ...string) (map[string]interface{}, bool) {
	found, ok := Get(v, keys...)
	if !ok {
		return nil, false
	}
	return Map(found)
}

// First returns the first element of a non-empty sequence
func First(v interface{}) (interface{}, bool) {
	s, ok := Slice(v)
	if !ok || len(s) == 0 {
		return nil, false
	}
	return s[0], true
}

// NonEmptyString returns v when it is a non-empty string, "" otherwise
func NonEmptyString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// FirstString returns the first candidate that is a non-empty string
func FirstString(candidates ...interface{}) string {
	for _, c := range candidates {
		if s := NonEmptyString(c); s != "" {
			return s
		}
	}
	return ""
}

// Int converts integral numbers and numeric strings. Booleans are rejected.
func Int(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// Truthy mirrors the loose emptiness checks used on config values:
// nil, "", false, zero numbers and empty collections are false.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	case map[interface{}]interface{}:
		return len(t) > 0
	}
	return true
}
