package widget

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// coerce turns captured widget text into a value: JSON first, then Python
// literal syntax, then the trimmed text itself. Blank text counts as absent.
func coerce(raw string) (interface{}, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return nil, false
	}
	if v, ok := decodeJSON(clean); ok {
		return v, true
	}
	if v, err := parseLiteral(clean); err == nil {
		return v, true
	}
	return clean, true
}

// decodeJSON decodes exactly one JSON value, integers as int
func decodeJSON(s string) (interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return normalizeNumbers(v), true
}

func normalizeNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case []interface{}:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	}
	return v
}

func stringList(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, format(item))
	}
	return out
}

func format(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
