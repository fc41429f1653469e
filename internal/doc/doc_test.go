package doc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tree := map[string]interface{}{
		"properties": map[interface{}]interface{}{
			"type": "ScheduleTrigger",
			1:      "numeric key",
		},
	}

	v, ok := Get(tree, "properties", "type")
	require.True(t, ok)
	assert.Equal(t, "ScheduleTrigger", v)

	v, ok = Get(tree, "properties", "1")
	require.True(t, ok)
	assert.Equal(t, "numeric key", v)

	_, ok = Get(tree, "properties", "type", "deeper")
	assert.False(t, ok)

	_, ok = Get(tree, "missing")
	assert.False(t, ok)

	_, ok = Get("scalar", "anything")
	assert.False(t, ok)
}

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
		ok    bool
	}{
		{"int", 3, 3, true},
		{"float integral", float64(7), 7, true},
		{"float fractional", 7.5, 0, false},
		{"json number", json.Number("12"), 12, true},
		{"numeric string", " 4 ", 4, true},
		{"word", "four", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstString(t *testing.T) {
	assert.Equal(t, "b", FirstString(nil, "", 42, "b", "c"))
	assert.Equal(t, "", FirstString(nil, false))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(map[string]interface{}{}))
	assert.False(t, Truthy([]interface{}{}))
	assert.True(t, Truthy("x"))
	assert.True(t, Truthy([]interface{}{"a"}))
}
