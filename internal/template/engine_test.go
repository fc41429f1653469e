package template

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	segments := ParsePath("steps.0.name")
	require.Len(t, segments, 3)
	assert.Equal(t, Segment{Raw: "steps"}, segments[0])
	assert.Equal(t, Segment{Raw: "0", Index: 0, IsIndex: true}, segments[1])
	assert.Equal(t, Segment{Raw: "name"}, segments[2])

	assert.False(t, ParsePath("a.-1")[1].IsIndex)
	assert.False(t, ParsePath("a.1x")[1].IsIndex)
}

func TestApplyCreatesAndIsIdempotent(t *testing.T) {
	op := model.UpdateOperation{Path: "drop_duplicate.based_on_columns", Value: []interface{}{"id", "ts"}}
	want := map[string]interface{}{
		"drop_duplicate": map[string]interface{}{
			"based_on_columns": []interface{}{"id", "ts"},
		},
	}

	engine := NewEngine()
	tree, err := engine.Apply(map[string]interface{}{}, []model.UpdateOperation{op})
	require.NoError(t, err)
	assert.Equal(t, want, tree)

	tree, err = engine.Apply(tree, []model.UpdateOperation{op})
	require.NoError(t, err)
	assert.Equal(t, want, tree)
}

func TestApplySequentialNesting(t *testing.T) {
	ops := []model.UpdateOperation{
		{Path: "drop_duplicate", Value: map[string]interface{}{}},
		{Path: "drop_duplicate.based_on_columns", Value: []interface{}{"id"}},
		{Path: "checkpoint", Value: true},
	}
	tree, err := NewEngine().Apply(nil, ops)
	require.NoError(t, err)
	assert.Equal(t, true, tree["checkpoint"])
	assert.Equal(t, map[string]interface{}{"based_on_columns": []interface{}{"id"}}, tree["drop_duplicate"])
}

func TestSetIntoSequence(t *testing.T) {
	tree := map[string]interface{}{
		"columns": []interface{}{
			map[string]interface{}{"name": "a"},
			map[string]interface{}{"name": "b"},
		},
		"tags": []interface{}{"x", "y"},
	}

	require.NoError(t, Set(tree, "columns.1.name", "renamed"))
	require.NoError(t, Set(tree, "tags.0", "z"))
	require.NoError(t, Set(tree, "columns.0.extra.flag", true))

	cols := tree["columns"].([]interface{})
	assert.Equal(t, "renamed", cols[1].(map[string]interface{})["name"])
	assert.Equal(t, map[string]interface{}{"flag": true}, cols[0].(map[string]interface{})["extra"])
	assert.Equal(t, []interface{}{"z", "y"}, tree["tags"])
}

func TestSetInterfaceKeyedMapping(t *testing.T) {
	tree := map[string]interface{}{
		"legacy": map[interface{}]interface{}{"keep": 1},
	}
	require.NoError(t, Set(tree, "legacy.child.value", 2))

	legacy := tree["legacy"].(map[interface{}]interface{})
	assert.Equal(t, 1, legacy["keep"])
	assert.Equal(t, map[string]interface{}{"value": 2}, legacy["child"])
}

func TestSetErrors(t *testing.T) {
	tree := map[string]interface{}{
		"tags":   []interface{}{"x"},
		"scalar": "text",
	}

	tests := []struct {
		name       string
		path       string
		navigation bool
		segment    string
	}{
		{"index out of range while walking", "tags.3.name", true, "3"},
		{"key on a sequence while walking", "tags.name.x", true, "name"},
		{"descend into a scalar", "scalar.a.b", true, "a"},
		{"assign past the end", "tags.1", false, "1"},
		{"assign key on a sequence", "tags.name", false, "name"},
		{"assign into a scalar", "scalar.a", false, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Set(tree, tt.path, "v")
			require.Error(t, err)

			if tt.navigation {
				var navErr *PathNavigationError
				require.True(t, errors.As(err, &navErr))
				assert.Equal(t, tt.path, navErr.Path)
				assert.Equal(t, tt.segment, navErr.Segment)
				return
			}
			var assignErr *PathAssignmentError
			require.True(t, errors.As(err, &assignErr))
			assert.Equal(t, tt.path, assignErr.Path)
			assert.Equal(t, tt.segment, assignErr.Segment)
		})
	}
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tree := map[string]interface{}{"tags": []interface{}{}}
	_, err := NewEngine().Apply(tree, []model.UpdateOperation{
		{Path: "tags.0", Value: "x"},
		{Path: "after", Value: true},
	})
	require.Error(t, err)
	_, ok := tree["after"]
	assert.False(t, ok)
}

func TestLoadAndWrite(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "tpl/orders/orders_transformations.yaml", []byte("name: orders\nsteps:\n  - id: 1\n"), 0644))
	require.NoError(t, util.WriteFile(fs, "tpl/empty.yaml", []byte("\n"), 0644))

	empty, err := Load(fs, "tpl/empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, empty)

	tree, err := Load(fs, "tpl/orders/orders_transformations.yaml")
	require.NoError(t, err)
	assert.Equal(t, "orders", tree["name"])

	tree, err = NewEngine().Apply(tree, []model.UpdateOperation{{Path: "checkpoint", Value: true}})
	require.NoError(t, err)
	require.NoError(t, Write(fs, "tpl/orders/orders_transformations.yaml", tree))

	reloaded, err := Load(fs, "tpl/orders/orders_transformations.yaml")
	require.NoError(t, err)
	assert.Equal(t, true, reloaded["checkpoint"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": 1}}, reloaded["steps"])

	_, err = Load(fs, "tpl/missing.yaml")
	assert.Error(t, err)
}
