package runner

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationArgs(t *testing.T) {
	commands := map[model.Layer][]string{
		model.LayerBronze: {"engineeringstore", "ingestion", "--validate-dags"},
		model.LayerGold:   {"engineeringstore", "transformation", "--validate-dags"},
	}

	args, err := ValidationArgs(model.LayerGold, commands)
	require.NoError(t, err)
	assert.Equal(t, []string{"engineeringstore", "transformation", "--validate-dags"}, args)

	_, err = ValidationArgs(model.LayerSilver, commands)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brz, gld")

	_, err = ValidationArgs("bronze", commands)
	assert.Error(t, err)
}

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	r := NewRunner(t.TempDir(), nil, false)

	res, err := r.Run(context.Background(), "", []string{"sh", "-c", "echo out; echo err >&2; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 3, res.ReturnCode)
	assert.False(t, res.Passed())

	res, err = r.Run(context.Background(), "", []string{"sh", "-c", "pwd"})
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.NotEmpty(t, res.Stdout)
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(t.TempDir(), nil, false)
	_, err := r.Run(context.Background(), "", []string{"pipeshift-command-that-does-not-exist"})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestRunTimeout(t *testing.T) {
	r := NewRunner(t.TempDir(), nil, false)
	r.Timeout = 50 * time.Millisecond

	_, err := r.Run(context.Background(), "", []string{"sh", "-c", "exec sleep 5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRunDryRun(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner("/work", &out, true)

	res, err := r.Run(context.Background(), "hopsflow", []string{"engineeringstore", "ingestion"})
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Equal(t, "→ engineeringstore ingestion (in /work/hopsflow)\n", out.String())
}
