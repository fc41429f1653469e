package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourceplane/pipeshift/internal/model"
)

// DefaultTimeout bounds a single validation run
const DefaultTimeout = 5 * time.Minute

// Result is the captured outcome of one command. A non-zero ReturnCode is a
// reported outcome, not an error.
type Result struct {
	Stdout     string
	Stderr     string
	ReturnCode int
}

// Passed reports whether the command exited cleanly
func (r Result) Passed() bool {
	return r.ReturnCode == 0
}

// Runner executes validation commands and captures their output.
type Runner struct {
	WorkDir string
	Stdout  io.Writer
	Timeout time.Duration
	DryRun  bool
}

func NewRunner(workDir string, stdout io.Writer, dryRun bool) *Runner {
	return &Runner{
		WorkDir: workDir,
		Stdout:  stdout,
		Timeout: DefaultTimeout,
		DryRun:  dryRun,
	}
}

// ValidationArgs picks the configured command for a layer. Gold validates
// transformations; bronze and silver validate ingestion.
func ValidationArgs(layer model.Layer, commands map[model.Layer][]string) ([]string, error) {
	switch layer {
	case model.LayerBronze, model.LayerSilver, model.LayerGold:
	default:
		return nil, fmt.Errorf("unsupported layer %q: expected brz, slv or gld", layer)
	}

	args, ok := commands[layer]
	if !ok || len(args) == 0 {
		known := make([]string, 0, len(commands))
		for l := range commands {
			known = append(known, string(l))
		}
		sort.Strings(known)
		return nil, fmt.Errorf("no validation command configured for layer %s (configured: %s)", layer, strings.Join(known, ", "))
	}
	return args, nil
}

// Run executes args in dir, relative to the runner's WorkDir
func (r *Runner) Run(ctx context.Context, dir string, args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, fmt.Errorf("command cannot be empty")
	}

	workDir := r.resolveWorkingDir(dir)
	if r.Stdout != nil {
		fmt.Fprintf(r.Stdout, "→ %s (in %s)\n", strings.Join(args, " "), workDir)
	}
	if r.DryRun {
		return Result{}, nil
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case ctx.Err() != nil:
		return result, fmt.Errorf("command %s timed out: %w", args[0], ctx.Err())
	case errors.As(err, &exitErr):
		result.ReturnCode = exitErr.ExitCode()
		return result, nil
	default:
		return result, fmt.Errorf("failed to run %s: %w", args[0], err)
	}
}

func (r *Runner) resolveWorkingDir(path string) string {
	if path == "" || path == "./" {
		return r.WorkDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.WorkDir, path)
}
