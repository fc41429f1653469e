package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sourceplane/pipeshift/internal/diagnostics"
	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/render"
	"github.com/sourceplane/pipeshift/internal/runner"
	"github.com/spf13/cobra"
)

var (
	inputFile  string
	layerName  string
	dryRun     bool
	viewReport bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run layer validation and report diagnostics per file",
	Long:  "Run the configured validation command for --layer, or parse previously captured output with --input, and group the reported diagnostics by file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidation(cmd.Context())
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Captured validation output to parse instead of running a command")
	validateCmd.Flags().StringVarP(&layerName, "layer", "l", "", "Layer to validate (brz/slv/gld)")
	validateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (json or yaml by extension)")
	validateCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format when printing (json/yaml)")
	validateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the command without executing")
	validateCmd.Flags().BoolVarP(&viewReport, "view", "v", false, "Print a tree view of the report")
	validateCmd.MarkFlagsMutuallyExclusive("input", "layer")
}

func runValidation(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if inputFile == "" && layerName == "" {
		return fmt.Errorf("either --input or --layer is required")
	}
	layer := model.Layer(layerName)

	var output string
	returnCode := 0
	if inputFile != "" {
		status("□ Reading captured output...")
		data, err := loader.ReadFile(rootFS, resolvePath(inputFile))
		if err != nil {
			return err
		}
		output = string(data)
	} else {
		args, err := runner.ValidationArgs(layer, cfg.Validation.Command)
		if err != nil {
			return err
		}

		status("□ Running %s validation...", layer)
		r := runner.NewRunner(resolvePath(workDir), os.Stderr, dryRun)
		result, err := r.Run(ctx, cfg.Validation.WorkDirs[layer], args)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		output = diagnostics.CombineOutput(result.Stdout, result.Stderr)
		returnCode = result.ReturnCode
	}

	files := diagnostics.Parse(output)
	report := render.NewReport(layer, returnCode, files)
	logger.Info("validation finished", "run_id", report.RunID, "layer", layer, "return_code", returnCode, "files", len(files))

	if viewReport {
		status("\n%s", render.ViewReport(report))
	}
	if err := emit(report); err != nil {
		return err
	}

	if !report.Passed {
		return fmt.Errorf("validation failed with exit code %d (%d errors)", report.ReturnCode, report.ErrorCount())
	}
	status("✓ Validation passed")
	return nil
}
