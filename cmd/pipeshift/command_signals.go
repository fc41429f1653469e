package main

import (
	"fmt"

	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/sourceplane/pipeshift/internal/render"
	"github.com/sourceplane/pipeshift/internal/schema"
	"github.com/sourceplane/pipeshift/internal/signal"
	"github.com/spf13/cobra"
)

var (
	manifestFile string
	metadataFile string
	viewSignals  bool
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Derive pipeline and table signals from a trigger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return deriveSignals()
	},
}

func registerSignalsCommand(root *cobra.Command) {
	root.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVarP(&triggerFile, "trigger", "t", "trigger.json", "Trigger definition file (json or yaml)")
	signalsCmd.Flags().StringVar(&manifestFile, "manifest", "", "Manifest document with the connection id (optional)")
	signalsCmd.Flags().StringVar(&metadataFile, "metadata", "", "Metadata document with access groups (optional)")
	signalsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (json or yaml by extension)")
	signalsCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format when printing (json/yaml)")
	signalsCmd.Flags().BoolVarP(&viewSignals, "view", "v", false, "Print a tree view of the signals")
	signalsCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
}

func deriveSignals() error {
	def, items, err := loadItems()
	if err != nil {
		return err
	}

	manifest, err := loader.LoadOptionalText(rootFS, resolvePath(manifestFile))
	if err != nil {
		return err
	}
	metadata, err := loader.LoadOptionalText(rootFS, resolvePath(metadataFile))
	if err != nil {
		return err
	}

	status("□ Deriving signals...")
	deriver := signal.NewDeriver(cfg.Signals, signal.WithLogger(logger))
	set := deriver.Derive(items, def, signal.Auxiliary{Manifest: manifest, Metadata: metadata})

	status("□ Validating signal document...")
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateSignals(set); err != nil {
		return fmt.Errorf("signal document failed validation: %w", err)
	}

	status("✓ Derived signals for %d tables", len(set.Tables))
	if viewSignals {
		status("\n%s", render.ViewSignals(set))
	}
	return emit(set)
}
