package main

import (
	"fmt"

	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/sourceplane/pipeshift/internal/trigger"
	"github.com/spf13/cobra"
)

var factoryFile string

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the migration items a trigger processes",
	Long:  "Parse the trigger's item list. With --factory and a script source, each silver item is also resolved to its governance document.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listItems()
	},
}

func registerItemsCommand(root *cobra.Command) {
	root.AddCommand(itemsCmd)

	itemsCmd.Flags().StringVarP(&triggerFile, "trigger", "t", "trigger.json", "Trigger definition file (json or yaml)")
	itemsCmd.Flags().StringVar(&factoryFile, "factory", "", "Factory document holding global parameters (optional)")
	itemsCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (json or yaml by extension)")
	itemsCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format when printing (json/yaml)")
	itemsCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
	addSourceFlags(itemsCmd)
}

func listItems() error {
	_, items, err := loadItems()
	if err != nil {
		return err
	}

	src, err := scriptSource()
	if err != nil {
		return fmt.Errorf("failed to open script source: %w", err)
	}

	if src != nil && factoryFile != "" {
		status("□ Resolving governance documents...")
		factory, err := loader.LoadDocument(rootFS, resolvePath(factoryFile))
		if err != nil {
			return fmt.Errorf("failed to load factory: %w", err)
		}
		globals := trigger.FlattenGlobalParameters(factory)

		var docs map[string]string
		items, docs = loader.FetchGovernance(src, items, globals, cfg.Governance, logger)
		status("✓ Found %d governance documents", len(docs))
	}

	status("✓ Parsed %d items", len(items))
	return emit(items)
}
