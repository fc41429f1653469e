package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/template"
	"github.com/sourceplane/pipeshift/internal/transform"
	"github.com/spf13/cobra"
)

var (
	templatesDir string
	tableName    string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Rewrite transformation templates from legacy scripts",
	Long:  "Fetch every script the trigger references, infer transformations and write them into <templates>/<table>/<table>_transformations.yaml.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return translateTemplates()
	},
}

func registerTranslateCommand(root *cobra.Command) {
	root.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&triggerFile, "trigger", "t", "trigger.json", "Trigger definition file (json or yaml)")
	translateCmd.Flags().StringVar(&templatesDir, "templates", "templates", "Directory holding the target templates")
	translateCmd.Flags().StringVar(&tableName, "table", "", "Only translate this table (optional)")
	translateCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
	addSourceFlags(translateCmd)
}

func translateTemplates() error {
	_, items, err := loadItems()
	if err != nil {
		return err
	}

	if tableName != "" {
		item, ok := transform.FindItem(items, tableName)
		if !ok {
			return fmt.Errorf("table %s is not part of the trigger", tableName)
		}
		items = []model.MigrationItem{item}
	}

	src, err := scriptSource()
	if err != nil {
		return fmt.Errorf("failed to open script source: %w", err)
	}
	if src == nil {
		return fmt.Errorf("either --scripts or --repo is required")
	}

	status("□ Fetching scripts...")
	sources := loader.FetchScripts(src, items, logger)
	if debugMode {
		status("  Fetched %d scripts", len(sources))
	}

	registry := transform.DefaultRegistry(transform.WithLogger(logger))
	translator, err := registry.Lookup(transform.FrameworkFor(model.LayerSilver), transform.ArtifactTransformations)
	if err != nil {
		return err
	}
	engine := template.NewEngine(template.WithLogger(logger))

	status("□ Translating templates...")
	written := 0
	for _, item := range items {
		if !transform.NeedsTransformations(item) {
			continue
		}

		path := transform.TemplatePath(resolvePath(templatesDir), item.TableName)
		if err := translateOne(engine, translator, item, sources, path); err != nil {
			logger.Error("translation failed", "table", item.TableName, "error", err)
			status("  ✗ %s: %v", item.TableName, err)
			continue
		}
		written++
		status("  ✓ %s", path)
	}

	status("✓ Updated %d templates", written)
	return nil
}

func translateOne(engine *template.Engine, translator transform.Translator, item model.MigrationItem, sources model.NotebookSourceMap, path string) error {
	tree, err := template.Load(rootFS, path)
	if errors.Is(err, os.ErrNotExist) {
		tree = map[string]interface{}{}
	} else if err != nil {
		return err
	}

	tree, err = transform.Translate(engine, translator, item, sources, tree)
	if err != nil {
		return err
	}
	return template.Write(rootFS, path, tree)
}
