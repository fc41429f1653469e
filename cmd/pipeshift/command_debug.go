package main

import (
	"fmt"

	"github.com/sourceplane/pipeshift/internal/render"
	"github.com/sourceplane/pipeshift/internal/signal"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump the parsed items and derived signals of a trigger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return debugTrigger()
	},
}

func registerDebugCommand(root *cobra.Command) {
	root.AddCommand(debugCmd)

	debugCmd.Flags().StringVarP(&triggerFile, "trigger", "t", "trigger.json", "Trigger definition file (json or yaml)")
}

func debugTrigger() error {
	def, items, err := loadItems()
	if err != nil {
		return err
	}

	set := signal.NewDeriver(cfg.Signals, signal.WithLogger(logger)).Derive(items, def, signal.Auxiliary{})
	fmt.Print(render.NewRenderer(rootFS).DebugDump(items, set))
	return nil
}
