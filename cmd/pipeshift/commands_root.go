package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sourceplane/pipeshift/internal/config"
	"github.com/sourceplane/pipeshift/internal/git"
	"github.com/sourceplane/pipeshift/internal/loader"
	"github.com/sourceplane/pipeshift/internal/model"
	"github.com/sourceplane/pipeshift/internal/render"
	"github.com/sourceplane/pipeshift/internal/trigger"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	workDir      string
	logLevel     string
	triggerFile  string
	outputFile   string
	outputFormat string
	scriptsDir   string
	repoDir      string
	revision     string
	debugMode    bool
)

// Shared state prepared by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger *slog.Logger
	rootFS billy.Filesystem
)

var rootCmd = &cobra.Command{
	Use:          "pipeshift",
	Short:        "Translation engine: legacy pipelines → target templates",
	Long:         "pipeshift reads scheduler triggers and legacy job scripts, derives deterministic signals, and rewrites target framework templates",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(logLevel)
		if err != nil {
			return err
		}

		rootFS = osfs.New("/")
		cfg, err = config.Load(rootFS, resolvePath(configFile))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Engine config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&workDir, "workdir", ".", "Base directory for relative paths")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug/info/warn/error)")

	registerItemsCommand(rootCmd)
	registerSignalsCommand(rootCmd)
	registerTranslateCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerDebugCommand(rootCmd)
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// resolvePath makes p absolute against --workdir. Empty stays empty.
func resolvePath(p string) string {
	if p == "" {
		return ""
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// loadItems reads the trigger and parses its migration items
func loadItems() (map[string]interface{}, []model.MigrationItem, error) {
	status("□ Loading trigger...")
	def, err := loader.LoadTrigger(rootFS, resolvePath(triggerFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load trigger: %w", err)
	}

	status("□ Parsing migration items...")
	items, err := trigger.ParseItems(def)
	if err != nil {
		return nil, nil, err
	}
	if debugMode {
		status("  Found %d items", len(items))
	}
	return def, items, nil
}

// scriptSource picks the git revision source when --repo is set, otherwise
// the plain directory given by --scripts. It returns nil when neither is set.
func scriptSource() (loader.ScriptSource, error) {
	switch {
	case repoDir != "":
		src, err := git.OpenRevisionSource(resolvePath(repoDir), revision)
		if err != nil {
			return nil, err
		}
		return src, nil
	case scriptsDir != "":
		return loader.NewFSSource(rootFS, resolvePath(scriptsDir)), nil
	}
	return nil, nil
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scriptsDir, "scripts", "", "Directory holding the legacy repository checkout")
	cmd.Flags().StringVar(&repoDir, "repo", "", "Git repository to read the legacy scripts from")
	cmd.Flags().StringVar(&revision, "rev", "HEAD", "Revision to read from --repo")
	cmd.MarkFlagsMutuallyExclusive("scripts", "repo")
}

// status prints progress to stderr so stdout carries only results
func status(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// emit writes v to --output, or prints it in --format
func emit(v interface{}) error {
	renderer := render.NewRenderer(rootFS)
	if outputFile != "" {
		path := resolvePath(outputFile)
		if err := renderer.Write(v, path); err != nil {
			return err
		}
		status("✓ Saved to: %s", path)
		return nil
	}

	data, err := renderer.Render(v, outputFormat)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
