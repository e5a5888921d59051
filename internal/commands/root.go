package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/stmtparse/internal/buildinfo"
	"github.com/cleared-dev/stmtparse/internal/config"
	"github.com/cleared-dev/stmtparse/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:     "stmtparse",
		Short:   "Extract transactions from positioned-token bank statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(newParseCommand(&g))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newRowsCommand(&g))
	rootCmd.AddCommand(newServeCommand(&g))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// load resolves the configuration and logger for a command run.
func (g *globalFlags) load() (*config.Config, *zap.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	log, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.Load(g.configPath)
	}
	cfg, err := config.Load(config.FileName)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
