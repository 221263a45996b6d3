// Root command for the webindex CLI.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/webindex/pkg/webindex"
)

// Global flag values.
var (
	flagConfigDir string
	flagVerbose   bool
)

// config holds the settings loaded from config.yaml and the environment.
// Set by PersistentPreRunE so all subcommands can use it.
var config *viper.Viper

var rootCmd = &cobra.Command{
	Use:     "webindex",
	Short:   "Webindex stores and retrieves web-crawl artifacts",
	Version: webindex.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		config, err = loadConfig(configDir)
		if err != nil {
			return err
		}

		slog.SetDefault(newLogger(flagVerbose))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.webindex)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(existsCmd)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
