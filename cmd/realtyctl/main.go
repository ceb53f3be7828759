// Command realtyctl runs maintenance tasks against the realty backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/pkg/logger"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "realtyctl",
	Short: "Maintenance tasks for the Summitcrest Realty backend",
	Long: `realtyctl shares configuration with the server: defaults, then the file
named by --config (or REALTY_CONFIG), then environment variables and .env.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("REALTY_CONFIG", configPath); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, "console")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(migrateCmd, hashPasswordCmd, sitemapCmd, leadsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
