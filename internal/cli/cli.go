//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retailreport.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/joepete1953/retailreport/internal/config"
	"github.com/joepete1953/retailreport/internal/logging"
	"github.com/joepete1953/retailreport/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retailreport",
		Short: "Retail feed loader and reporting tool",
		Long: `retailreport loads a denormalized TSV retail feed into a normalized
PostgreSQL schema and reports on the result.

The loader deduplicates dimension values (regions, countries, product
categories, products), assigns surrogate keys, and reconciles fact rows
against the dimensions through natural-key joins. Re-running the load
against the same feed is idempotent.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retailreport.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sampleCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
