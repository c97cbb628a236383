// Package cmd implements the CLI commands for ham-sandbox.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ham-sandbox",
	Short: "Run an in-memory HeroesAndMore marketplace",
	Long: "ham-sandbox serves the marketplace endpoints the client uses from memory,\n" +
		"with seeded accounts and listings, for local development and end-to-end tests.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults apply when empty)")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
