package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the back-office admin CLI. Subcommands are attached in wire.go.
var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Back-office admin CLI",
	Long:          "Administrative utilities for the trucking back office (tenant registry, user permissions).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
