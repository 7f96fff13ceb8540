package main

import (
	"github.com/spf13/cobra"

	"github.com/open-dcat/open-dcat/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "open-dcat",
	Short:         "Open-DCAT catalogs data sources and governs access to what they hold.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: cmd.CommandPath()})
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd, datasourceCmd, discoverCmd, profileCmd, freshnessCmd, exportCmd, versionCmd)
}
