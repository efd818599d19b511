package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rolectl configuration files",
	Long: `Commands for creating rolectl configuration files.

rolectl reads ./.rolectlrc over $HOME/.rolectlrc, or the file named by
--config.

Examples:
  rolectl config init
  rolectl config init --global --store file`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
