package cmd

import (
	"github.com/spf13/cobra"
)

var permissionsCmd = &cobra.Command{
	Use:     "permissions",
	Aliases: []string{"perms"},
	Short:   "Inspect the known permissions",
	Long: `Commands for inspecting the permissions roles may be granted.

Known permissions come from the [permissions] section of the config file:
inline names and *.permissions.yml documents.

Examples:
  rolectl permissions list
  rolectl permissions validate modules/node/node.permissions.yml`,
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
}
