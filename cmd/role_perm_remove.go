package cmd

import (
	"github.com/spf13/cobra"
)

var rolePermRemoveCmd = &cobra.Command{
	Use:     "remove <machine-name> <permissions>",
	Aliases: []string{"revoke", "rm"},
	Short:   "Revoke permissions from a role",
	Long: `Remove one or more permissions from a role.

Permissions the role does not hold are ignored. After a successful
revoke the configured cache rebuild command is run.

Examples:
  rolectl role perm remove content_editor "post comments"`,
	Args: cobra.ExactArgs(2),
	RunE: runRolePermRemove,
}

func init() {
	rolePermCmd.AddCommand(rolePermRemoveCmd)
}

func runRolePermRemove(cmd *cobra.Command, args []string) error {
	roleID, perms, err := permissionArgs(args)
	if err != nil {
		return err
	}

	return current.manager.RevokePermissions(cmd.Context(), roleID, perms)
}
