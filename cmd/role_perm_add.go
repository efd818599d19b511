package cmd

import (
	"github.com/spf13/cobra"
)

var rolePermAddCmd = &cobra.Command{
	Use:     "add <machine-name> <permissions>",
	Aliases: []string{"grant"},
	Short:   "Grant permissions to a role",
	Long: `Add one or more permissions to a role.

Permissions the role already holds are left as they are. After a
successful grant the configured cache rebuild command is run.

Examples:
  rolectl role perm add anonymous "access content"
  rolectl role perm add content_editor "access content, post comments"`,
	Args: cobra.ExactArgs(2),
	RunE: runRolePermAdd,
}

func init() {
	rolePermCmd.AddCommand(rolePermAddCmd)
}

func runRolePermAdd(cmd *cobra.Command, args []string) error {
	roleID, perms, err := permissionArgs(args)
	if err != nil {
		return err
	}

	return current.manager.GrantPermissions(cmd.Context(), roleID, perms)
}
