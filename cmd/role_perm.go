package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussie/rolectl/internal/role"
)

var rolePermCmd = &cobra.Command{
	Use:     "perm",
	Aliases: []string{"permissions"},
	Short:   "Grant or revoke role permissions",
	Long: `Commands for changing the permissions a role carries.

Permissions are given as a single comma-separated argument. Either all of
them are applied or none is: when a permission registry is configured and
any name is unknown, the role is left untouched.

Examples:
  rolectl role perm add content_editor "access content,post comments"
  rolectl role perm remove content_editor "post comments"`,
}

func init() {
	roleCmd.AddCommand(rolePermCmd)
}

// permissionArgs validates the role ID and splits the permission list.
func permissionArgs(args []string) (string, []string, error) {
	roleID := args[0]
	if err := validateRoleID(roleID); err != nil {
		return "", nil, err
	}

	perms := role.ParsePermissions(args[1])
	if len(perms) == 0 {
		return "", nil, fmt.Errorf("no permissions given: expected a comma-separated list")
	}
	return roleID, perms, nil
}
