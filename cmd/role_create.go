package cmd

import (
	"github.com/spf13/cobra"
)

var roleCreateCmd = &cobra.Command{
	Use:     "create <machine-name> [<label>]",
	Aliases: []string{"add"},
	Short:   "Create a new role",
	Long: `Create a new role with no permissions.

When the label is omitted it is derived from the machine name by
upper-casing its first character ("test_role" becomes "Test_role").

Examples:
  rolectl role create test_role
  rolectl role create content_editor "Content editor"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRoleCreate,
}

func init() {
	roleCmd.AddCommand(roleCreateCmd)
}

func runRoleCreate(cmd *cobra.Command, args []string) error {
	roleID := args[0]
	if err := validateRoleID(roleID); err != nil {
		return err
	}

	label := ""
	if len(args) > 1 {
		label = args[1]
	}

	_, err := current.manager.Create(cmd.Context(), roleID, label)
	return err
}
