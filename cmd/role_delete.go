package cmd

import (
	"github.com/spf13/cobra"
)

var roleDeleteCmd = &cobra.Command{
	Use:     "delete <machine-name>",
	Aliases: []string{"rm"},
	Short:   "Delete a role",
	Long: `Delete a role permanently.

Examples:
  rolectl role delete test_role`,
	Args: cobra.ExactArgs(1),
	RunE: runRoleDelete,
}

func init() {
	roleCmd.AddCommand(roleDeleteCmd)
}

func runRoleDelete(cmd *cobra.Command, args []string) error {
	roleID := args[0]
	if err := validateRoleID(roleID); err != nil {
		return err
	}

	return current.manager.Delete(cmd.Context(), roleID)
}
