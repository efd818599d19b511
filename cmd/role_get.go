package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aussie/rolectl/internal/output"
)

var getRoleFormat string

var roleGetCmd = &cobra.Command{
	Use:   "get <machine-name>",
	Short: "Show a single role",
	Long: `Show a role's label, permissions and timestamps.

Examples:
  rolectl role get content_editor
  rolectl role get content_editor --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runRoleGet,
}

func init() {
	roleCmd.AddCommand(roleGetCmd)
	roleGetCmd.Flags().StringVarP(&getRoleFormat, "format", "f", "table", "Output format: table, yaml or json")
}

func runRoleGet(cmd *cobra.Command, args []string) error {
	roleID := args[0]
	if err := validateRoleID(roleID); err != nil {
		return err
	}

	format, err := output.ParseFormat(getRoleFormat)
	if err != nil {
		return err
	}

	r, err := current.manager.Get(cmd.Context(), roleID)
	if err != nil {
		return err
	}
	return output.WriteRole(cmd.OutOrStdout(), r, format)
}
