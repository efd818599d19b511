package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussie/rolectl/internal/output"
)

var (
	listRoleFilters []string
	listRoleFormat  string
)

var roleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List roles and their permissions",
	Long: `List every role ordered by machine name.

Filters select roles by a single field comparison and may be repeated;
a role must match all of them. Fields are id, label and perms.

  perms=<permission>    role holds the permission
  perms!=<permission>   role does not hold the permission
  perms*=<text>         some permission contains the text
  id=<machine-name>     exact machine name
  label*=<text>         label contains the text

A filter with no field matches roles holding that permission.

Examples:
  rolectl role list
  rolectl role list --format table
  rolectl role list --filter "administer nodes"
  rolectl role list --filter "label*=editor" --format json`,
	Args: cobra.NoArgs,
	RunE: runRoleList,
}

func init() {
	roleCmd.AddCommand(roleListCmd)
	roleListCmd.Flags().StringArrayVar(&listRoleFilters, "filter", nil, "Filter expression (repeatable)")
	roleListCmd.Flags().StringVarP(&listRoleFormat, "format", "f", "", "Output format: table, yaml or json (default from config)")
}

func runRoleList(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(listRoleFormat, current.cfg)
	if err != nil {
		return err
	}

	filters := make([]output.Filter, 0, len(listRoleFilters))
	for _, expr := range listRoleFilters {
		f, err := output.ParseFilter(expr)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		filters = append(filters, f)
	}

	roles, err := current.manager.List(cmd.Context())
	if err != nil {
		return err
	}
	return output.WriteRoles(cmd.OutOrStdout(), output.Apply(roles, filters...), format)
}
