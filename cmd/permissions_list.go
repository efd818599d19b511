package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aussie/rolectl/internal/output"
	"github.com/aussie/rolectl/internal/registry"
)

var listPermissionsFormat string

var permissionsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the configured permissions",
	Long: `List every permission known from the config file, ordered by name.

Examples:
  rolectl permissions list
  rolectl permissions list --format yaml`,
	Args: cobra.NoArgs,
	RunE: runPermissionsList,
}

func init() {
	permissionsCmd.AddCommand(permissionsListCmd)
	permissionsListCmd.Flags().StringVarP(&listPermissionsFormat, "format", "f", "table", "Output format: table, yaml or json")
}

type permissionView struct {
	Name           string `json:"name" yaml:"name"`
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	RestrictAccess bool   `json:"restrictAccess" yaml:"restrict access"`
}

func runPermissionsList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listPermissionsFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if !cfg.Permissions.Enabled() {
		fmt.Fprintln(out, "No permissions configured; any permission name is accepted.")
		return nil
	}

	reg, err := loadRegistry(cfg.Permissions)
	if err != nil {
		return err
	}

	views := permissionViews(reg)
	switch format {
	case output.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(views)
	case output.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(views); err != nil {
			return err
		}
		return encoder.Close()
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tRESTRICTED")
	fmt.Fprintln(tw, "----\t-----\t----------")
	for _, p := range views {
		restricted := "no"
		if p.RestrictAccess {
			restricted = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Title, restricted)
	}
	return tw.Flush()
}

func permissionViews(reg *registry.Registry) []permissionView {
	names := reg.Names()
	views := make([]permissionView, 0, len(names))
	for _, name := range names {
		p, _ := reg.Lookup(name)
		views = append(views, permissionView{
			Name:           p.Name,
			Title:          p.Title,
			Description:    p.Description,
			RestrictAccess: p.RestrictAccess,
		})
	}
	return views
}
