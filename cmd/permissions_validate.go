package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussie/rolectl/internal/registry"
)

var permissionsValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate permissions files",
	Long: `Validate one or more *.permissions.yml documents before listing them in
the config file.

This command checks that each document:
- Is a YAML mapping keyed by permission name
- Uses names without commas or surrounding spaces
- Gives each permission a non-empty title when one is set
- Uses only the title, description and "restrict access" fields

Examples:
  rolectl permissions validate node.permissions.yml
  rolectl permissions validate modules/*/*.permissions.yml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPermissionsValidate,
}

func init() {
	permissionsCmd.AddCommand(permissionsValidateCmd)
}

func runPermissionsValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		result := registry.Validate(data)
		if result.IsValid() {
			fmt.Fprintf(out, "%s: valid\n", path)
			continue
		}

		failed++
		fmt.Fprintf(out, "%s: %d error(s):\n", path, len(result.Errors))
		for i, err := range result.Errors {
			fmt.Fprintf(out, "  %d. %s\n", i+1, err.Error())
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d file(s)", failed, len(args))
	}
	return nil
}
