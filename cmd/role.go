package cmd

import (
	"github.com/spf13/cobra"
)

var roleCmd = &cobra.Command{
	Use:     "role",
	Aliases: []string{"roles"},
	Short:   "Manage roles",
	Long: `Commands for managing roles and the permissions they grant.

A role is identified by its machine name (for example "content_editor") and
carries a human-readable label and a set of permission names.

Examples:
  rolectl role create content_editor "Content editor"
  rolectl role perm add content_editor "access content,post comments"
  rolectl role perm remove content_editor "post comments"
  rolectl role list --filter "access content" --format table
  rolectl role get content_editor
  rolectl role delete content_editor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := openSession(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeSession()
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
}
