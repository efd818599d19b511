package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	storeName string
	storePath string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "rolectl",
	Short: "rolectl - manage roles and their permissions",
	Long: `rolectl is a command line tool for creating, deleting and listing roles
and for granting or revoking the permissions they carry.

Roles are kept in SQLite by default, or in a TOML file or PostgreSQL.
Permission names can be validated against a list of known permissions,
and a cache rebuild command can be run whenever permissions change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	defer closeSession()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.rolectlrc over $HOME/.rolectlrc)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "role store driver: file, sqlite or postgres (overrides config); memory keeps nothing between runs")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "role store file or DSN (overrides config; default depends on the driver)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
