package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussie/rolectl/internal/config"
	"github.com/aussie/rolectl/internal/output"
)

var (
	configInitGlobal bool
	configInitForce  bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file holding the default settings.

The file goes to --config when given, to $HOME/.rolectlrc with --global,
and to ./.rolectlrc otherwise. The --store and --store-path flags are
recorded in the file. An existing file is left alone unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write $HOME/.rolectlrc instead of ./.rolectlrc")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configInitPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !os.IsNotExist(err) {
		return err
	}

	cfg := config.DefaultConfig()
	if err := applyStoreFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	n := &output.Notifier{W: cmd.ErrOrStderr()}
	n.Success(fmt.Sprintf("Wrote %s", path))
	return nil
}

func configInitPath() (string, error) {
	switch {
	case cfgFile != "":
		return cfgFile, nil
	case configInitGlobal:
		return config.GlobalConfigPath()
	default:
		return config.LocalConfigPath(), nil
	}
}
