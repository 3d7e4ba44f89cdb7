package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gantry/internal/config"
	"github.com/zjrosen/gantry/internal/model"
)

var initSave bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter machine configuration",
	Long: `Create a starter machine configuration in the configuration directory:
a simulated machine plus empty package and part catalogs. Documents
that already exist are left untouched.

A default settings file is written to ~/.config/gantry/config.yaml when
none exists. With --save, the chosen directory is recorded there as
config_dir so later commands find it without --dir.

Examples:
  # Initialize the default directory (~/.gantry)
  gantry init

  # Initialize a project-local directory and make it the default
  gantry init --dir ./machine --save`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initSave, "save", false,
		"record the directory as config_dir in the settings file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := resolveConfigDir()

	if err := model.InitDirectory(dir); err != nil {
		return fmt.Errorf("initializing %s: %w", dir, err)
	}
	cmd.Printf("Initialized machine configuration in %s\n", dir)

	settingsPath := viper.ConfigFileUsed()
	if settingsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating home directory: %w", err)
		}
		settingsPath = filepath.Join(home, ".config", "gantry", "config.yaml")
		if err := config.WriteDefaultConfig(settingsPath); err != nil {
			return err
		}
		cmd.Printf("Wrote default settings to %s\n", settingsPath)
	}

	if initSave {
		if err := config.SaveConfigDir(settingsPath, dir); err != nil {
			return fmt.Errorf("saving config_dir: %w", err)
		}
		cmd.Printf("Recorded config_dir in %s\n", settingsPath)
	}
	return nil
}
