package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denysvitali/chargeprice-map/cmd/root"
	"github.com/denysvitali/chargeprice-map/config"
)

var ErrConfigExists = errors.New("config file already exists")

var force bool

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write the default configuration to the config file, ready to be filled in
with the GoingElectric and Chargeprice API keys.`,
	Example: `  # Write $XDG_CONFIG_HOME/chargeprice-map/config.yaml
  chargeprice-map config init

  # Overwrite an existing file
  chargeprice-map config init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := root.GetConfigPath()
		if err := writeDefault(path, force); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	ConfigCmd.AddCommand(configInitCmd)
	root.RootCmd.AddCommand(ConfigCmd)
}

func writeDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
	}
	return config.SaveConfig(config.Default(), path)
}
