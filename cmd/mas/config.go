package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tlycode/multi-agent-system/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify mas configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/mas/config.yaml
Project-specific overrides can be placed in .mas.yaml
Environment variables override both, e.g. MAS_WORKERS_ADDRESSES or LOG_LEVEL.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			displayAllConfig(cfg)
			return nil
		case 1:
			return displayConfigKey(cfg, args[0])
		default:
			return setConfigKey(args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	values := cfg.Values()
	for _, key := range config.Keys() {
		fmt.Printf("%s: %s\n", key, config.FormatValue(values[key]))
	}
	if path := config.ActiveConfigPath(); path != "" {
		fmt.Printf("\n# loaded from %s\n", path)
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) error {
	value, err := cfg.Lookup(key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

// setConfigKey sets a configuration value in the user config and saves it.
// Project overrides and environment variables are not written back.
func setConfigKey(key, value string) error {
	userCfg, err := config.LoadFromPath(config.GetUserConfigPath())
	if err != nil {
		userCfg = config.Default()
	}

	if err := userCfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(userCfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
