package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tlycode/multi-agent-system/internal/config"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mas",
	Short: "Multi-agent request orchestrator",
	Long: `mas splits a free-text request into subtasks, routes each subtask to the
agents that can handle it, calls those agents concurrently and merges their
answers into one response.

Agents are discovered from the configured addresses (workers.addresses).
Start the bundled web research and CRM agents with:

  mas start-agents

Then send a request:

  mas query "search for javascript tutorials and pull customer contact for John Doe"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromPath(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/mas/config.yaml and .mas.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: error, warn, info, debug")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Run with verbose logging")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(startAgentsCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
