package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tlycode/multi-agent-system/internal/render"
)

var agentsOutput string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Discover and list the configured agents",
	Long: `Request the agent card from every configured address and list the agents
that answered. Unreachable addresses are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgents(cmd.Context())
	},
}

func init() {
	agentsCmd.Flags().StringVarP(&agentsOutput, "output", "o", "", "Output format: text, json, yaml (default from output.format)")
}

func runAgents(ctx context.Context) error {
	format, err := render.ParseFormat(firstNonEmpty(agentsOutput, cfg.Output.Format))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Registry.DiscoveryTimeout+5*time.Second)
	defer cancel()

	agents := newOrchestrator(ctx, cfg, logger).Agents()

	switch format {
	case render.FormatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agents)
	case render.FormatYAML:
		out, err := yaml.Marshal(agents)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		render.Agents(os.Stdout, agents)
		return nil
	}
}
