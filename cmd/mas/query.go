package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tlycode/multi-agent-system/internal/render"
)

var queryOutput string

var queryCmd = &cobra.Command{
	Use:   "query <message>",
	Short: "Send a query to the multi-agent system",
	Long: `Send one request to the agents and print the merged result.

The request is split into subtasks on connectives such as "and", "then" and
"also"; each subtask goes to every agent able to handle it.

Examples:
  mas query "search for javascript tutorials"
  mas query "find news about AI and pull customer contact for Jane Smith" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(strings.Join(args, " "))
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "Output format: text, json, yaml (default from output.format)")
}

func runQuery(message string) error {
	format, err := render.ParseFormat(firstNonEmpty(queryOutput, cfg.Output.Format))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	flush := setupTracing(cfg, logger)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing query: %q\n", message)
	}

	orch := newOrchestrator(ctx, cfg, logger)

	result, err := orch.Process(ctx, message)
	if err != nil {
		return fmt.Errorf("process query: %w", err)
	}

	return render.Write(os.Stdout, result, format)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
