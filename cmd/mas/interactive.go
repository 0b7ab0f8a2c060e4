package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tlycode/multi-agent-system/internal/config"
	"github.com/tlycode/multi-agent-system/internal/orchestrator"
	"github.com/tlycode/multi-agent-system/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start interactive mode",
	Long: `Start a prompt where every line is processed as a query.

Type "help" for commands and "exit" to quit. When a config file is in use,
editing workers.addresses re-runs agent discovery without restarting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func runInteractive() error {
	// Log lines would corrupt the TUI; only the log file receives them.
	logger, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer logger.Close()

	flush := setupTracing(cfg, logger)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting interactive mode...")
	orch := newOrchestrator(ctx, cfg, logger, orchestrator.WithEventBuffer(orchestrator.DefaultEventBuffer))
	defer orch.Close()

	program, _ := tui.NewInteractiveProgram(ctx, orch, orch.Events())

	if path := activeConfigFile(); path != "" {
		addresses := slices.Clone(cfg.Workers.Addresses)
		err := config.Watch(path, func(updated *config.Config, err error) {
			if err != nil {
				program.Send(tui.AgentsReloadedMsg{Err: err})
				return
			}
			if slices.Equal(updated.Workers.Addresses, addresses) {
				return
			}
			addresses = slices.Clone(updated.Workers.Addresses)
			if err := orch.Rediscover(ctx, addresses); err != nil {
				logger.Warnf("rediscover: %v", err)
			}
			program.Send(tui.AgentsReloadedMsg{Count: len(orch.Agents())})
		})
		if err != nil {
			logger.Warnf("watch config: %v", err)
		}
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}

	fmt.Println("Exiting interactive mode...")
	return nil
}

func activeConfigFile() string {
	if configPath != "" {
		return configPath
	}
	return config.ActiveConfigPath()
}
