package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/workers"
)

const shutdownTimeout = 5 * time.Second

var startAgentsCmd = &cobra.Command{
	Use:   "start-agents",
	Short: "Start all agents in the system",
	Long: `Serve the bundled WebResearchAgent and CRMResearchAgent until interrupted.

Ports and host come from agents.web.port, agents.crm.port and agents.host.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStartAgents()
	},
}

func runStartAgents() error {
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	flush := setupTracing(cfg, logger)
	defer flush()

	host := cfg.Agents.Host
	webEndpoint := workers.Endpoint(host, cfg.Agents.Web.Port)
	crmEndpoint := workers.Endpoint(host, cfg.Agents.CRM.Port)

	servers := []*a2a.Server{
		workers.NewServer(fmt.Sprintf(":%d", cfg.Agents.Web.Port), workers.NewWebResearchAgent(webEndpoint, logger), logger),
		workers.NewServer(fmt.Sprintf(":%d", cfg.Agents.CRM.Port), workers.NewCRMResearchAgent(crmEndpoint, logger), logger),
	}

	fmt.Println("Starting multi-agent system...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(srv.Start)
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("shutting down agents")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnf("shutdown %s: %v", srv.Card().Name, err)
			}
		}
		return nil
	})

	printStatus("✓", "Web Research Agent: "+webEndpoint, color.FgGreen)
	printStatus("✓", "CRM Research Agent: "+crmEndpoint, color.FgGreen)
	fmt.Println("\nTo query the system, use: mas query \"your message\"")

	return g.Wait()
}
