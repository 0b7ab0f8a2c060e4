package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tlycode/multi-agent-system/internal/a2a"
	"github.com/tlycode/multi-agent-system/internal/config"
	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/orchestrator"
	"github.com/tlycode/multi-agent-system/internal/tracing"
	"github.com/tlycode/multi-agent-system/internal/version"
)

// newLogger builds the logger described by cfg, writing console output to out.
func newLogger(cfg *config.Config, out io.Writer) (*logging.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:    logging.ParseLevel(cfg.Log.Level),
		Output:   out,
		FilePath: cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// setupTracing installs span export to stderr when enabled. The returned
// function flushes spans and is always safe to call.
func setupTracing(cfg *config.Config, logger *logging.Logger) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}
	shutdown, err := tracing.Init("mas", version.Get(), os.Stderr)
	if err != nil {
		logger.Warnf("tracing disabled: %v", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warnf("flush traces: %v", err)
		}
	}
}

// newOrchestrator builds an orchestrator for cfg and discovers its agents.
// Discovery finding nobody is reported but not fatal.
func newOrchestrator(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts ...orchestrator.Option) *orchestrator.Orchestrator {
	opts = append([]orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithCallTimeout(cfg.Orchestrator.CallTimeout),
		orchestrator.WithDiscoveryTimeout(cfg.Registry.DiscoveryTimeout),
		orchestrator.WithDiscoveryConcurrency(cfg.Registry.DiscoveryConcurrency),
	}, opts...)

	orch := orchestrator.New(orchestrator.RequiredConfig{
		// Deadlines come from the per-call and discovery contexts.
		Client:    a2a.NewClient(&http.Client{}),
		Addresses: cfg.Workers.Addresses,
	}, opts...)

	if err := orch.Initialize(ctx); err != nil {
		logger.Warnf("%v; make sure agents are running with: mas start-agents", err)
	}
	return orch
}
