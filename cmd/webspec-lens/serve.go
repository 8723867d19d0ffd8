package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webspec-lens/webspec-lens/internal/log"
	"github.com/webspec-lens/webspec-lens/internal/lsprpc"
	"github.com/webspec-lens/webspec-lens/internal/provider/registry"
)

// ErrMissingRegistry indicates serve or scan was invoked without a spec
// registry to query against.
var ErrMissingRegistry = errors.New("missing --registry")

type serveConfig struct {
	logConfig      *log.Config
	registryPath   string
	fuzzyThreshold float64
}

func newServeCmd() *cobra.Command {
	cfg := &serveConfig{logConfig: log.NewConfig()}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stdio LSP server",
		Long: `serve runs webspec-lens as a language server over stdio, answering
hover, inlay hint, and code lens requests and publishing diagnostics as
documents change.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.registryPath, "registry", "", "path to a YAML spec registry (required)")
	cmd.Flags().Float64Var(&cfg.fuzzyThreshold, "fuzzy-threshold", 0.85, "Jaro-Winkler similarity threshold for fuzzy step matches")
	cfg.logConfig.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(cfg *serveConfig) error {
	if cfg.registryPath == "" {
		return ErrMissingRegistry
	}

	handler, err := cfg.logConfig.NewHandler(os.Stderr)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	logger := slog.New(handler)

	p, err := registry.Open(cfg.registryPath, logger)
	if err != nil {
		return fmt.Errorf("opening registry %s: %w", cfg.registryPath, err)
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := lsprpc.NewServer(os.Stdin, os.Stdout, p, cfg.fuzzyThreshold, logger)
	logger.Info("serving", "registry", cfg.registryPath, "fuzzyThreshold", cfg.fuzzyThreshold)
	return srv.Run(ctx)
}
